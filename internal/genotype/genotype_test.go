package genotype

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"auxesis/internal/config"
	"auxesis/internal/innovation"
	"auxesis/internal/model"
	"auxesis/internal/storage"
)

func decodeGenomeFixture(t *testing.T, name string) model.GenomeRecord {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "fixtures", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	genome, err := storage.DecodeGenome(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return genome
}

func loadFixtureGenome(t *testing.T, name string, cfg *config.Config) (*Genome, *innovation.Handler) {
	t.Helper()

	rec := decodeGenomeFixture(t, name)
	handler := innovation.NewHandler(rec.NumInputs, rec.NumOutputs, rec.BiasValue != nil)

	maxNode, maxConn := -1, -1
	for _, n := range rec.Nodes {
		if n.ID > maxNode {
			maxNode = n.ID
		}
	}
	for _, c := range rec.Connections {
		if c.ID > maxConn {
			maxConn = c.ID
		}
	}
	handler.EnsureCounters(maxNode+1, maxConn+1)

	g, err := FromRecord(rec, handler, cfg)
	if err != nil {
		t.Fatalf("genome from record: %v", err)
	}
	return g, handler
}

func newTestGenome(t *testing.T, numInputs, numOutputs int, cfg *config.Config, rng *rand.Rand, opts ...Option) (*Genome, *innovation.Handler) {
	t.Helper()

	handler := innovation.NewHandler(numInputs, numOutputs, cfg.Genome.UseBias)
	g, err := New(numInputs, numOutputs, handler, cfg, rng, opts...)
	if err != nil {
		t.Fatalf("new genome: %v", err)
	}
	return g, handler
}

func connectionPairs(t *testing.T, g *Genome) map[[2]int]int {
	t.Helper()

	pairs := make(map[[2]int]int, len(g.Connections()))
	for _, c := range g.Connections() {
		pairs[[2]int{c.From().ID(), c.To().ID()}]++
	}
	return pairs
}
