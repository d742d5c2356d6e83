package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"auxesis/internal/model"
)

func TestGenomeCodecRoundTrip(t *testing.T) {
	genome := model.GenomeRecord{
		VersionedRecord: model.NewVersionedRecord(),
		ID:              3,
		Fitness:         1.5,
		NumInputs:       1,
		NumOutputs:      1,
		Nodes: []model.NodeRecord{
			{ID: 0, Type: "input", Activation: "linear"},
			{ID: 1, Type: "output", Activation: "linear"},
		},
		Connections: []model.ConnectionRecord{
			{ID: 1, From: 0, To: 1, Weight: 0.25, Enabled: true},
		},
	}

	encoded, err := EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode genome: %v", err)
	}
	decoded, err := DecodeGenome(encoded)
	if err != nil {
		t.Fatalf("decode genome: %v", err)
	}
	if !reflect.DeepEqual(genome, decoded) {
		t.Fatalf("genome round trip mismatch\nin=%+v\nout=%+v", genome, decoded)
	}
}

func TestDecodeGenomeRejectsVersionMismatch(t *testing.T) {
	genome := model.GenomeRecord{
		VersionedRecord: model.VersionedRecord{SchemaVersion: 99, CodecVersion: 1},
		ID:              1,
	}
	encoded, err := EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode genome: %v", err)
	}
	if _, err := DecodeGenome(encoded); !errors.Is(err, ErrSchemaVersionMismatch) {
		t.Fatalf("expected ErrSchemaVersionMismatch, got: %v", err)
	}

	genome.VersionedRecord = model.VersionedRecord{SchemaVersion: 1, CodecVersion: 99}
	encoded, err = EncodeGenome(genome)
	if err != nil {
		t.Fatalf("encode genome: %v", err)
	}
	if _, err := DecodeGenome(encoded); !errors.Is(err, ErrCodecVersionMismatch) {
		t.Fatalf("expected ErrCodecVersionMismatch, got: %v", err)
	}
}

func TestDecodeGenomeFixture(t *testing.T) {
	data, err := os.ReadFile(fixturePath("minimal_genome_v1.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	genome, err := DecodeGenome(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if genome.NumInputs != 2 || genome.NumOutputs != 1 {
		t.Fatalf("unexpected io counts: %d/%d", genome.NumInputs, genome.NumOutputs)
	}
	if len(genome.Nodes) != 4 || len(genome.Connections) != 3 {
		t.Fatalf("unexpected fixture sizes: nodes=%d connections=%d", len(genome.Nodes), len(genome.Connections))
	}
	if genome.BiasValue == nil || *genome.BiasValue != 1 {
		t.Fatalf("expected bias value 1, got %v", genome.BiasValue)
	}
}

func TestSessionCodecRoundTrip(t *testing.T) {
	session := model.SessionRecord{
		VersionedRecord: model.NewVersionedRecord(),
		ID:              "sess-1",
		CreatedAt:       "2026-01-02T03:04:05Z",
		Seed:            42,
		Generation:      3,
		Morphology:      "xor-v1",
		Config:          []string{"genome.use_bias=true"},
		Genomes:         2,
	}

	encoded, err := EncodeSession(session)
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	decoded, err := DecodeSession(encoded)
	if err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !reflect.DeepEqual(session, decoded) {
		t.Fatalf("session round trip mismatch\nin=%+v\nout=%+v", session, decoded)
	}
}

func TestInnovationsCodecRejectsVersionMismatch(t *testing.T) {
	records := []model.InnovationRecord{
		{VersionedRecord: model.NewVersionedRecord(), Kind: "node", SrcID: 0, DestID: 3, ID: 4},
		{VersionedRecord: model.VersionedRecord{SchemaVersion: 2, CodecVersion: 1}, Kind: "connection", ID: 5},
	}
	encoded, err := EncodeInnovations(records)
	if err != nil {
		t.Fatalf("encode innovations: %v", err)
	}
	if _, err := DecodeInnovations(encoded); !errors.Is(err, ErrSchemaVersionMismatch) {
		t.Fatalf("expected ErrSchemaVersionMismatch, got: %v", err)
	}
}

func TestTrialCodecRoundTrip(t *testing.T) {
	trial := model.TrialRecord{
		VersionedRecord: model.NewVersionedRecord(),
		TrialID:         "trial-7",
		Seed:            7,
		Genomes:         4,
		Generations:     2,
		Operators:       []string{"weights", "add_connection"},
		Complexity:      []float64{3, 4.5},
		Distances:       []float64{0, 0.25},
	}

	encoded, err := EncodeTrial(trial)
	if err != nil {
		t.Fatalf("encode trial: %v", err)
	}
	decoded, err := DecodeTrial(encoded)
	if err != nil {
		t.Fatalf("decode trial: %v", err)
	}
	if !reflect.DeepEqual(trial, decoded) {
		t.Fatalf("trial round trip mismatch\nin=%+v\nout=%+v", trial, decoded)
	}
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}
