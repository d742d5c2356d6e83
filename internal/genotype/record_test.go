package genotype

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"auxesis/internal/config"
	"auxesis/internal/innovation"
	"auxesis/internal/model"
)

func grownTestGenome(t *testing.T, rng *rand.Rand, cfg *config.Config) *Genome {
	t.Helper()

	g, _ := newTestGenome(t, 2, 1, cfg, rng)
	if _, err := g.AddConnection(g.Bias(), g.Outputs()[0], rng); err != nil {
		t.Fatalf("add bias connection: %v", err)
	}
	if _, err := g.AddRandomHiddenNode(rng); err != nil {
		t.Fatalf("add hidden node: %v", err)
	}
	return g
}

func TestToRecordCanonicalOrder(t *testing.T) {
	cfg := config.Default()
	g := grownTestGenome(t, rand.New(rand.NewSource(4)), cfg)

	rec := g.ToRecord()

	if rec.SchemaVersion != model.CurrentSchemaVersion || rec.CodecVersion != model.CurrentCodecVersion {
		t.Fatalf("record versions = %d/%d", rec.SchemaVersion, rec.CodecVersion)
	}
	if rec.ID != g.ID() || rec.NumInputs != 2 || rec.NumOutputs != 1 {
		t.Fatalf("record header mismatch: %+v", rec)
	}
	if rec.BiasValue == nil || *rec.BiasValue != 1 {
		t.Fatalf("bias value = %v, want 1", rec.BiasValue)
	}

	wantTypes := []string{"input", "input", "bias", "output", "hidden"}
	if len(rec.Nodes) != len(wantTypes) {
		t.Fatalf("node count = %d, want %d", len(rec.Nodes), len(wantTypes))
	}
	for i, n := range rec.Nodes {
		if n.Type != wantTypes[i] {
			t.Fatalf("node %d type = %s, want %s", i, n.Type, wantTypes[i])
		}
		if n.ID != i {
			t.Fatalf("node %d id = %d", i, n.ID)
		}
	}
	if rec.Nodes[4].Activation != cfg.Genome.HiddenNodesActivation {
		t.Fatalf("hidden activation = %s", rec.Nodes[4].Activation)
	}

	if len(rec.Connections) != 5 {
		t.Fatalf("connection count = %d, want 5", len(rec.Connections))
	}
	disabled := 0
	for i, c := range rec.Connections {
		if i > 0 && c.ID <= rec.Connections[i-1].ID {
			t.Fatalf("connection ids out of order at %d: %d after %d", i, c.ID, rec.Connections[i-1].ID)
		}
		if !c.Enabled {
			disabled++
		}
	}
	if disabled != 1 {
		t.Fatalf("disabled genes = %d, want exactly the split one", disabled)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	cfg := config.Default()
	g := grownTestGenome(t, rand.New(rand.NewSource(5)), cfg)
	g.Fitness = 2.5
	g.AdjFitness = 1.25
	g.SetSpeciesID(3)

	rec := g.ToRecord()
	rebuilt, err := FromRecord(rec, innovation.NewHandler(2, 1, true), cfg)
	if err != nil {
		t.Fatalf("from record: %v", err)
	}

	if got := rebuilt.ToRecord(); !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip drifted:\ngot  %+v\nwant %+v", got, rec)
	}
}

func TestFromRecordValidation(t *testing.T) {
	scaffold := []model.NodeRecord{
		{ID: 0, Type: "input", Activation: "linear"},
		{ID: 1, Type: "output", Activation: "linear"},
	}
	cases := []struct {
		name    string
		rec     model.GenomeRecord
		wantErr error
	}{
		{
			name: "unknown node type",
			rec: model.GenomeRecord{Nodes: []model.NodeRecord{
				{ID: 0, Type: "weird", Activation: "linear"},
			}},
		},
		{
			name: "unknown activation",
			rec: model.GenomeRecord{Nodes: []model.NodeRecord{
				{ID: 0, Type: "input", Activation: "waveform"},
			}},
		},
		{
			name: "duplicate node id",
			rec: model.GenomeRecord{Nodes: []model.NodeRecord{
				{ID: 0, Type: "input", Activation: "linear"},
				{ID: 0, Type: "output", Activation: "linear"},
			}},
		},
		{
			name: "second bias node",
			rec: model.GenomeRecord{Nodes: []model.NodeRecord{
				{ID: 0, Type: "input", Activation: "linear"},
				{ID: 1, Type: "bias", Activation: "linear", Initial: 1},
				{ID: 2, Type: "bias", Activation: "linear", Initial: 1},
				{ID: 3, Type: "output", Activation: "linear"},
			}},
		},
		{
			name: "no input nodes",
			rec: model.GenomeRecord{Nodes: []model.NodeRecord{
				{ID: 0, Type: "output", Activation: "linear"},
			}},
		},
		{
			name: "no output nodes",
			rec: model.GenomeRecord{Nodes: []model.NodeRecord{
				{ID: 0, Type: "input", Activation: "linear"},
			}},
		},
		{
			name: "connection references missing node",
			rec: model.GenomeRecord{
				Nodes: scaffold,
				Connections: []model.ConnectionRecord{
					{ID: 1, From: 0, To: 9, Weight: 1, Enabled: true},
				},
			},
		},
		{
			name: "duplicate connection pair",
			rec: model.GenomeRecord{
				Nodes: scaffold,
				Connections: []model.ConnectionRecord{
					{ID: 1, From: 0, To: 1, Weight: 1, Enabled: true},
					{ID: 2, From: 0, To: 1, Weight: 2, Enabled: true},
				},
			},
			wantErr: ErrConnectionExists,
		},
		{
			name: "connection into an input",
			rec: model.GenomeRecord{
				Nodes: scaffold,
				Connections: []model.ConnectionRecord{
					{ID: 1, From: 1, To: 0, Weight: 1, Enabled: true},
				},
			},
			wantErr: ErrInvalidDestination,
		},
	}

	cfg := config.Default()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromRecord(tc.rec, innovation.NewHandler(1, 1, false), cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFromRecordRequiresHandlerAndConfig(t *testing.T) {
	rec := decodeGenomeFixture(t, "minimal_genome_v1.json")

	if _, err := FromRecord(rec, nil, config.Default()); err == nil {
		t.Fatal("expected error for missing handler")
	}
	if _, err := FromRecord(rec, innovation.NewHandler(2, 1, true), nil); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestFixtureRoundTripStable(t *testing.T) {
	decoded := decodeGenomeFixture(t, "minimal_genome_v1.json")

	g, err := FromRecord(decoded, innovation.NewHandler(2, 1, true), config.Default())
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	if got := g.ToRecord(); !reflect.DeepEqual(got, decoded) {
		t.Fatalf("fixture round trip drifted:\ngot  %+v\nwant %+v", got, decoded)
	}
}
