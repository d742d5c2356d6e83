package genotype

import (
	"errors"
	"testing"

	"auxesis/internal/config"
	"auxesis/internal/model"
)

func TestProcessFullyConnectedWithBias(t *testing.T) {
	g, _ := loadFixtureGenome(t, "minimal_genome_v1.json", config.Default())

	out, err := g.Process([]float64{2, 3})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0] != 6.0 {
		t.Fatalf("process([2,3]): got %v want [6]", out)
	}
}

func TestProcessRejectsWrongInputLength(t *testing.T) {
	g, _ := loadFixtureGenome(t, "minimal_genome_v1.json", config.Default())

	if _, err := g.Process([]float64{1}); !errors.Is(err, ErrInvalidInputLength) {
		t.Fatalf("expected ErrInvalidInputLength, got: %v", err)
	}
	if _, err := g.Process(nil); !errors.Is(err, ErrInvalidInputLength) {
		t.Fatalf("expected ErrInvalidInputLength for nil input, got: %v", err)
	}
}

// The fixture's hidden node loops onto itself, so the second step reads the
// activation cached by the first one.
func TestProcessRecurrentReadsPreviousActivation(t *testing.T) {
	g, _ := loadFixtureGenome(t, "recurrent_genome_v1.json", config.Default())

	first, err := g.Process([]float64{1})
	if err != nil {
		t.Fatalf("first step: %v", err)
	}
	if first[0] != 2.0 {
		t.Fatalf("first step: got %g want 2", first[0])
	}

	second, err := g.Process([]float64{1})
	if err != nil {
		t.Fatalf("second step: %v", err)
	}
	if second[0] != 3.0 {
		t.Fatalf("second step: got %g want 3", second[0])
	}

	g.ResetValues()
	again, err := g.Process([]float64{1})
	if err != nil {
		t.Fatalf("step after reset: %v", err)
	}
	if again[0] != 2.0 {
		t.Fatalf("reset must clear recurrent state: got %g want 2", again[0])
	}
}

func TestProcessSkipsDisabledConnections(t *testing.T) {
	g, _ := loadFixtureGenome(t, "minimal_genome_v1.json", config.Default())

	for _, c := range g.Connections() {
		if c.From().ID() == 1 {
			c.Enabled = false
		}
	}

	out, err := g.Process([]float64{2, 3})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if out[0] != 3.0 {
		t.Fatalf("disabled gene must contribute nothing: got %g want 3", out[0])
	}
}

func TestProcessLeavesUnreachableNodesUntouched(t *testing.T) {
	g := buildGenome(t, config.Default(), 5,
		[]model.NodeRecord{
			{ID: 0, Type: "input", Activation: "linear"},
			{ID: 1, Type: "output", Activation: "linear"},
			{ID: 2, Type: "hidden", Activation: "linear"},
		},
		[]model.ConnectionRecord{
			{ID: 1, From: 0, To: 1, Weight: 1, Enabled: true},
			{ID: 2, From: 0, To: 2, Weight: 1, Enabled: true},
		})

	out, err := g.Process([]float64{5})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if out[0] != 5.0 {
		t.Fatalf("output: got %g want 5", out[0])
	}
	if got := g.NodeByID(2).Value(); got != 0 {
		t.Fatalf("node feeding no output must never be evaluated, value=%g", got)
	}
}

func TestProcessOutputsFollowOutputOrder(t *testing.T) {
	g := buildGenome(t, config.Default(), 6,
		[]model.NodeRecord{
			{ID: 0, Type: "input", Activation: "linear"},
			{ID: 1, Type: "output", Activation: "linear"},
			{ID: 2, Type: "output", Activation: "linear"},
		},
		[]model.ConnectionRecord{
			{ID: 1, From: 0, To: 1, Weight: 2, Enabled: true},
			{ID: 2, From: 0, To: 2, Weight: 3, Enabled: true},
		})

	out, err := g.Process([]float64{1})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 2 || out[0] != 2.0 || out[1] != 3.0 {
		t.Fatalf("outputs must follow output node order: got %v want [2 3]", out)
	}
}
