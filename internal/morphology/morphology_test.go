package morphology

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"auxesis/internal/config"
	"auxesis/internal/genotype"
	"auxesis/internal/innovation"
)

func TestBuiltinMorphologies(t *testing.T) {
	cases := []struct {
		name    string
		inputs  int
		outputs int
	}{
		{"xor-v1", 2, 1},
		{"cart-pole-lite-v1", 3, 1},
		{"sine-fit-v1", 1, 1},
		{"parity3-v1", 3, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := GetMorphology(tc.name)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			in, out, useBias := m.Dimensions()
			if in != tc.inputs || out != tc.outputs || !useBias {
				t.Fatalf("dimensions = %d/%d/%t, want %d/%d/true", in, out, useBias, tc.inputs, tc.outputs)
			}
			if m.Description == "" {
				t.Fatal("builtin presets carry a description")
			}
		})
	}
}

func TestMorphologySizesGenome(t *testing.T) {
	m, err := GetMorphology("cart-pole-lite-v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	in, out, useBias := m.Dimensions()
	cfg := config.Default()
	cfg.Genome.UseBias = useBias
	handler := innovation.NewHandler(in, out, useBias)
	g, err := genotype.New(in, out, handler, cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new genome: %v", err)
	}

	if len(g.Inputs()) != 3 || len(g.Outputs()) != 1 || g.Bias() == nil {
		t.Fatalf("genome shape = %d/%d inputs/outputs", len(g.Inputs()), len(g.Outputs()))
	}
	if len(g.Connections()) != 3 {
		t.Fatalf("initial connections = %d, want 3", len(g.Connections()))
	}
}

func TestGetMorphologyNormalizesNames(t *testing.T) {
	for _, name := range []string{"XOR-V1", "xor_v1", " xor-v1 "} {
		m, err := GetMorphology(name)
		if err != nil {
			t.Fatalf("get %q: %v", name, err)
		}
		if m.Name != "xor-v1" {
			t.Fatalf("resolved %q to %s", name, m.Name)
		}
	}
}

func TestGetMorphologyNotFound(t *testing.T) {
	if _, err := GetMorphology("warehouse-robot-v1"); !errors.Is(err, ErrMorphologyNotFound) {
		t.Fatalf("expected ErrMorphologyNotFound, got: %v", err)
	}
}

func TestRegisterMorphologyValidation(t *testing.T) {
	resetMorphologyRegistryForTests()
	t.Cleanup(resetMorphologyRegistryForTests)

	if err := RegisterMorphology(Morphology{Name: "", Inputs: 1, Outputs: 1}); err == nil {
		t.Fatal("expected empty name error")
	}
	if err := RegisterMorphology(Morphology{Name: "no-inputs", Inputs: 0, Outputs: 1}); err == nil {
		t.Fatal("expected input count error")
	}
	if err := RegisterMorphology(Morphology{Name: "no-outputs", Inputs: 1, Outputs: 0}); err == nil {
		t.Fatal("expected output count error")
	}
	if err := RegisterMorphology(Morphology{Name: "XOR_V1", Inputs: 2, Outputs: 1}); !errors.Is(err, ErrMorphologyExists) {
		t.Fatalf("expected ErrMorphologyExists, got: %v", err)
	}
}

func TestListMorphologiesSorted(t *testing.T) {
	resetMorphologyRegistryForTests()
	t.Cleanup(resetMorphologyRegistryForTests)

	MustRegisterMorphology(Morphology{
		Name:    "aaa-custom-v1",
		Inputs:  4,
		Outputs: 2,
	})

	want := []string{"aaa-custom-v1", "cart-pole-lite-v1", "parity3-v1", "sine-fit-v1", "xor-v1"}
	if got := ListMorphologies(); !reflect.DeepEqual(got, want) {
		t.Fatalf("morphology list = %v, want %v", got, want)
	}

	resetMorphologyRegistryForTests()
	want = []string{"cart-pole-lite-v1", "parity3-v1", "sine-fit-v1", "xor-v1"}
	if got := ListMorphologies(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reset list = %v, want %v", got, want)
	}
}
