package config

import (
	"fmt"
	"sort"

	"gopkg.in/ini.v1"
)

// Genome holds construction-time options for new genomes.
type Genome struct {
	OutNodesActivation    string  `ini:"out_nodes_activation"`
	HiddenNodesActivation string  `ini:"hidden_nodes_activation"`
	InitialNodeActivation float64 `ini:"initial_node_activation"`
	UseBias               bool    `ini:"use_bias"`
	BiasValue             float64 `ini:"bias_value"`
	NewWeightMin          float64 `ini:"new_weight_min"`
	NewWeightMax          float64 `ini:"new_weight_max"`
	AllowSelfConnections  bool    `ini:"allow_self_connections"`
}

// Mutation holds the weight-mutation parameters.
type Mutation struct {
	WeightPerturbationPc float64 `ini:"weight_perturbation_pc"`
	WeightResetChance    float64 `ini:"weight_reset_chance"`
}

// Crossover holds the gene-inheritance parameters.
type Crossover struct {
	DisableInheritedConnectionChance float64 `ini:"disable_inherited_connection_chance"`
}

// Distance holds the compatibility-distance coefficients.
type Distance struct {
	ExcessCoefficient           float64 `ini:"excess_coefficient"`
	DisjointCoefficient         float64 `ini:"disjoint_coefficient"`
	WeightDifferenceCoefficient float64 `ini:"weight_difference_coefficient"`
}

// Config aggregates every genome-layer setting. Values are consumed
// read-only by genomes and their operators.
type Config struct {
	Genome    Genome
	Mutation  Mutation
	Crossover Crossover
	Distance  Distance
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Genome: Genome{
			OutNodesActivation:    "linear",
			HiddenNodesActivation: "steepened_sigmoid",
			InitialNodeActivation: 0,
			UseBias:               true,
			BiasValue:             1,
			NewWeightMin:          -1,
			NewWeightMax:          1,
			AllowSelfConnections:  true,
		},
		Mutation: Mutation{
			WeightPerturbationPc: 0.1,
			WeightResetChance:    0.1,
		},
		Crossover: Crossover{
			DisableInheritedConnectionChance: 0.75,
		},
		Distance: Distance{
			ExcessCoefficient:           1,
			DisjointCoefficient:         1,
			WeightDifferenceCoefficient: 0.5,
		},
	}
}

// Load reads an INI file over the defaults and validates the result.
// Missing sections and keys keep their default values.
func Load(path string) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := Default()
	sections := []struct {
		name string
		dst  interface{}
	}{
		{"genome", &cfg.Genome},
		{"mutation", &cfg.Mutation},
		{"crossover", &cfg.Crossover},
		{"distance", &cfg.Distance},
	}
	for _, section := range sections {
		if err := file.Section(section.name).MapTo(section.dst); err != nil {
			return nil, fmt.Errorf("config section [%s]: %w", section.name, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field consistency.
func (c *Config) Validate() error {
	if c.Genome.NewWeightMin > c.Genome.NewWeightMax {
		return fmt.Errorf("config error: new weight interval inverted: [%g, %g]",
			c.Genome.NewWeightMin, c.Genome.NewWeightMax)
	}
	chances := []struct {
		name  string
		value float64
	}{
		{"weight_reset_chance", c.Mutation.WeightResetChance},
		{"disable_inherited_connection_chance", c.Crossover.DisableInheritedConnectionChance},
	}
	for _, chance := range chances {
		if chance.value < 0 || chance.value > 1 {
			return fmt.Errorf("config error: %s must be in [0, 1], got %g", chance.name, chance.value)
		}
	}
	if c.Mutation.WeightPerturbationPc < 0 {
		return fmt.Errorf("config error: weight_perturbation_pc must be >= 0, got %g",
			c.Mutation.WeightPerturbationPc)
	}
	coefficients := []struct {
		name  string
		value float64
	}{
		{"excess_coefficient", c.Distance.ExcessCoefficient},
		{"disjoint_coefficient", c.Distance.DisjointCoefficient},
		{"weight_difference_coefficient", c.Distance.WeightDifferenceCoefficient},
	}
	for _, coefficient := range coefficients {
		if coefficient.value < 0 {
			return fmt.Errorf("config error: %s must be >= 0, got %g", coefficient.name, coefficient.value)
		}
	}
	return nil
}

// BiasValue returns the bias node value and whether a bias node is enabled.
func (c *Config) BiasValue() (float64, bool) {
	if !c.Genome.UseBias {
		return 0, false
	}
	return c.Genome.BiasValue, true
}

// Flatten renders the configuration as sorted "section.key=value" pairs,
// suitable for archiving alongside a session.
func (c *Config) Flatten() []string {
	pairs := map[string]string{
		"genome.out_nodes_activation":                   c.Genome.OutNodesActivation,
		"genome.hidden_nodes_activation":                c.Genome.HiddenNodesActivation,
		"genome.initial_node_activation":                formatFloat(c.Genome.InitialNodeActivation),
		"genome.use_bias":                               fmt.Sprintf("%t", c.Genome.UseBias),
		"genome.bias_value":                             formatFloat(c.Genome.BiasValue),
		"genome.new_weight_min":                         formatFloat(c.Genome.NewWeightMin),
		"genome.new_weight_max":                         formatFloat(c.Genome.NewWeightMax),
		"genome.allow_self_connections":                 fmt.Sprintf("%t", c.Genome.AllowSelfConnections),
		"mutation.weight_perturbation_pc":               formatFloat(c.Mutation.WeightPerturbationPc),
		"mutation.weight_reset_chance":                  formatFloat(c.Mutation.WeightResetChance),
		"crossover.disable_inherited_connection_chance": formatFloat(c.Crossover.DisableInheritedConnectionChance),
		"distance.excess_coefficient":                   formatFloat(c.Distance.ExcessCoefficient),
		"distance.disjoint_coefficient":                 formatFloat(c.Distance.DisjointCoefficient),
		"distance.weight_difference_coefficient":        formatFloat(c.Distance.WeightDifferenceCoefficient),
	}
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key+"="+pairs[key])
	}
	return out
}

func formatFloat(value float64) string {
	return fmt.Sprintf("%g", value)
}
