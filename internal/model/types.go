package model

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// NewVersionedRecord stamps a record with the current versions.
func NewVersionedRecord() VersionedRecord {
	return VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}

// GenomeRecord is the flat, storable rendering of a genome graph. Node and
// connection order follows the genome's canonical order, so encoding is
// deterministic for a given genome.
type GenomeRecord struct {
	VersionedRecord
	ID          int                `json:"id"`
	SpeciesID   *int               `json:"species_id,omitempty"`
	Fitness     float64            `json:"fitness"`
	AdjFitness  float64            `json:"adj_fitness"`
	NumInputs   int                `json:"num_inputs"`
	NumOutputs  int                `json:"num_outputs"`
	BiasValue   *float64           `json:"bias_value,omitempty"`
	Nodes       []NodeRecord       `json:"nodes"`
	Connections []ConnectionRecord `json:"connections"`
}

// NodeRecord describes a single node gene.
type NodeRecord struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"`
	Activation string  `json:"activation"`
	Initial    float64 `json:"initial,omitempty"`
}

// ConnectionRecord describes a single connection gene.
type ConnectionRecord struct {
	ID      int     `json:"id"`
	From    int     `json:"from"`
	To      int     `json:"to"`
	Weight  float64 `json:"weight"`
	Enabled bool    `json:"enabled"`
}

// SessionRecord describes one evolution session: the shared random seed,
// the id handler's generation and a snapshot of the configuration.
type SessionRecord struct {
	VersionedRecord
	ID         string   `json:"id"`
	CreatedAt  string   `json:"created_at"`
	Seed       int64    `json:"seed"`
	Generation int      `json:"generation"`
	Morphology string   `json:"morphology,omitempty"`
	Config     []string `json:"config"`
	Genomes    int      `json:"genomes"`
}

// InnovationRecord journals a single fresh id allocation.
type InnovationRecord struct {
	VersionedRecord
	Kind       string `json:"kind"`
	SrcID      int    `json:"src_id"`
	DestID     int    `json:"dest_id"`
	ID         int    `json:"id"`
	Generation int    `json:"generation"`
}

// TrialRecord captures the outcome of one seeded mutation trial.
type TrialRecord struct {
	VersionedRecord
	TrialID     string    `json:"trial_id"`
	Seed        int64     `json:"seed"`
	Genomes     int       `json:"genomes"`
	Generations int       `json:"generations"`
	Operators   []string  `json:"operators"`
	Complexity  []float64 `json:"complexity"`
	Distances   []float64 `json:"distances"`
}
