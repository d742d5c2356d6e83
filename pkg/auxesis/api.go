package auxesis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"auxesis/internal/config"
	"auxesis/internal/genotype"
	"auxesis/internal/innovation"
	"auxesis/internal/model"
	"auxesis/internal/morphology"
	"auxesis/internal/storage"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultDBPath       = "auxesis.db"
	defaultMorphology   = "xor-v1"
)

// ErrGenomeNotFound reports a load for a genome id the session's store does
// not hold.
var ErrGenomeNotFound = errors.New("genome not found")

// Options configures a session. Zero values select the defaults: the
// reference configuration, an in-memory store, a time-derived seed and the
// xor-v1 morphology. Config takes precedence over ConfigPath when both are
// set, and an injected Store over StoreKind/DBPath.
//
// SessionID attaches the session to an existing archive entry instead of
// allocating a fresh id; Init then adopts the stored seed, generation and
// morphology (explicit Seed and Morphology options win over the record).
type Options struct {
	ConfigPath   string
	Config       *config.Config
	Seed         int64
	Store        storage.Store
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	Morphology   string
	SessionID    string
}

// Session owns one wired genome workbench: the configuration, the morphology
// sizing new genomes, the shared id handler, a single seeded random source
// and the archive store. Fresh id allocations are journaled through the
// handler's observer and flushed to the store on generation boundaries.
//
// A session is not safe for concurrent use.
type Session struct {
	id        string
	createdAt string
	seed      int64

	cfg     *config.Config
	morph   morphology.Morphology
	handler *innovation.Handler
	rng     *rand.Rand

	store        storage.Store
	ownsStore    bool
	artifactsDir string
	journal      []model.InnovationRecord
	genomeCount  int
	ready        bool

	attached      bool
	morphExplicit bool
	seedExplicit  bool
}

// New wires a session from the options. The store is not touched until Init.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil && opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	morphName := opts.Morphology
	if morphName == "" {
		morphName = defaultMorphology
	}
	morph, err := morphology.GetMorphology(morphName)
	if err != nil {
		return nil, err
	}

	// The morphology fixes the network interface; the configuration keeps
	// every value-level setting. Work on a copy so the caller's config is
	// left alone.
	cfgCopy := *cfg
	cfgCopy.Genome.UseBias = morph.UseBias

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := opts.Store
	ownsStore := false
	if store == nil {
		dbPath := opts.DBPath
		if dbPath == "" {
			dbPath = defaultDBPath
		}
		created, err := storage.NewStore(opts.StoreKind, dbPath)
		if err != nil {
			return nil, err
		}
		store = created
		ownsStore = true
	}

	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}

	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		id:            id,
		createdAt:     time.Now().UTC().Format(time.RFC3339),
		seed:          seed,
		cfg:           &cfgCopy,
		morph:         morph,
		handler:       innovation.NewHandler(morph.Inputs, morph.Outputs, morph.UseBias),
		rng:           rand.New(rand.NewSource(seed)),
		store:         store,
		ownsStore:     ownsStore,
		artifactsDir:  artifactsDir,
		attached:      opts.SessionID != "",
		morphExplicit: opts.Morphology != "",
		seedExplicit:  opts.Seed != 0,
	}
	s.installObserver()
	return s, nil
}

func (s *Session) installObserver() {
	s.handler.Observer = func(ev innovation.Event) {
		s.journal = append(s.journal, model.InnovationRecord{
			VersionedRecord: model.NewVersionedRecord(),
			Kind:            string(ev.Kind),
			SrcID:           ev.SrcID,
			DestID:          ev.DestID,
			ID:              ev.ID,
			Generation:      ev.Generation,
		})
	}
}

// Init opens the store and archives the session record. An attached session
// whose id is already archived adopts the stored state first.
func (s *Session) Init(ctx context.Context) error {
	if err := s.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if s.attached {
		rec, found, err := s.store.GetSession(ctx, s.id)
		if err != nil {
			return fmt.Errorf("load session %s: %w", s.id, err)
		}
		if found {
			if err := s.adopt(rec); err != nil {
				return err
			}
			ids, err := s.store.ListGenomeIDs(ctx, s.id)
			if err != nil {
				return fmt.Errorf("list archived genomes: %w", err)
			}
			for _, genomeID := range ids {
				s.handler.EnsureGenomeCounter(genomeID + 1)
			}
		}
	}
	if err := s.store.SaveSession(ctx, s.record()); err != nil {
		return fmt.Errorf("archive session: %w", err)
	}
	s.ready = true
	return nil
}

// adopt takes over an archived session's identity: its creation time, genome
// count, generation index, and, unless overridden, its morphology and seed.
func (s *Session) adopt(rec model.SessionRecord) error {
	if rec.Morphology != "" && rec.Morphology != s.morph.Name {
		if s.morphExplicit {
			return fmt.Errorf("session %s was created with morphology %s", s.id, rec.Morphology)
		}
		morph, err := morphology.GetMorphology(rec.Morphology)
		if err != nil {
			return fmt.Errorf("session %s: %w", s.id, err)
		}
		s.morph = morph
		s.cfg.Genome.UseBias = morph.UseBias
		s.handler = innovation.NewHandler(morph.Inputs, morph.Outputs, morph.UseBias)
		s.installObserver()
	}
	if !s.seedExplicit && rec.Seed != 0 {
		s.seed = rec.Seed
		s.rng = rand.New(rand.NewSource(rec.Seed))
	}
	if rec.CreatedAt != "" {
		s.createdAt = rec.CreatedAt
	}
	s.genomeCount = rec.Genomes
	for s.handler.Generation() < rec.Generation {
		s.handler.Reset()
	}
	return nil
}

// Close releases the store when the session created it itself. Injected
// stores stay open for their owner.
func (s *Session) Close() error {
	if !s.ownsStore {
		return nil
	}
	return storage.CloseIfSupported(s.store)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Seed returns the seed driving the session's random source.
func (s *Session) Seed() int64 { return s.seed }

// Generation reports the handler's current generation index.
func (s *Session) Generation() int { return s.handler.Generation() }

// Config returns the active configuration. Shared, not a copy.
func (s *Session) Config() *config.Config { return s.cfg }

// Morphology returns the preset sizing this session's genomes.
func (s *Session) Morphology() morphology.Morphology { return s.morph }

// Rand returns the session's random source, for callers composing their own
// operator chains.
func (s *Session) Rand() *rand.Rand { return s.rng }

// ArtifactsDir returns the root directory for trial artifacts.
func (s *Session) ArtifactsDir() string { return s.artifactsDir }

// NewGenome builds a genome sized by the session morphology, fully wired
// input-to-output unless withConnections is false.
func (s *Session) NewGenome(withConnections bool) (*genotype.Genome, error) {
	var opts []genotype.Option
	if !withConnections {
		opts = append(opts, genotype.WithoutConnections())
	}
	g, err := genotype.New(s.morph.Inputs, s.morph.Outputs, s.handler, s.cfg, s.rng, opts...)
	if err != nil {
		return nil, fmt.Errorf("new genome: %w", err)
	}
	return g, nil
}

// Process feeds inputs through the genome.
func (s *Session) Process(g *genotype.Genome, inputs []float64) ([]float64, error) {
	if g == nil {
		return nil, errors.New("genome is required")
	}
	out, err := g.Process(inputs)
	if err != nil {
		return nil, fmt.Errorf("process genome %d: %w", g.ID(), err)
	}
	return out, nil
}

// Distance computes the compatibility distance between two genomes.
func (s *Session) Distance(a, b *genotype.Genome) (float64, error) {
	if a == nil || b == nil {
		return 0, errors.New("both genomes are required")
	}
	return a.Distance(b), nil
}

// Mate crosses two genomes. The parent with the higher adjusted fitness
// leads; ties are broken uniformly at random.
func (s *Session) Mate(a, b *genotype.Genome) (*genotype.Genome, error) {
	if a == nil || b == nil {
		return nil, errors.New("both parents are required")
	}
	first, second := a, b
	switch {
	case b.AdjFitness > a.AdjFitness:
		first, second = b, a
	case b.AdjFitness == a.AdjFitness && s.rng.Intn(2) == 1:
		first, second = b, a
	}
	child, err := genotype.Mate(first, second, s.rng)
	if err != nil {
		return nil, fmt.Errorf("mate genomes %d and %d: %w", a.ID(), b.ID(), err)
	}
	return child, nil
}

// MutateWeights perturbs or resets the genome's connection weights.
func (s *Session) MutateWeights(g *genotype.Genome) error {
	if g == nil {
		return errors.New("genome is required")
	}
	if err := g.MutateWeights(s.rng); err != nil {
		return fmt.Errorf("mutate weights of genome %d: %w", g.ID(), err)
	}
	return nil
}

// AddRandomConnection wires two unconnected nodes in the genome.
func (s *Session) AddRandomConnection(g *genotype.Genome) (*genotype.ConnectionGene, error) {
	if g == nil {
		return nil, errors.New("genome is required")
	}
	conn, err := g.AddRandomConnection(s.rng)
	if err != nil {
		return nil, fmt.Errorf("add connection to genome %d: %w", g.ID(), err)
	}
	return conn, nil
}

// AddRandomHiddenNode splits a random connection gene of the genome.
func (s *Session) AddRandomHiddenNode(g *genotype.Genome) (*genotype.NodeGene, error) {
	if g == nil {
		return nil, errors.New("genome is required")
	}
	node, err := g.AddRandomHiddenNode(s.rng)
	if err != nil {
		return nil, fmt.Errorf("add hidden node to genome %d: %w", g.ID(), err)
	}
	return node, nil
}

// EnableRandomConnection re-enables a disabled connection gene of the genome.
func (s *Session) EnableRandomConnection(g *genotype.Genome) (*genotype.ConnectionGene, error) {
	if g == nil {
		return nil, errors.New("genome is required")
	}
	conn, err := g.EnableRandomConnection(s.rng)
	if err != nil {
		return nil, fmt.Errorf("enable connection of genome %d: %w", g.ID(), err)
	}
	return conn, nil
}

// Fingerprint returns the genome's topology digest.
func (s *Session) Fingerprint(g *genotype.Genome) (string, error) {
	if g == nil {
		return "", errors.New("genome is required")
	}
	return g.Fingerprint(), nil
}

// PendingInnovations returns the fresh allocations journaled since the last
// generation boundary.
func (s *Session) PendingInnovations() []model.InnovationRecord {
	return append([]model.InnovationRecord(nil), s.journal...)
}

// AdvanceGeneration flushes the innovation journal to the store, resets the
// handler's per-generation caches and returns the new generation index.
func (s *Session) AdvanceGeneration(ctx context.Context) (int, error) {
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	if len(s.journal) > 0 {
		if err := s.store.AppendInnovations(ctx, s.id, s.journal); err != nil {
			return 0, fmt.Errorf("flush innovation journal: %w", err)
		}
		s.journal = nil
	}
	s.handler.Reset()
	if err := s.store.SaveSession(ctx, s.record()); err != nil {
		return 0, fmt.Errorf("archive session: %w", err)
	}
	return s.handler.Generation(), nil
}

// SaveGenome archives the genome's record under this session.
func (s *Session) SaveGenome(ctx context.Context, g *genotype.Genome) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	if g == nil {
		return errors.New("genome is required")
	}
	if err := s.store.SaveGenome(ctx, s.id, g.ToRecord()); err != nil {
		return fmt.Errorf("save genome %d: %w", g.ID(), err)
	}
	ids, err := s.store.ListGenomeIDs(ctx, s.id)
	if err != nil {
		return fmt.Errorf("count genomes: %w", err)
	}
	s.genomeCount = len(ids)
	if err := s.store.SaveSession(ctx, s.record()); err != nil {
		return fmt.Errorf("archive session: %w", err)
	}
	return nil
}

// LoadGenome rebuilds an archived genome. The handler's counters are raised
// past every id in the record so later allocations cannot collide with it.
func (s *Session) LoadGenome(ctx context.Context, genomeID int) (*genotype.Genome, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	rec, found, err := s.store.GetGenome(ctx, s.id, genomeID)
	if err != nil {
		return nil, fmt.Errorf("load genome %d: %w", genomeID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrGenomeNotFound, genomeID)
	}

	g, err := s.GenomeFromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("load genome %d: %w", genomeID, err)
	}
	return g, nil
}

// GenomeFromRecord rebuilds a genome from a record obtained outside the
// store, with the same counter raising as LoadGenome. Usable before Init.
func (s *Session) GenomeFromRecord(rec model.GenomeRecord) (*genotype.Genome, error) {
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
	s.handler.EnsureCounters(maxNode+1, maxConn+1)
	s.handler.EnsureGenomeCounter(rec.ID + 1)

	return genotype.FromRecord(rec, s.handler, s.cfg)
}

// GenomeIDs lists the ids archived under this session, ascending.
func (s *Session) GenomeIDs(ctx context.Context) ([]int, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	ids, err := s.store.ListGenomeIDs(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("list genomes: %w", err)
	}
	return ids, nil
}

// Innovations lists the allocations flushed to the store, in journal order.
func (s *Session) Innovations(ctx context.Context) ([]model.InnovationRecord, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	recs, err := s.store.ListInnovations(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("list innovations: %w", err)
	}
	return recs, nil
}

// Sessions lists every session archived in the store, this one included.
func (s *Session) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	ids, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	recs := make([]model.SessionRecord, 0, len(ids))
	for _, id := range ids {
		rec, found, err := s.store.GetSession(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", id, err)
		}
		if !found {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Session) ensureReady() error {
	if !s.ready {
		return errors.New("session is not initialized")
	}
	return nil
}

func (s *Session) record() model.SessionRecord {
	return model.SessionRecord{
		VersionedRecord: model.NewVersionedRecord(),
		ID:              s.id,
		CreatedAt:       s.createdAt,
		Seed:            s.seed,
		Generation:      s.handler.Generation(),
		Morphology:      s.morph.Name,
		Config:          s.cfg.Flatten(),
		Genomes:         s.genomeCount,
	}
}
