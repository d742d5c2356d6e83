package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"auxesis/internal/evo"
	"auxesis/internal/genotype"
	"auxesis/internal/morphology"
	"auxesis/internal/nn"
	"auxesis/internal/storage"
	"auxesis/pkg/auxesis"
)

const defaultDBPath = "auxesis.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "new":
		return runNew(ctx, args[1:])
	case "info":
		return runInfo(ctx, args[1:])
	case "process":
		return runProcess(ctx, args[1:])
	case "mutate":
		return runMutate(ctx, args[1:])
	case "mate":
		return runMate(ctx, args[1:])
	case "distance":
		return runDistance(ctx, args[1:])
	case "trial":
		return runTrial(ctx, args[1:])
	case "sessions":
		return runSessions(ctx, args[1:])
	case "morphologies":
		return runMorphologies(ctx, args[1:])
	case "activations":
		return runActivations(ctx, args[1:])
	case "operators":
		return runOperators(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// sessionFlags groups the flags shared by every session-backed subcommand.
type sessionFlags struct {
	configPath *string
	morph      *string
	seed       *int64
	storeKind  *string
	dbPath     *string
	artifacts  *string
	sessionID  *string
}

func addSessionFlags(fs *flag.FlagSet) *sessionFlags {
	return &sessionFlags{
		configPath: fs.String("config", "", "optional INI config path"),
		morph:      fs.String("morph", "", "morphology preset (default xor-v1)"),
		seed:       fs.Int64("seed", 0, "rng seed (0 derives one from the clock)"),
		storeKind:  fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath:     fs.String("db-path", defaultDBPath, "sqlite database path"),
		artifacts:  fs.String("artifacts", "artifacts", "artifacts directory"),
		sessionID:  fs.String("session", "", "resume an archived session id"),
	}
}

func (f *sessionFlags) open(ctx context.Context) (*auxesis.Session, error) {
	s, err := auxesis.New(auxesis.Options{
		ConfigPath:   *f.configPath,
		Seed:         *f.seed,
		StoreKind:    *f.storeKind,
		DBPath:       *f.dbPath,
		ArtifactsDir: *f.artifacts,
		Morphology:   *f.morph,
		SessionID:    *f.sessionID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runNew(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	count := fs.Int("count", 1, "genomes to construct")
	noConnections := fs.Bool("no-connections", false, "skip the initial input-output connections")
	save := fs.Bool("save", false, "archive the genomes in the store")
	jsonOut := fs.Bool("json", false, "emit genome records as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count <= 0 {
		return errors.New("count must be > 0")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	genomes := make([]*genotype.Genome, 0, *count)
	for i := 0; i < *count; i++ {
		g, err := s.NewGenome(!*noConnections)
		if err != nil {
			return err
		}
		if *save {
			if err := s.SaveGenome(ctx, g); err != nil {
				return err
			}
		}
		genomes = append(genomes, g)
	}

	if *jsonOut {
		records := make([]any, 0, len(genomes))
		for _, g := range genomes {
			records = append(records, g.ToRecord())
		}
		return printJSON(records)
	}

	for _, g := range genomes {
		printGenomeLine(g)
	}
	fmt.Printf("session_id=%s morphology=%s seed=%d generation=%d saved=%t\n",
		s.ID(), s.Morphology().Name, s.Seed(), s.Generation(), *save)
	return nil
}

func runInfo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	genomeID := fs.Int("id", -1, "genome id to inspect")
	file := fs.String("file", "", "genome record JSON file to inspect")
	jsonOut := fs.Bool("json", false, "emit the genome record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" && (*sf.sessionID == "" || *genomeID < 0) {
		return errors.New("info requires -session and -id, or -file")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	g, err := resolveGenome(ctx, s, *genomeID, *file)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(g.ToRecord())
	}

	sum := g.Summarize()
	fmt.Printf("genome_id=%d fitness=%g adj_fitness=%g inputs=%d outputs=%d hidden=%d bias=%t connections=%d enabled=%d disabled=%d self_loops=%d max_innovation=%d fingerprint=%s\n",
		sum.GenomeID, g.Fitness, g.AdjFitness, sum.Inputs, sum.Outputs, sum.Hidden, sum.HasBias,
		sum.Connections, sum.Enabled, sum.Disabled, sum.SelfLoops, sum.MaxInnovation, g.Fingerprint())
	fmt.Print(g.Info())
	return nil
}

func runProcess(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	genomeID := fs.Int("id", -1, "archived genome id (fresh genome when unset)")
	reset := fs.Bool("reset", false, "reset node values between input vectors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	vectors, err := parseVectors(fs.Args())
	if err != nil {
		return err
	}
	if len(vectors) == 0 {
		return errors.New("process requires input values")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	g, err := resolveGenome(ctx, s, *genomeID, "")
	if err != nil {
		return err
	}

	// Without -reset the vectors run as one sequence, so recurrent edges see
	// the previous step's activations.
	for step, inputs := range vectors {
		if *reset && step > 0 {
			g.ResetValues()
		}
		outputs, err := s.Process(g, inputs)
		if err != nil {
			return err
		}
		for i, out := range outputs {
			fmt.Printf("step=%d output[%d]=%g\n", step+1, i, out)
		}
	}
	return nil
}

func runMutate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mutate", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	genomeID := fs.Int("id", -1, "archived genome id (fresh genome when unset)")
	opNames := fs.String("ops", "", "comma-separated operator chain (default: the builtin set)")
	rounds := fs.Int("rounds", 1, "pipeline passes to apply")
	save := fs.Bool("save", false, "archive the mutated genome")
	jsonOut := fs.Bool("json", false, "emit the final genome record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rounds <= 0 {
		return errors.New("rounds must be > 0")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	g, err := resolveGenome(ctx, s, *genomeID, "")
	if err != nil {
		return err
	}

	ops, err := operatorChain(*opNames, s)
	if err != nil {
		return err
	}

	before := g.Summarize()
	for round := 1; round <= *rounds; round++ {
		if err := evo.Pipeline(ctx, g, ops...); err != nil && !skippableMutation(err) {
			return err
		}
		if *jsonOut {
			continue
		}
		sum := g.Summarize()
		fmt.Printf("round=%d hidden=%d connections=%d enabled=%d max_innovation=%d fingerprint=%s\n",
			round, sum.Hidden, sum.Connections, sum.Enabled, sum.MaxInnovation, g.Fingerprint())
	}

	if *save {
		if err := s.SaveGenome(ctx, g); err != nil {
			return err
		}
	}
	if *jsonOut {
		return printJSON(g.ToRecord())
	}

	after := g.Summarize()
	fmt.Printf("before hidden=%d connections=%d enabled=%d max_innovation=%d\n",
		before.Hidden, before.Connections, before.Enabled, before.MaxInnovation)
	fmt.Printf("after hidden=%d connections=%d enabled=%d max_innovation=%d\n",
		after.Hidden, after.Connections, after.Enabled, after.MaxInnovation)
	for _, rec := range s.PendingInnovations() {
		fmt.Printf("innovation kind=%s src=%d dest=%d id=%d generation=%d\n",
			rec.Kind, rec.SrcID, rec.DestID, rec.ID, rec.Generation)
	}
	if *save {
		fmt.Printf("saved genome_id=%d session_id=%s\n", g.ID(), s.ID())
	}
	return nil
}

func runMate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mate", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	idA := fs.Int("a", -1, "first parent's archived genome id")
	idB := fs.Int("b", -1, "second parent's archived genome id")
	fileA := fs.String("file-a", "", "first parent's genome record JSON file")
	fileB := fs.String("file-b", "", "second parent's genome record JSON file")
	save := fs.Bool("save", false, "archive the child genome")
	jsonOut := fs.Bool("json", false, "emit the child record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fileA == "" && *fileB == "" && (*idA < 0) != (*idB < 0) {
		return errors.New("mate requires both -a and -b, or neither")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	a, err := resolveGenome(ctx, s, *idA, *fileA)
	if err != nil {
		return err
	}
	b, err := resolveGenome(ctx, s, *idB, *fileB)
	if err != nil {
		return err
	}

	child, err := s.Mate(a, b)
	if err != nil {
		return err
	}

	if *save {
		if err := s.SaveGenome(ctx, child); err != nil {
			return err
		}
	}
	if *jsonOut {
		return printJSON(child.ToRecord())
	}

	sum := child.Summarize()
	fmt.Printf("child_id=%d parents=%d,%d hidden=%d connections=%d enabled=%d fingerprint=%s saved=%t\n",
		child.ID(), a.ID(), b.ID(), sum.Hidden, sum.Connections, sum.Enabled, child.Fingerprint(), *save)
	return nil
}

func runDistance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("distance", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	idA := fs.Int("a", -1, "first archived genome id")
	idB := fs.Int("b", -1, "second archived genome id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*idA < 0) != (*idB < 0) {
		return errors.New("distance requires both -a and -b, or neither")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	a, err := resolveGenome(ctx, s, *idA, "")
	if err != nil {
		return err
	}
	b, err := resolveGenome(ctx, s, *idB, "")
	if err != nil {
		return err
	}

	d, err := s.Distance(a, b)
	if err != nil {
		return err
	}
	fmt.Printf("a=%d b=%d distance=%g\n", a.ID(), b.ID(), d)
	return nil
}

func runSessions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the session records as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	if err := store.Init(ctx); err != nil {
		return err
	}
	ids, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	if *jsonOut {
		records := make([]any, 0, len(ids))
		for _, id := range ids {
			rec, found, err := store.GetSession(ctx, id)
			if err != nil {
				return err
			}
			if found {
				records = append(records, rec)
			}
		}
		return printJSON(records)
	}

	var w *tabwriter.Writer
	if stdoutIsTerminal() {
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tCREATED\tMORPHOLOGY\tGENERATION\tGENOMES\tSEED")
	}
	for _, id := range ids {
		rec, found, err := store.GetSession(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if w != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\n",
				rec.ID, rec.CreatedAt, rec.Morphology, rec.Generation, humanize.Comma(int64(rec.Genomes)), rec.Seed)
			continue
		}
		fmt.Printf("session_id=%s created_at=%s morphology=%s generation=%d genomes=%d seed=%d\n",
			rec.ID, rec.CreatedAt, rec.Morphology, rec.Generation, rec.Genomes, rec.Seed)
	}
	if w != nil {
		return w.Flush()
	}
	return nil
}

func runMorphologies(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("morphologies", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit the presets as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	names := morphology.ListMorphologies()
	if *jsonOut {
		type morphItem struct {
			Name        string `json:"name"`
			Inputs      int    `json:"inputs"`
			Outputs     int    `json:"outputs"`
			UseBias     bool   `json:"use_bias"`
			Description string `json:"description"`
		}
		items := make([]morphItem, 0, len(names))
		for _, name := range names {
			m, err := morphology.GetMorphology(name)
			if err != nil {
				return err
			}
			items = append(items, morphItem{m.Name, m.Inputs, m.Outputs, m.UseBias, m.Description})
		}
		return printJSON(items)
	}

	var w *tabwriter.Writer
	if stdoutIsTerminal() {
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tINPUTS\tOUTPUTS\tBIAS\tDESCRIPTION")
	}
	for _, name := range names {
		m, err := morphology.GetMorphology(name)
		if err != nil {
			return err
		}
		if w != nil {
			fmt.Fprintf(w, "%s\t%d\t%d\t%t\t%s\n", m.Name, m.Inputs, m.Outputs, m.UseBias, m.Description)
			continue
		}
		fmt.Printf("name=%s inputs=%d outputs=%d bias=%t description=%s\n",
			m.Name, m.Inputs, m.Outputs, m.UseBias, m.Description)
	}
	if w != nil {
		return w.Flush()
	}
	return nil
}

func runActivations(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("activations", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range nn.ListActivations() {
		fmt.Println(name)
	}
	return nil
}

func runOperators(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("operators", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range evo.ListOperators() {
		fmt.Println(name)
	}
	return nil
}

// resolveGenome prefers a record file over an archived id, falling back to a
// fresh fully connected genome when neither is given.
func resolveGenome(ctx context.Context, s *auxesis.Session, genomeID int, file string) (*genotype.Genome, error) {
	if file != "" {
		return genomeFromFile(s, file)
	}
	if genomeID >= 0 {
		return s.LoadGenome(ctx, genomeID)
	}
	return s.NewGenome(true)
}

func genomeFromFile(s *auxesis.Session, path string) (*genotype.Genome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rec, err := storage.DecodeGenome(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return s.GenomeFromRecord(rec)
}

func operatorChain(opNames string, s *auxesis.Session) ([]evo.Operator, error) {
	if names := splitList(opNames); len(names) > 0 {
		return evo.ResolveOperators(names, s.Rand())
	}
	return evo.DefaultOperators(s.Rand()), nil
}

// skippableMutation reports whether a pipeline failure is one of the genome's
// valid-outcome sentinels that a scripted mutation pass should ride over.
func skippableMutation(err error) bool {
	return errors.Is(err, genotype.ErrNoSpace) ||
		errors.Is(err, genotype.ErrNoDisabled) ||
		errors.Is(err, genotype.ErrNoConnections) ||
		errors.Is(err, genotype.ErrConnectionExists)
}

func printGenomeLine(g *genotype.Genome) {
	sum := g.Summarize()
	fmt.Printf("genome_id=%d inputs=%d outputs=%d hidden=%d bias=%t connections=%d enabled=%d fingerprint=%s\n",
		sum.GenomeID, sum.Inputs, sum.Outputs, sum.Hidden, sum.HasBias, sum.Connections, sum.Enabled, g.Fingerprint())
}

func parseInputs(args []string) ([]float64, error) {
	inputs := make([]float64, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: %w", arg, err)
		}
		inputs = append(inputs, v)
	}
	return inputs, nil
}

// parseVectors turns positional arguments into input vectors, one per
// argument, values comma-separated within each.
func parseVectors(args []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(args))
	for _, arg := range args {
		vec, err := parseInputs(splitList(arg))
		if err != nil {
			return nil, err
		}
		if len(vec) > 0 {
			vectors = append(vectors, vec)
		}
	}
	return vectors, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: auxesisctl <init|new|info|process|mutate|mate|distance|trial|sessions|morphologies|activations|operators> [flags]", msg)
}
