package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/config"
	"github.com/framework-learner/penrose/internal/corpus"
	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/logger"
	"github.com/framework-learner/penrose/internal/output"
	"github.com/framework-learner/penrose/pkg/domain"
	"github.com/framework-learner/penrose/pkg/subgen"
)

const appName = "subgen"

// flagKeys maps config keys to the flags that set them. Keys whose flag is
// not defined on the running command are left to the other sources.
var flagKeys = map[string]string{
	"domain":           "domain",
	"seed":             "seed",
	"programs":         "programs",
	"min_length":       "min-length",
	"max_length":       "max-length",
	"policy":           "policy",
	"type_option":      "type-option",
	"parallel":         "parallel",
	"workers":          "workers",
	"trace_rng":        "trace-rng",
	"output.dir":       "output",
	"output.prefix":    "prefix",
	"output.extension": "extension",
	"corpus.path":      "corpus",
	"log.json":         "json-logs",
	"log.verbosity":    "verbose",
}

// app is the state shared by the commands of one invocation.
type app struct {
	configPath string
	cfg        *config.Config
	now        func() time.Time
}

// load resolves the configuration for cmd and initializes logging.
func (a *app) load(cmd *cobra.Command) error {
	v, err := config.New(a.configPath)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v, a.now)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	a.cfg = cfg
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding --%s", name)
		}
	}
	return nil
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

// newRootCmd builds the command tree; now is the clock unset seeds are
// drawn from.
func newRootCmd(now func() time.Time) *cobra.Command {
	a := &app{now: now}
	defaults := subgen.Defaults()

	cmd := &cobra.Command{
		Use:   appName + " --domain FILE",
		Short: "Random Substance program generator",
		Long: `Generate random, well-formed Substance programs from a Domain schema.

The schema is read from a .dsl, .yaml or .toml file. The same seed and
options always produce the same programs.`,
		Example: `  subgen --domain sets.dsl --seed 42 --programs 10 --output out/
  subgen --domain sets.yaml --policy existing --type-option general
  subgen corpus list --corpus corpus.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.Newf("unexpected arguments: %v", args)
			}
			return a.generate(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./"+config.DefaultFileName+")")
	pf.String("corpus", "", "bbolt file recording every generated batch")
	pf.Bool("json-logs", false, "log JSON to stderr")
	pf.CountP("verbose", "v", "increase log verbosity (-v, -vv)")

	f := cmd.Flags()
	f.StringP("domain", "d", "", "domain schema file (.dsl, .yaml, .toml)")
	f.Uint64P("seed", "s", 0, "seed for deterministic generation (default: drawn from the clock)")
	f.IntP("programs", "n", defaults.Programs, "number of programs to generate")
	f.Int("min-length", defaults.MinLength, "minimum number of body statements")
	f.Int("max-length", defaults.MaxLength, "maximum number of body statements")
	f.String("policy", defaults.Policy.String(), "argument policy: existing, generated or mixed")
	f.String("type-option", defaults.TypeOption.String(), "declaration types: concrete or general")
	f.Bool("parallel", false, "generate programs concurrently from per-program seeds")
	f.Int("workers", 0, "parallel workers (default GOMAXPROCS)")
	f.Bool("trace-rng", false, "log every random draw at debug level")
	f.StringP("output", "o", "", "write programs and a manifest to this directory instead of stdout")
	f.String("prefix", "prog", "output file name prefix")
	f.String("extension", "sub", "output file extension")

	_ = cmd.MarkFlagFilename("domain", "dsl", "domain", "yaml", "yml", "toml")
	_ = cmd.MarkFlagDirname("output")
	_ = cmd.MarkFlagFilename("config", "toml")

	cmd.AddCommand(newCorpusCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *app) generate(cmd *cobra.Command) error {
	cfg := a.cfg
	log := logger.ComponentLogger("cli")

	if cfg.Domain == "" {
		return errors.WithHint(errors.New("no domain schema given"), "pass --domain FILE or set domain in "+config.DefaultFileName)
	}
	d, err := domain.Load(cfg.Domain)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if cfg.SeedDrawn {
		log.Warnw("no seed configured, drew one from the clock", logger.FieldSeed, opts.Seed)
	}

	log.Infow("generating",
		logger.FieldDomain, cfg.Domain,
		logger.FieldSeed, opts.Seed,
		logger.FieldCount, opts.Programs,
		logger.FieldPolicy, opts.Policy.String(),
		logger.FieldTypeOption, opts.TypeOption.String())

	batch, genErr := subgen.Generate(d, opts)
	if batch == nil {
		return genErr
	}
	logTotals(log, batch)

	var batchID string
	if cfg.Corpus.Path != "" {
		rec, err := record(cfg.Corpus.Path, corpus.NewRecord(cfg.Domain, batch, genErr))
		if err != nil {
			return err
		}
		batchID = rec.ID
	}

	if cfg.Output.Dir == "" {
		if err := output.Print(cmd.OutOrStdout(), batch.Programs); err != nil {
			return err
		}
		return genErr
	}

	w := output.NewWriter(cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Extension, logger.ComponentLogger("output"))
	m, err := w.Write(batch, output.Info{Domain: cfg.Domain, BatchID: batchID, Err: genErr})
	if err != nil {
		return err
	}
	var size uint64
	for _, f := range m.Files {
		size += uint64(f.Bytes)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d programs (%s) to %s\n", len(m.Files), humanize.Bytes(size), w.Dir)
	return genErr
}

func record(path string, rec corpus.Record) (corpus.Record, error) {
	store, err := corpus.Open(path, logger.ComponentLogger("corpus"))
	if err != nil {
		return corpus.Record{}, err
	}
	defer store.Close()
	return store.Save(rec)
}

func logTotals(log *zap.SugaredLogger, b *subgen.Batch) {
	total := b.Totals()
	log.Infow("generated batch",
		logger.FieldSeed, b.Seed,
		logger.FieldCount, b.Len(),
		logger.FieldPrelude, total.Prelude,
		logger.FieldBody, total.Body,
		logger.FieldFallback, total.Fallback,
		logger.FieldPredicates, total.Predicates)
}
