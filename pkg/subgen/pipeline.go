// Package subgen generates random, well-formed Substance programs from a
// domain schema.
//
// Generation is a pure function of the schema, the Options and the seed:
// the same inputs always produce the same batch.
package subgen

import (
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/logger"
	"github.com/framework-learner/penrose/pkg/domain"
	"github.com/framework-learner/penrose/pkg/substance"
)

// Batch is the ordered result of a batch run.
type Batch struct {
	Seed     uint64
	Options  Options
	Programs []substance.Program
	Stats    []Stats
}

// Len returns the number of programs in the batch.
func (b *Batch) Len() int { return len(b.Programs) }

// Totals sums the per-program statistics.
func (b *Batch) Totals() Stats {
	var total Stats
	for _, s := range b.Stats {
		total = total.add(s)
	}
	return total
}

// Sources renders every program to Substance source.
func (b *Batch) Sources() []string {
	out := make([]string, len(b.Programs))
	for i, p := range b.Programs {
		out[i] = p.String()
	}
	return out
}

// Generate runs the batch driver: Options.Programs programs generated one
// after the other from a single random state seeded with Options.Seed.
//
// When program i fails the returned batch holds programs 0..i-1 together
// with the error.
func Generate(d *domain.Domain, opts Options) (*Batch, error) {
	if err := checkInputs(d, opts); err != nil {
		return nil, err
	}
	opts = opts.normalize()
	if opts.Parallel {
		return generateParallel(d, opts)
	}

	log := logger.ComponentLogger("subgen")
	gen := createProgramGenerator(d, opts, newRNG(opts.Seed), log)
	batch := &Batch{
		Seed:     opts.Seed,
		Options:  opts,
		Programs: make([]substance.Program, 0, opts.Programs),
		Stats:    make([]Stats, 0, opts.Programs),
	}

	for i := 0; i < opts.Programs; i++ {
		gen.reset()
		prog, stats, err := gen.generate()
		if err != nil {
			return batch, errors.Wrapf(err, "program %d", i)
		}
		batch.Programs = append(batch.Programs, prog)
		batch.Stats = append(batch.Stats, stats)
		logProgram(log, i, prog, stats)
	}
	return batch, nil
}

func checkInputs(d *domain.Domain, opts Options) error {
	if err := opts.Validate(); err != nil {
		return errors.Wrap(err, "invalid options")
	}
	if d == nil || len(d.Types) == 0 {
		return errors.WithHint(ErrEmptySchema, "declare at least one type in the domain")
	}
	return nil
}

func logProgram(log *zap.SugaredLogger, i int, prog substance.Program, stats Stats) {
	log.Debugw("generated program",
		logger.FieldProgram, i,
		logger.FieldSize, prog.Len(),
		logger.FieldPrelude, stats.Prelude,
		logger.FieldBody, stats.Body,
		logger.FieldFallback, stats.Fallback,
		logger.FieldPredicates, stats.Predicates)
}
