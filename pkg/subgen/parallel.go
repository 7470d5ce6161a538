package subgen

import (
	"context"

	"golang.org/x/sync/errgroup"
	"pgregory.net/rand"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/internal/logger"
	"github.com/framework-learner/penrose/pkg/domain"
	"github.com/framework-learner/penrose/pkg/substance"
)

// deriveSeeds draws one independent seed per program from the batch seed.
func deriveSeeds(seed uint64, n int) []uint64 {
	r := rand.New(seed)
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = r.Uint64()
	}
	return seeds
}

// generateParallel generates every program from its own derived seed on a
// bounded worker group. Results are stored by index so the batch order does
// not depend on scheduling. A failure discards the whole batch.
func generateParallel(d *domain.Domain, opts Options) (*Batch, error) {
	log := logger.ComponentLogger("subgen.parallel")
	seeds := deriveSeeds(opts.Seed, opts.Programs)
	programs := make([]substance.Program, opts.Programs)
	stats := make([]Stats, opts.Programs)

	eg, ctx := errgroup.WithContext(context.Background())
	eg.SetLimit(opts.Workers)
	for i, seed := range seeds {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen := createProgramGenerator(d, opts, newRNG(seed), log)
			prog, st, err := gen.generate()
			if err != nil {
				return errors.Wrapf(err, "program %d (seed %d)", i, seed)
			}
			programs[i] = prog
			stats[i] = st
			logProgram(log, i, prog, st)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Batch{
		Seed:     opts.Seed,
		Options:  opts,
		Programs: programs,
		Stats:    stats,
	}, nil
}
