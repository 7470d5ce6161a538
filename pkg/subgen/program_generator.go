package subgen

import (
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/pkg/domain"
	"github.com/framework-learner/penrose/pkg/substance"
)

// programGenerator produces one program per call to generate. reset clears
// per-program state and keeps the random state.
type programGenerator interface {
	reset()
	generate() (substance.Program, Stats, error)
}

func createProgramGenerator(d *domain.Domain, opts Options, r rng, log *zap.SugaredLogger) programGenerator {
	return &defaultProgramGenerator{ctx: newGenContext(d, opts, r, log)}
}

type defaultProgramGenerator struct {
	ctx *genContext
}

func (g *defaultProgramGenerator) reset() { g.ctx.reset() }

func (g *defaultProgramGenerator) generate() (substance.Program, Stats, error) {
	return g.ctx.generateProgram()
}
