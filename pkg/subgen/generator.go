package subgen

import (
	"go.uber.org/zap"

	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/pkg/domain"
	"github.com/framework-learner/penrose/pkg/substance"
)

// Stats describes how one program was generated.
type Stats struct {
	// Prelude is the number of initial type declarations (1 or 2).
	Prelude int
	// Body is the number of body statements drawn from [MinLength, MaxLength].
	Body int
	// Fallback counts declarations inserted while generating arguments.
	Fallback int
	// Predicates counts predicate applications.
	Predicates int
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Prelude:    s.Prelude + o.Prelude,
		Body:       s.Body + o.Body,
		Fallback:   s.Fallback + o.Fallback,
		Predicates: s.Predicates + o.Predicates,
	}
}

type stmtKind int

const (
	stmtPredicate stmtKind = iota
	stmtDeclaration
)

// genContext is the single-owner mutable state of a generation run. The
// registry, builder and stats describe the current program; rand is carried
// across programs.
type genContext struct {
	opts  Options
	pool  typePool
	rand  rng
	names *registry
	prog  *builder
	stats Stats
	log   *zap.SugaredLogger
	draws uint64
}

func newGenContext(d *domain.Domain, opts Options, r rng, log *zap.SugaredLogger) *genContext {
	return &genContext{
		opts:  opts,
		pool:  newTypePool(d),
		rand:  r,
		names: newRegistry(),
		prog:  &builder{},
		log:   log,
	}
}

func (g *genContext) reset() {
	g.names.reset()
	g.prog.reset()
	g.stats = Stats{}
}

func (g *genContext) drawInt(low, high int) (int, error) {
	v, next, err := g.rand.drawInt(low, high)
	if err != nil {
		return 0, err
	}
	g.rand = next
	g.draws++
	if g.opts.TraceRNG {
		g.log.Debugw("draw", "n", g.draws, "low", low, "high", high, "value", v)
	}
	return v, nil
}

// chooseFrom is a free function because methods cannot be generic.
func chooseFrom[T any](g *genContext, what string, xs []T) (T, error) {
	v, next, err := choose(g.rand, xs)
	if err != nil {
		return v, errors.Wrapf(err, "choosing %s", what)
	}
	g.rand = next
	g.draws++
	if g.opts.TraceRNG {
		g.log.Debugw("choose", "n", g.draws, "what", what, "candidates", len(xs), "value", v)
	}
	return v, nil
}

func (g *genContext) generateProgram() (substance.Program, Stats, error) {
	prelude, err := g.drawInt(1, 2)
	if err != nil {
		return substance.Program{}, Stats{}, err
	}
	body, err := g.drawInt(g.opts.MinLength, g.opts.MaxLength)
	if err != nil {
		return substance.Program{}, Stats{}, err
	}
	g.stats.Prelude = prelude
	g.stats.Body = body

	for i := 0; i < prelude; i++ {
		if err := g.generateTypeStatement(); err != nil {
			return substance.Program{}, Stats{}, errors.Wrapf(err, "type statement %d", i)
		}
	}

	kinds := g.bodyKinds()
	for i := 0; i < body; i++ {
		kind, err := chooseFrom(g, "statement kind", kinds)
		if err != nil {
			return substance.Program{}, Stats{}, err
		}
		switch kind {
		case stmtPredicate:
			err = g.generatePredicateStatement()
		case stmtDeclaration:
			err = g.generateTypeStatement()
		}
		if err != nil {
			return substance.Program{}, Stats{}, errors.Wrapf(err, "body statement %d", i)
		}
	}

	return g.prog.program(), g.stats, nil
}

// bodyKinds lists the statement kinds a body statement is drawn from. A
// schema without predicates only yields declarations.
func (g *genContext) bodyKinds() []stmtKind {
	if len(g.pool.predicates) == 0 {
		return []stmtKind{stmtDeclaration}
	}
	return []stmtKind{stmtPredicate, stmtDeclaration}
}

func (g *genContext) declare(typeName string) {
	g.prog.append(&substance.Declaration{
		Type: typeName,
		Name: g.names.freshName(typeName),
	})
}

func (g *genContext) generateTypeStatement() error {
	t, err := chooseFrom(g, "type", g.pool.types)
	if err != nil {
		return err
	}
	if g.opts.TypeOption == TypeGeneral {
		if t, err = chooseFrom(g, "related type of "+t, g.pool.relatedTypes(t)); err != nil {
			return err
		}
	}
	g.declare(t)
	return nil
}

func (g *genContext) generatePredicateStatement() error {
	name, err := chooseFrom(g, "predicate", g.pool.predicates)
	if err != nil {
		return err
	}
	pred, ok := g.pool.d.Predicate(name)
	if !ok {
		return errors.AssertionFailedf("predicate %s vanished from the schema", name)
	}

	var args []substance.Expr
	switch p := pred.(type) {
	case domain.UnaryPredicate:
		args = make([]substance.Expr, 0, len(p.ArgTypes))
		for i, t := range p.ArgTypes {
			arg, err := g.generateArg(t)
			if err != nil {
				return errors.Wrapf(err, "argument %d of %s", i, name)
			}
			args = append(args, arg)
		}
	case domain.BinaryPredicate:
		// Binary predicates carry no argument metadata and are applied to
		// no arguments.
	default:
		return errors.AssertionFailedf("unhandled predicate kind %s of %s", pred.Kind(), name)
	}

	g.prog.append(&substance.PredicateApplication{Predicate: name, Args: args})
	g.stats.Predicates++
	return nil
}

func (g *genContext) generateArg(t string) (substance.Expr, error) {
	switch g.opts.Policy {
	case PolicyExisting:
		return g.existingArg(t)
	case PolicyGenerated:
		return g.generatedArg(t)
	case PolicyMixed:
		coin, err := g.drawInt(0, 1)
		if err != nil {
			return nil, err
		}
		if coin == 0 {
			return g.existingArg(t)
		}
		return g.generatedArg(t)
	default:
		return nil, errors.AssertionFailedf("unhandled argument policy %s", g.opts.Policy)
	}
}

// existingArg reuses a declared identifier, falling back to generatedArg
// when none is compatible.
func (g *genContext) existingArg(t string) (substance.Expr, error) {
	candidates := g.pool.compatibleNames(g.names, t, g.opts.TypeOption)
	if len(candidates) == 0 {
		return g.generatedArg(t)
	}
	return g.pickExisting(t, candidates)
}

// generatedArg declares a fresh identifier and then resolves the argument
// among all compatible identifiers, the new one included. It never falls
// back again: after the declaration the candidate set is non-empty.
func (g *genContext) generatedArg(t string) (substance.Expr, error) {
	declType := t
	types := g.pool.argumentTypes(t, g.opts.TypeOption)
	if len(types) > 1 {
		var err error
		if declType, err = chooseFrom(g, "argument type for "+t, types); err != nil {
			return nil, err
		}
	} else if len(types) == 0 {
		return nil, errors.Wrapf(ErrEmptyChoice, "no declared type is compatible with %s", t)
	}
	g.declare(declType)
	g.stats.Fallback++

	candidates := g.pool.compatibleNames(g.names, t, g.opts.TypeOption)
	if len(candidates) == 0 {
		return nil, errors.AssertionFailedf("no %s identifier right after declaring one", t)
	}
	return g.pickExisting(t, candidates)
}

func (g *genContext) pickExisting(t string, candidates []string) (substance.Expr, error) {
	name, err := chooseFrom(g, t+" identifier", candidates)
	if err != nil {
		return nil, err
	}
	return &substance.Identifier{Name: name}, nil
}
