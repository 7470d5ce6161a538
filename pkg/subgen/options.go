package subgen

import (
	"runtime"
	"strings"

	"github.com/framework-learner/penrose/internal/errors"
)

// maxDrawSpan is the widest inclusive range a single draw can cover: the
// generator yields 31 random bits per draw.
const maxDrawSpan = 1 << 31

// ArgPolicy decides whether a predicate argument reuses an identifier that
// is already declared or declares a fresh one.
type ArgPolicy int

const (
	// PolicyExisting reuses a declared identifier of the required type and
	// falls back to PolicyGenerated when there is none.
	PolicyExisting ArgPolicy = iota
	// PolicyGenerated declares a fresh identifier, then picks among all
	// identifiers of the required type.
	PolicyGenerated
	// PolicyMixed flips a fair coin between the two.
	PolicyMixed
)

func (p ArgPolicy) String() string {
	switch p {
	case PolicyExisting:
		return "existing"
	case PolicyGenerated:
		return "generated"
	case PolicyMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParseArgPolicy parses the String form of an ArgPolicy.
func ParseArgPolicy(s string) (ArgPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "existing":
		return PolicyExisting, nil
	case "generated":
		return PolicyGenerated, nil
	case "mixed":
		return PolicyMixed, nil
	}
	return 0, errors.WithHint(errors.Newf("unknown argument policy %q", s), "use existing, generated or mixed")
}

// TypeOption decides which type a declaration is given.
type TypeOption int

const (
	// TypeConcrete declares exactly the chosen or required type.
	TypeConcrete TypeOption = iota
	// TypeGeneral may declare a related type from the subtype DAG. For
	// arguments only subtypes of the required type are eligible.
	TypeGeneral
)

func (t TypeOption) String() string {
	switch t {
	case TypeConcrete:
		return "concrete"
	case TypeGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// ParseTypeOption parses the String form of a TypeOption.
func ParseTypeOption(s string) (TypeOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concrete":
		return TypeConcrete, nil
	case "general":
		return TypeGeneral, nil
	}
	return 0, errors.WithHint(errors.Newf("unknown type option %q", s), "use concrete or general")
}

// Options is the API-level configuration of a batch. It is immutable for
// the whole batch.
type Options struct {
	Seed uint64

	// Number of programs in the batch.
	Programs int

	// Inclusive bounds on the number of body statements per program.
	MinLength int
	MaxLength int

	Policy     ArgPolicy
	TypeOption TypeOption

	// Parallel gives every program its own seed derived from Seed and
	// generates them concurrently. The output differs from the sequential
	// batch for the same Seed.
	Parallel bool
	// Workers bounds parallel generation; 0 means GOMAXPROCS.
	Workers int

	// TraceRNG logs every random draw at debug level.
	TraceRNG bool
}

func Defaults() Options {
	return Options{
		Seed:       0,
		Programs:   1,
		MinLength:  5,
		MaxLength:  20,
		Policy:     PolicyMixed,
		TypeOption: TypeConcrete,
		Parallel:   false,
		Workers:    0,
		TraceRNG:   false,
	}
}

func (o Options) Validate() error {
	if o.Programs < 0 {
		return errors.Wrapf(ErrInvalidRange, "programs must not be negative, got %d", o.Programs)
	}
	if o.MinLength < 0 {
		return errors.Wrapf(ErrInvalidRange, "min-length must not be negative, got %d", o.MinLength)
	}
	if o.MinLength > o.MaxLength {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidRange, "min-length %d exceeds max-length %d", o.MinLength, o.MaxLength),
			"min-length must be less than or equal to max-length")
	}
	if uint64(o.MaxLength-o.MinLength)+1 > maxDrawSpan {
		return errors.Wrapf(ErrInvalidRange, "length range [%d, %d] is too wide", o.MinLength, o.MaxLength)
	}
	if o.Workers < 0 {
		return errors.Wrapf(ErrInvalidRange, "workers must not be negative, got %d", o.Workers)
	}
	switch o.Policy {
	case PolicyExisting, PolicyGenerated, PolicyMixed:
	default:
		return errors.Newf("unknown argument policy %d", int(o.Policy))
	}
	switch o.TypeOption {
	case TypeConcrete, TypeGeneral:
	default:
		return errors.Newf("unknown type option %d", int(o.TypeOption))
	}
	return nil
}

func (o Options) normalize() Options {
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}
