package subgen

import "github.com/framework-learner/penrose/internal/errors"

// Error taxonomy of the generator. Use errors.Is to classify a failure.
var (
	// ErrEmptyChoice is returned when a uniform choice is attempted over an
	// empty candidate set.
	ErrEmptyChoice = errors.New("empty choice")

	// ErrEmptySchema is returned at batch start for a domain that declares
	// no types.
	ErrEmptySchema = errors.New("empty domain schema")

	// ErrInvalidRange is returned for negative counts or an inverted
	// length range.
	ErrInvalidRange = errors.New("invalid range")
)
