package subgen

import "github.com/framework-learner/penrose/internal/errors"

const (
	lcgA    uint64 = 0x5DEECE66D
	lcgC    uint64 = 0xB
	lcgMask uint64 = (1 << 48) - 1
)

// rng is the srand48/lrand48 recurrence held by value. Every draw returns
// the value together with the successor state and leaves the receiver
// untouched, so a state can be replayed.
type rng struct {
	state uint64
}

func newRNG(seed uint64) rng {
	// srand48 semantics.
	return rng{state: ((seed << 16) + 0x330E) & lcgMask}
}

func (r rng) next31() (uint32, rng) {
	next := rng{state: (lcgA*r.state + lcgC) & lcgMask}
	return uint32(next.state >> 17), next
}

// drawInt returns an integer uniformly distributed in [low, high].
func (r rng) drawInt(low, high int) (int, rng, error) {
	if low > high {
		return 0, r, errors.Wrapf(ErrInvalidRange, "draw from [%d, %d]", low, high)
	}
	span := uint64(high-low) + 1
	if span > maxDrawSpan {
		return 0, r, errors.Wrapf(ErrInvalidRange, "draw from [%d, %d] exceeds 31 bits", low, high)
	}
	raw, next := r.next31()
	return low + int(uint64(raw)%span), next, nil
}

// choose draws an index with drawInt(0, len-1) and returns that element.
func choose[T any](r rng, xs []T) (T, rng, error) {
	var zero T
	if len(xs) == 0 {
		return zero, r, ErrEmptyChoice
	}
	i, next, err := r.drawInt(0, len(xs)-1)
	if err != nil {
		return zero, r, err
	}
	return xs[i], next, nil
}
