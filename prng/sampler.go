package prng

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for empty choice sequences and inverted
// ranges.
var ErrInvalidArgument = errors.New("invalid argument")

// maxSpan is an exclusive bound on |min| and |max|. Below it every half-unit
// edge v±0.5 is exact in float64; at 2^52 the edge 2^52+0.5 is not.
const maxSpan = 1 << 52

// interval is a real-valued range [lo, hi].
type interval struct {
	lo, hi float64
}

func (r interval) contains(o interval) bool {
	return r.lo <= o.lo && o.hi <= r.hi
}

// divide keeps the lower half of r when bit is 0 and the upper half otherwise.
func divide(r interval, bit uint8) interval {
	mid := r.lo + (r.hi-r.lo)/2
	if bit == 0 {
		return interval{lo: r.lo, hi: mid}
	}
	return interval{lo: mid, hi: r.hi}
}

// subranges is the ordered set of unit intervals [v-0.5, v+0.5] for every
// integer v in [min, max]. It is never materialized.
type subranges struct {
	min, max int
}

func (s subranges) len() int {
	return s.max - s.min + 1
}

func (s subranges) at(i int) interval {
	v := float64(s.min + i)
	return interval{lo: v - 0.5, hi: v + 0.5}
}

func (s subranges) span() interval {
	return interval{lo: float64(s.min) - 0.5, hi: float64(s.max) + 0.5}
}

// first returns the lowest index whose sub-range contains cur.
//
// Sub-range v contains cur iff hi-0.5 <= v <= lo+0.5, so the lowest
// candidate is ceil(hi-0.5). If that one fails its lower bound, every later
// one fails too.
func (s subranges) first(cur interval) (int, bool) {
	i := int(math.Ceil(cur.hi-0.5)) - s.min
	if i < 0 {
		i = 0
	}
	if i >= s.len() || !s.at(i).contains(cur) {
		return 0, false
	}
	return i, true
}

// Sampler maps a bit source onto uniform integers and choices. Like Stream,
// a Sampler is confined to one goroutine.
type Sampler struct {
	src BitSource
}

// New returns a Sampler reading from a Stream seeded with v.
func New(v any) *Sampler {
	return NewSampler(NewStream(Seed(v)))
}

// NewSampler returns a Sampler reading from src.
func NewSampler(src BitSource) *Sampler {
	return &Sampler{src: src}
}

// Int returns a uniformly distributed integer in [min, max].
//
// The range is widened to [min-0.5, max+0.5] and halved once per drawn bit
// until the remaining interval fits inside a single integer's unit interval.
// When min == max no bits are consumed.
func (s *Sampler) Int(min, max int) (int, error) {
	if min == max {
		return min, nil
	}
	if min > max {
		return 0, fmt.Errorf("%w: min %d is greater than max %d", ErrInvalidArgument, min, max)
	}
	if int64(min) <= -maxSpan || int64(max) >= maxSpan {
		return 0, fmt.Errorf("%w: range [%d, %d] must lie strictly within ±2^52", ErrInvalidArgument, min, max)
	}

	valid := subranges{min: min, max: max}
	cur := valid.span()
	for {
		cur = divide(cur, s.src.Bit())
		if i, ok := valid.first(cur); ok {
			return min + i, nil
		}
	}
}

// Choice returns a uniformly chosen element of seq.
func Choice[T any](s *Sampler, seq []T) (T, error) {
	var zero T
	if len(seq) == 0 {
		return zero, fmt.Errorf("%w: empty sequence", ErrInvalidArgument)
	}
	i, err := s.Int(0, len(seq)-1)
	if err != nil {
		return zero, err
	}
	return seq[i], nil
}
