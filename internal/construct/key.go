package construct

import (
	"strconv"

	"github.com/roach88/fedcore/internal/errkind"
)

// Key addresses tuple elements by position: an Index or a Range.
type Key interface {
	key() // Sealed
}

// Index selects a single position.
type Index int

func (Index) key() {}

// Range selects positions with sequence slicing semantics. A nil bound is
// omitted, as in x[::-1].
type Range struct {
	Start *int
	Stop  *int
	Step  *int
}

func (Range) key() {}

// Bound returns a pointer to v, for building Range literals.
func Bound(v int) *int { return &v }

// Indices returns the positions r selects from a sequence of length n, in
// order. A zero step is a VALUE_ERROR.
func (r Range) Indices(n int) ([]int, error) {
	step := 1
	if r.Step != nil {
		step = *r.Step
	}
	if step == 0 {
		return nil, errkind.Valuef("slice", "slice step cannot be zero")
	}

	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	clamp := func(b *int, def int) int {
		if b == nil {
			return def
		}
		v := *b
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}

	var start, stop int
	if step < 0 {
		start, stop = clamp(r.Start, upper), clamp(r.Stop, lower)
	} else {
		start, stop = clamp(r.Start, lower), clamp(r.Stop, upper)
	}

	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r Range) String() string {
	bound := func(b *int) string {
		if b == nil {
			return ""
		}
		return strconv.Itoa(*b)
	}
	s := bound(r.Start) + ":" + bound(r.Stop)
	if r.Step != nil {
		s += ":" + bound(r.Step)
	}
	return s
}
