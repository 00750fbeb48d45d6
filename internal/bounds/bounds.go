package bounds

import (
	"errors"
	"fmt"

	"github.com/san-kum/fieldtrace/internal/field"
)

var (
	// ErrArity indicates limits whose lengths match neither box nor range form.
	ErrArity = errors.New("bounds: limits must both have the position dimension or both be scalar")

	// ErrOrder indicates a lower limit above its upper limit, or a NaN limit.
	ErrOrder = errors.New("bounds: lower limit exceeds upper limit")

	// ErrNilPredicate indicates a callable spec without a function.
	ErrNilPredicate = errors.New("bounds: nil predicate")
)

// Predicate reports whether a position is inside the traceable region.
type Predicate func(p field.Position) bool

type Kind int

const (
	KindNone Kind = iota
	KindFunc
	KindBox
	KindRange
	KindPair
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFunc:
		return "callable"
	case KindBox:
		return "box"
	case KindRange:
		return "range"
	case KindPair:
		return "pair"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Spec is a declarative bounds description. The zero value is None.
type Spec struct {
	kind Kind
	fn   Predicate
	lo   []float64
	hi   []float64
}

func None() Spec { return Spec{kind: KindNone} }

func Func(pred Predicate) Spec { return Spec{kind: KindFunc, fn: pred} }

func Box(lo, hi []float64) Spec {
	return Spec{kind: KindBox, lo: clone(lo), hi: clone(hi)}
}

func Range(lo, hi float64) Spec {
	return Spec{kind: KindRange, lo: []float64{lo}, hi: []float64{hi}}
}

// FromPair describes limits whose form is decided by Build: both of length
// m gives a box, both of length one gives a range.
func FromPair(lo, hi []float64) Spec {
	return Spec{kind: KindPair, lo: clone(lo), hi: clone(hi)}
}

func (s Spec) Kind() Kind { return s.kind }

// Limits returns copies of the lower and upper limits.
func (s Spec) Limits() (lo, hi []float64) { return clone(s.lo), clone(s.hi) }

// Resolve settles a pair spec into box or range form for dimension m and
// validates the limits.
func (s Spec) Resolve(m int) (Spec, error) {
	switch s.kind {
	case KindNone:
		return s, nil
	case KindFunc:
		if s.fn == nil {
			return s, ErrNilPredicate
		}
		return s, nil
	case KindPair:
		switch {
		case len(s.lo) == m && len(s.hi) == m:
			s.kind = KindBox
		case len(s.lo) == 1 && len(s.hi) == 1:
			s.kind = KindRange
		default:
			return s, fmt.Errorf("%w: got %d and %d for dimension %d", ErrArity, len(s.lo), len(s.hi), m)
		}
		return s.Resolve(m)
	case KindBox:
		if len(s.lo) != m || len(s.hi) != m {
			return s, fmt.Errorf("%w: box limits have %d and %d entries for dimension %d", ErrArity, len(s.lo), len(s.hi), m)
		}
	case KindRange:
		if len(s.lo) != 1 || len(s.hi) != 1 {
			return s, fmt.Errorf("%w: range limits must be scalar", ErrArity)
		}
	default:
		return s, fmt.Errorf("bounds: unknown kind %v", s.kind)
	}

	for i := range s.lo {
		if !(s.lo[i] <= s.hi[i]) {
			return s, fmt.Errorf("%w: axis %d has [%g, %g]", ErrOrder, i, s.lo[i], s.hi[i])
		}
	}
	return s, nil
}

// Build resolves the spec for dimension m and returns its predicate.
func Build(s Spec, m int) (Predicate, error) {
	r, err := s.Resolve(m)
	if err != nil {
		return nil, err
	}

	switch r.kind {
	case KindFunc:
		fn := r.fn
		return func(p field.Position) bool {
			return p.IsValid() && fn(p)
		}, nil
	case KindBox:
		lo, hi := r.lo, r.hi
		return func(p field.Position) bool {
			if !p.IsValid() {
				return false
			}
			for i, v := range p {
				if v < lo[i] || v > hi[i] {
					return false
				}
			}
			return true
		}, nil
	case KindRange:
		lo, hi := r.lo[0], r.hi[0]
		return func(p field.Position) bool {
			if !p.IsValid() {
				return false
			}
			norm := p.Norm()
			return norm >= lo && norm <= hi
		}, nil
	default:
		return func(p field.Position) bool { return p.IsValid() }, nil
	}
}

func (s Spec) String() string {
	switch s.kind {
	case KindBox, KindPair:
		return fmt.Sprintf("%s%v..%v", s.kind, s.lo, s.hi)
	case KindRange:
		return fmt.Sprintf("range[%g, %g]", s.lo[0], s.hi[0])
	default:
		return s.kind.String()
	}
}

func clone(v []float64) []float64 {
	if v == nil {
		return nil
	}
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
