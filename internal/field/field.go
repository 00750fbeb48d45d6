package field

// Field is a vector field over m-dimensional space. At must return a vector
// with the same dimension as its argument. Dim reports the dimension the
// field is defined on, or 0 when it accepts any dimension.
type Field interface {
	At(p Position) Position
	Dim() int
}

// Func adapts a plain function to a dimension-agnostic Field.
type Func func(p Position) Position

func (f Func) At(p Position) Position { return f(p) }
func (f Func) Dim() int               { return 0 }

type sized struct {
	dim int
	fn  Func
}

// Sized attaches a fixed dimension to f.
func Sized(dim int, f Func) Field {
	return sized{dim: dim, fn: f}
}

func (s sized) At(p Position) Position { return s.fn(p) }
func (s sized) Dim() int               { return s.dim }

// UnitFunc returns the unit direction of a field at a position.
type UnitFunc func(p Position) Position

// Unit wraps f so that step size measures arc length rather than time.
// Where the field is zero or non-finite the result is Undefined.
func Unit(f Field) UnitFunc {
	return func(p Position) Position {
		v := f.At(p)
		mag := v.Norm()
		if mag == 0 || !v.IsValid() {
			return Undefined(len(v))
		}
		return v.Scale(1 / mag)
	}
}
