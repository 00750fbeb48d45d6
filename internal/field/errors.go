package field

import "errors"

var (
	// ErrDimensionMismatch indicates a field and position of different dimension.
	ErrDimensionMismatch = errors.New("field: dimension mismatch between position and field")

	// ErrEmptyPosition indicates a position with no coordinates.
	ErrEmptyPosition = errors.New("field: position has no coordinates")
)

// CheckDim verifies that f accepts positions of dimension m and returns
// vectors of the same dimension at p.
func CheckDim(f Field, p Position) error {
	if len(p) == 0 {
		return ErrEmptyPosition
	}
	if d := f.Dim(); d != 0 && d != len(p) {
		return ErrDimensionMismatch
	}
	if v := f.At(p); len(v) != len(p) {
		return ErrDimensionMismatch
	}
	return nil
}
