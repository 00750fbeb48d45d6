package field

import "math"

type Position []float64

// Undefined returns the sentinel position of dimension m.
func Undefined(m int) Position {
	p := make(Position, m)
	for i := range p {
		p[i] = math.NaN()
	}
	return p
}

func (p Position) Dim() int { return len(p) }

func (p Position) Clone() Position {
	c := make(Position, len(p))
	copy(c, p)
	return c
}

// IsValid reports whether every coordinate is finite.
func (p Position) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Position) IsUndefined() bool {
	if len(p) == 0 {
		return true
	}
	for _, v := range p {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (p Position) Norm() float64 {
	sum := 0.0
	for _, v := range p {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (p Position) Add(other Position) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] + other[i]
	}
	return result
}

func (p Position) Sub(other Position) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] - other[i]
	}
	return result
}

func (p Position) Scale(factor float64) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] * factor
	}
	return result
}

// AddScaled returns p + factor*v without allocating an intermediate.
func (p Position) AddScaled(factor float64, v Position) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] + factor*v[i]
	}
	return result
}

// Distance is the Euclidean distance between p and other.
func (p Position) Distance(other Position) float64 {
	sum := 0.0
	for i := range p {
		d := p[i] - other[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
