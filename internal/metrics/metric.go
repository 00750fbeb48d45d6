// Package metrics summarizes traced field lines.
package metrics

import (
	"math"

	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/trace"
)

// Metric accumulates a scalar over the positions of one line, in slot
// order. Value is always finite.
type Metric interface {
	Name() string
	Observe(p field.Position)
	Value() float64
	Reset()
}

// Default returns a fresh set of the standard metrics.
func Default() []Metric {
	return []Metric{NewArcLength(), NewMaxRadius(), NewMinRadius(), NewClosure()}
}

// Summarize observes the defined run of res through each metric.
func Summarize(res *trace.Result, ms ...Metric) map[string]float64 {
	if len(ms) == 0 {
		ms = Default()
	}
	out := make(map[string]float64, len(ms)+1)
	defined := res.Defined()
	for _, m := range ms {
		m.Reset()
		for _, p := range defined {
			m.Observe(p)
		}
		out[m.Name()] = m.Value()
	}
	out["defined"] = float64(len(defined))
	return out
}

type ArcLength struct {
	prev  field.Position
	total float64
}

func NewArcLength() *ArcLength { return &ArcLength{} }

func (a *ArcLength) Name() string { return "arc_length" }

func (a *ArcLength) Observe(p field.Position) {
	if a.prev != nil {
		a.total += p.Distance(a.prev)
	}
	a.prev = p
}

func (a *ArcLength) Value() float64 { return a.total }

func (a *ArcLength) Reset() {
	a.prev = nil
	a.total = 0
}

type MaxRadius struct{ max float64 }

func NewMaxRadius() *MaxRadius { return &MaxRadius{} }

func (m *MaxRadius) Name() string { return "max_radius" }

func (m *MaxRadius) Observe(p field.Position) { m.max = math.Max(m.max, p.Norm()) }

func (m *MaxRadius) Value() float64 { return m.max }

func (m *MaxRadius) Reset() { m.max = 0 }

type MinRadius struct {
	min     float64
	samples int
}

func NewMinRadius() *MinRadius { return &MinRadius{} }

func (m *MinRadius) Name() string { return "min_radius" }

func (m *MinRadius) Observe(p field.Position) {
	r := p.Norm()
	if m.samples == 0 || r < m.min {
		m.min = r
	}
	m.samples++
}

func (m *MinRadius) Value() float64 { return m.min }

func (m *MinRadius) Reset() {
	m.min = 0
	m.samples = 0
}

// Closure is the distance between the first and last observed positions.
// It approaches zero for a line that closes on itself.
type Closure struct {
	first, last field.Position
}

func NewClosure() *Closure { return &Closure{} }

func (c *Closure) Name() string { return "closure" }

func (c *Closure) Observe(p field.Position) {
	if c.first == nil {
		c.first = p
	}
	c.last = p
}

func (c *Closure) Value() float64 {
	if c.first == nil {
		return 0
	}
	return c.first.Distance(c.last)
}

func (c *Closure) Reset() {
	c.first = nil
	c.last = nil
}
