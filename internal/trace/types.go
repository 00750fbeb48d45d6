package trace

import (
	"fmt"
	"strings"

	"github.com/san-kum/fieldtrace/internal/field"
)

type Direction int

const (
	Backward Direction = -1
	Both     Direction = 0
	Forward  Direction = 1
)

// Sign is the factor applied to the field for a single-direction walk.
func (d Direction) Sign() float64 {
	if d == Backward {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "fwd", "+1", "1", "1.0":
		return Forward, nil
	case "backward", "back", "bwd", "-1", "-1.0":
		return Backward, nil
	case "both", "":
		return Both, nil
	default:
		return Both, fmt.Errorf("unknown direction: %s", s)
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// StopReason records why a branch ended.
type StopReason int

const (
	// StopNone marks a branch that was never walked.
	StopNone StopReason = iota
	// StopExhausted means the branch filled every slot available to it.
	StopExhausted
	// StopBounds means the bounds predicate rejected a finite position.
	StopBounds
	// StopDegenerate means a step produced a non-finite position, usually
	// because the field vanished.
	StopDegenerate
	// StopCanceled means the context ended the branch.
	StopCanceled
)

func (s StopReason) String() string {
	switch s {
	case StopNone:
		return "none"
	case StopExhausted:
		return "exhausted"
	case StopBounds:
		return "bounds"
	case StopDegenerate:
		return "degenerate"
	case StopCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("stop(%d)", int(s))
	}
}

func ParseStopReason(s string) (StopReason, error) {
	for r := StopNone; r <= StopCanceled; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return StopNone, fmt.Errorf("trace: unknown stop reason %q", s)
}

func (s StopReason) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *StopReason) UnmarshalText(b []byte) error {
	r, err := ParseStopReason(string(b))
	if err != nil {
		return err
	}
	*s = r
	return nil
}

type Branch struct {
	Steps int        `json:"steps"`
	Stop  StopReason `json:"stop"`
}

// Observer receives every position a branch writes. It has no influence on
// the trace.
type Observer interface {
	OnStep(branch Direction, slot int, p field.Position)
}

type ObserverFunc func(branch Direction, slot int, p field.Position)

func (f ObserverFunc) OnStep(branch Direction, slot int, p field.Position) { f(branch, slot, p) }

type Result struct {
	Points    []field.Position
	Anchor    int
	Direction Direction
	Method    string
	Dt        float64
	Forward   Branch
	Backward  Branch
}

func (r *Result) Len() int { return len(r.Points) }

func (r *Result) IsDefined(i int) bool {
	return i >= 0 && i < len(r.Points) && r.Points[i].IsValid()
}

// Steps is the total number of positions produced by both branches.
func (r *Result) Steps() int { return r.Forward.Steps + r.Backward.Steps }

// IsComplete reports whether no slot was left undefined.
func (r *Result) IsComplete() bool {
	for _, p := range r.Points {
		if !p.IsValid() {
			return false
		}
	}
	return true
}

// Span returns the first and last slot of the defined run through the
// anchor.
func (r *Result) Span() (first, last int) {
	if !r.IsDefined(r.Anchor) {
		return r.Anchor, r.Anchor - 1
	}
	first, last = r.Anchor, r.Anchor
	for r.IsDefined(first - 1) {
		first--
	}
	for r.IsDefined(last + 1) {
		last++
	}
	return first, last
}

// Defined returns the defined positions in slot order.
func (r *Result) Defined() []field.Position {
	first, last := r.Span()
	if last < first {
		return nil
	}
	return r.Points[first : last+1]
}

// Runs lists every maximal run of defined slots as [first, last] pairs.
func (r *Result) Runs() [][2]int {
	var runs [][2]int
	start := -1
	for i := range r.Points {
		switch {
		case r.IsDefined(i) && start < 0:
			start = i
		case !r.IsDefined(i) && start >= 0:
			runs = append(runs, [2]int{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(r.Points) - 1})
	}
	return runs
}
