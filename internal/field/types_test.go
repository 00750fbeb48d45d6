package field

import (
	"math"
	"testing"
)

func TestPosition_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		pos   Position
		valid bool
	}{
		{"empty", Position{}, true},
		{"normal", Position{1.0, 2.0, 3.0}, true},
		{"zeros", Position{0.0, 0.0}, true},
		{"with NaN", Position{1.0, math.NaN()}, false},
		{"with +Inf", Position{1.0, math.Inf(1)}, false},
		{"with -Inf", Position{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestPosition_Norm(t *testing.T) {
	tests := []struct {
		pos      Position
		expected float64
	}{
		{Position{3, 4}, 5.0},
		{Position{1, 0}, 1.0},
		{Position{0, 0}, 0.0},
		{Position{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.pos.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.pos, got, tt.expected)
		}
	}
}

func TestPosition_Arithmetic(t *testing.T) {
	a := Position{1, 2, 3}
	b := Position{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	moved := a.AddScaled(0.5, b)
	if moved[0] != 3 || moved[1] != 4.5 || moved[2] != 6 {
		t.Errorf("AddScaled failed: got %v", moved)
	}

	if a[0] != 1 || b[0] != 4 {
		t.Error("arithmetic mutated its operands")
	}
}

func TestUndefined(t *testing.T) {
	u := Undefined(3)
	if len(u) != 3 {
		t.Fatalf("expected dimension 3, got %d", len(u))
	}
	if !u.IsUndefined() {
		t.Error("Undefined() is not recognized as undefined")
	}
	if u.IsValid() {
		t.Error("Undefined() should not be valid")
	}
	if (Position{math.NaN(), 1}).IsUndefined() {
		t.Error("partially NaN position reported as undefined")
	}
}

func TestPosition_Clone(t *testing.T) {
	src := Position{1, 2, 3}
	c := src.Clone()
	c[0] = 99
	if src[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}
