package exprfield

import (
	"bytes"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fieldtrace/internal/field"
)

func TestCompile_Rotation(t *testing.T) {
	f, err := Compile([]string{"-y", "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.Dim())

	got := f.At(field.Position{1, 2})
	assert.Equal(t, field.Position{-2, 1}, got)
}

func TestCompile_IndexedVariables(t *testing.T) {
	f, err := Compile([]string{"x1 * x2", "x0 + x2", "sqrt(x0*x0 + x1*x1)"})
	require.NoError(t, err)

	got := f.At(field.Position{3, 4, 5})
	assert.InDelta(t, 20, got[0], 1e-12)
	assert.InDelta(t, 8, got[1], 1e-12)
	assert.InDelta(t, 5, got[2], 1e-12)
}

func TestCompile_IntegerResultBecomesFloat(t *testing.T) {
	f, err := Compile([]string{"1", "0"})
	require.NoError(t, err)
	assert.Equal(t, field.Position{1, 0}, f.At(field.Position{7, 7}))
}

func TestCompile_Helpers(t *testing.T) {
	f, err := Compile([]string{"atan2(y, x)", "cos(pi) + exp(x - x)"})
	require.NoError(t, err)

	got := f.At(field.Position{1, 1})
	assert.InDelta(t, math.Pi/4, got[0], 1e-12)
	assert.InDelta(t, 0, got[1], 1e-12)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name       string
		components []string
		target     error
	}{
		{"no components", nil, ErrNoComponents},
		{"blank component", []string{"x", "  "}, ErrEmptySource},
		{"unknown variable", []string{"w"}, nil},
		{"z in two dimensions", []string{"z", "x"}, nil},
		{"boolean result", []string{"x > 0"}, nil},
		{"syntax", []string{"x +"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.components)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestField_DivisionByZeroIsNotFinite(t *testing.T) {
	f, err := Compile([]string{"1 / x", "0.0"})
	require.NoError(t, err)
	assert.False(t, f.At(field.Position{0, 0}).IsValid())
}

func TestField_RuntimeFailureIsUndefinedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	f, err := Compile([]string{"1", `x > 0 ? x : "neg"`})
	require.NoError(t, err)

	assert.Equal(t, field.Position{1, 2}, f.At(field.Position{2, 0}))
	assert.Empty(t, buf.String())

	got := f.At(field.Position{-1, 0})
	assert.True(t, got.IsUndefined(), "got %v", got)
	assert.Contains(t, buf.String(), "component=1")
	assert.Contains(t, buf.String(), "exprfield: component failed")
}

func TestField_CheckDim(t *testing.T) {
	f, err := Compile([]string{"-y", "x"})
	require.NoError(t, err)
	assert.NoError(t, field.CheckDim(f, field.Position{1, 0}))
	assert.ErrorIs(t, field.CheckDim(f, field.Position{1, 0, 0}), field.ErrDimensionMismatch)
}

func TestCache_ReusesCompiledField(t *testing.T) {
	c := NewCache(4)

	a, err := c.Compile([]string{"-y", "x"})
	require.NoError(t, err)
	b, err := c.Compile([]string{" -y ", "x"})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ErrorIsNotCached(t *testing.T) {
	c := NewCache(4)
	_, err := c.Compile([]string{"x +"})
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCache_RespectsMax(t *testing.T) {
	c := NewCache(1)
	_, err := c.Compile([]string{"x"})
	require.NoError(t, err)
	_, err = c.Compile([]string{"-x"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentCompile(t *testing.T) {
	c := NewCache(4)
	const n = 16

	results := make([]*Field, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			f, err := c.Compile([]string{"-y", "x"})
			if err == nil {
				results[idx] = f
			}
		}(i)
	}
	wg.Wait()

	for _, f := range results {
		require.NotNil(t, f)
		assert.Same(t, results[0], f)
	}
}
