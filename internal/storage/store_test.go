package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/trace"
)

func sampleResult() *trace.Result {
	return &trace.Result{
		Points: []field.Position{
			field.Undefined(2),
			{0.25, -0.5},
			{1, 0},
			{0.1 + 0.2, 1e-17},
			field.Undefined(2),
		},
		Anchor:    2,
		Direction: trace.Both,
		Method:    "rk4",
		Dt:        0.01,
		Forward:   trace.Branch{Steps: 1, Stop: trace.StopBounds},
		Backward:  trace.Branch{Steps: 2, Stop: trace.StopDegenerate},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	res := sampleResult()
	runID, err := st.Save(Run{
		Field:   "rotation",
		Params:  map[string]float64{"omega": 2},
		Seed:    field.Position{1, 0},
		Bounds:  "range[0, 1]",
		Result:  res,
		Metrics: map[string]float64{"arc_length": 0.03},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "rotation", meta.Field)
	assert.Equal(t, 5, meta.Steps)
	assert.Equal(t, 2, meta.Anchor)
	assert.Equal(t, trace.Both, meta.Direction)
	assert.Equal(t, trace.Branch{Steps: 2, Stop: trace.StopDegenerate}, meta.Backward)
	assert.Equal(t, 0.03, meta.Metrics["arc_length"])
	assert.Equal(t, 2.0, meta.Params["omega"])

	points, err := st.LoadPositions(runID)
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.True(t, points[0].IsUndefined())
	assert.True(t, points[4].IsUndefined())
	for i := 1; i <= 3; i++ {
		assert.Equal(t, res.Points[i], points[i], "slot %d must round-trip exactly", i)
	}
}

func TestStoreLoadResult(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(Run{Field: "rotation", Result: sampleResult()})
	require.NoError(t, err)

	_, res, err := st.LoadResult(runID)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}}, res.Runs())
	assert.Equal(t, trace.StopBounds, res.Forward.Stop)
	assert.Len(t, res.Defined(), 3)
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := New(t.TempDir())

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id, err := st.Save(Run{Expr: []string{"-y", "x"}, Result: sampleResult()})
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		assert.Regexp(t, `^expr_\d{8}-\d{6}_[0-9a-f]{8}$`, id)
		seen[id] = true
	}

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 5)
	assert.Equal(t, []string{"-y", "x"}, runs[0].Expr)
}

func TestStoreSave_NilResult(t *testing.T) {
	_, err := New(t.TempDir()).Save(Run{Field: "rotation"})
	assert.Error(t, err)
}

func TestStoreSave_FailureRemovesRunDir(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	_, err := st.Save(Run{
		Field:   "rotation",
		Seed:    field.Position{1, 0},
		Result:  sampleResult(),
		Metrics: map[string]float64{"closure": math.NaN()},
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed save left a run directory behind")

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreList_Empty(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreList_SkipsBrokenRuns(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	_, err := st.Save(Run{Field: "rotation", Result: sampleResult()})
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "broken"), 0755))

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestLoadPositions_Malformed(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad", positionsFile), []byte("slot,x0\n0,1\n5,2\n"), 0644))

	_, err := st.LoadPositions("bad")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExportJSON_UndefinedAsNull(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(Run{Field: "rotation", Result: sampleResult()})
	require.NoError(t, err)

	meta, res, err := st.LoadResult(runID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, res.Points))

	var decoded struct {
		Direction string      `json:"direction"`
		Positions [][]float64 `json:"positions"`
		Forward   struct {
			Stop string `json:"stop"`
		} `json:"forward"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "both", decoded.Direction)
	assert.Equal(t, "bounds", decoded.Forward.Stop)
	require.Len(t, decoded.Positions, 5)
	assert.Nil(t, decoded.Positions[0])
	assert.Equal(t, []float64{1, 0}, decoded.Positions[2])
}
