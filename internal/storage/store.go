package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/trace"
)

const (
	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
)

var ErrMalformed = errors.New("storage: malformed positions file")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Field     string             `json:"field"`
	Expr      []string           `json:"expr,omitempty"`
	Params    map[string]float64 `json:"params,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      []float64          `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Method    string             `json:"method"`
	Direction trace.Direction    `json:"direction"`
	Bounds    string             `json:"bounds"`
	Anchor    int                `json:"anchor"`
	Forward   trace.Branch       `json:"forward"`
	Backward  trace.Branch       `json:"backward"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is everything Save persists for one trace.
type Run struct {
	Field   string
	Expr    []string
	Params  map[string]float64
	Seed    field.Position
	Bounds  string
	Result  *trace.Result
	Metrics map[string]float64
}

func (s *Store) Save(run Run) (string, error) {
	res := run.Result
	if res == nil {
		return "", errors.New("storage: nil result")
	}

	name := run.Field
	if name == "" {
		name = "expr"
	}
	runID, runDir, err := s.allocate(name)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Field:     run.Field,
		Expr:      run.Expr,
		Params:    run.Params,
		Timestamp: time.Now(),
		Seed:      run.Seed,
		Dt:        res.Dt,
		Steps:     res.Len(),
		Method:    res.Method,
		Direction: res.Direction,
		Bounds:    run.Bounds,
		Anchor:    res.Anchor,
		Forward:   res.Forward,
		Backward:  res.Backward,
		Metrics:   run.Metrics,
	}

	if err := writeRun(runDir, &meta, res.Points); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			return "", errors.Join(err, rmErr)
		}
		return "", fmt.Errorf("save %s: %w", runID, err)
	}
	return runID, nil
}

func writeRun(runDir string, meta *RunMetadata, points []field.Position) error {
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	return writePositions(filepath.Join(runDir, positionsFile), points)
}

// closeFile closes f and keeps the first error seen.
func closeFile(f *os.File, err *error) {
	if cerr := f.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// allocate creates a fresh run directory named after the field, the save
// time and a random suffix.
func (s *Store) allocate(name string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	stamp := time.Now().Format("20060102-150405")
	for {
		runID := fmt.Sprintf("%s_%s_%s", name, stamp, uuid.NewString()[:8])
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func writeMetadata(path string, meta *RunMetadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// writePositions writes one row per slot. Undefined slots have empty
// coordinate cells.
func writePositions(path string, points []field.Position) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeFile(f, &err)

	w := csv.NewWriter(f)

	m := 0
	if len(points) > 0 {
		m = len(points[0])
	}
	header := []string{"slot"}
	for i := 0; i < m; i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for slot, p := range points {
		row := make([]string, 1, m+1)
		row[0] = strconv.Itoa(slot)
		for _, v := range p {
			if p.IsUndefined() {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPositions reads the slot buffer back, restoring undefined slots as
// NaN sentinels.
func (s *Store) LoadPositions(runID string) ([]field.Position, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, positionsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []field.Position{}, nil
	}

	m := len(records[0]) - 1
	points := make([]field.Position, len(records)-1)
	for i, record := range records[1:] {
		slot, err := strconv.Atoi(record[0])
		if err != nil || slot != i {
			return nil, fmt.Errorf("%w: line %d: bad slot %q", ErrMalformed, i+2, record[0])
		}
		p := make(field.Position, m)
		for j, cell := range record[1:] {
			if cell == "" {
				p[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, i+2, err)
			}
			p[j] = v
		}
		points[i] = p
	}
	return points, nil
}

// LoadResult rebuilds a trace result from a saved run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *trace.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	points, err := s.LoadPositions(runID)
	if err != nil {
		return nil, nil, err
	}

	res := &trace.Result{
		Points:    points,
		Anchor:    meta.Anchor,
		Direction: meta.Direction,
		Method:    meta.Method,
		Dt:        meta.Dt,
		Forward:   meta.Forward,
		Backward:  meta.Backward,
	}
	return meta, res, nil
}
