package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/trace"
)

type ExportData struct {
	ID        string             `json:"id"`
	Field     string             `json:"field"`
	Expr      []string           `json:"expr,omitempty"`
	Method    string             `json:"method"`
	Direction trace.Direction    `json:"direction"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Anchor    int                `json:"anchor"`
	Forward   trace.Branch       `json:"forward"`
	Backward  trace.Branch       `json:"backward"`
	Positions [][]float64        `json:"positions"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a run with undefined slots as null.
func ExportJSON(w io.Writer, meta *RunMetadata, points []field.Position) error {
	data := ExportData{
		ID:        meta.ID,
		Field:     meta.Field,
		Expr:      meta.Expr,
		Method:    meta.Method,
		Direction: meta.Direction,
		Dt:        meta.Dt,
		Steps:     len(points),
		Anchor:    meta.Anchor,
		Forward:   meta.Forward,
		Backward:  meta.Backward,
		Positions: make([][]float64, len(points)),
		Metrics:   meta.Metrics,
	}

	for i, p := range points {
		if p.IsValid() {
			data.Positions[i] = p
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
