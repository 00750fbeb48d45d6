package export

import (
	"strings"
	"testing"

	"github.com/san-kum/fieldtrace/internal/analysis"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/trace"
)

func TestTraceToSVG_OnePathPerSegment(t *testing.T) {
	u := field.Undefined(2)
	res := &trace.Result{
		Points: []field.Position{{0, 0}, {1, 0}, u, {1, 1}, {0, 1}, u},
		Anchor: 0,
	}

	svg := TraceToSVG(analysis.NewProjection(res, 0, 1), 200, 100, "#00ff88")

	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	if !strings.Contains(svg, `stroke="#00ff88"`) {
		t.Error("expected stroke color in output")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("undefined slots leaked into the path")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected closing svg tag")
	}
}

func TestTraceToSVG_TooShort(t *testing.T) {
	res := &trace.Result{Points: []field.Position{{0, 0}}}
	if svg := TraceToSVG(analysis.NewProjection(res, 0, 1), 100, 100, "#fff"); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
	if svg := TraceToSVG(nil, 100, 100, "#fff"); svg != "" {
		t.Error("expected empty output for nil projection")
	}
}
