package trace

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/san-kum/fieldtrace/internal/field"
)

func TestProgress_ThrottlesLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(slog.New(slog.NewTextHandler(&buf, nil)), 10, 1000)

	for i := 0; i < 1000; i++ {
		p.OnStep(Forward, i, field.Position{0, 0})
	}

	if p.Count() != 1000 {
		t.Errorf("expected 1000 steps counted, got %d", p.Count())
	}
	lines := strings.Count(buf.String(), "msg=tracing")
	if lines < 1 || lines > 2 {
		t.Errorf("expected the limiter to keep only the first line or two, got %d", lines)
	}
	if !strings.Contains(buf.String(), "step=10 ") {
		t.Errorf("expected the first line at step 10, got %q", buf.String())
	}
}

func TestProgress_Defaults(t *testing.T) {
	p := NewProgress(nil, 0, 5)
	if p.Every != 1 || p.Logger == nil {
		t.Errorf("unexpected defaults %+v", p)
	}
}
