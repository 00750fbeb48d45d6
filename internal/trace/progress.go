package trace

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/san-kum/fieldtrace/internal/field"
)

// ProgressInterval is the shortest gap between two progress lines.
const ProgressInterval = 200 * time.Millisecond

// Progress logs a running step count every Every steps, at most once per
// ProgressInterval. It is safe for concurrent branches and bundles.
type Progress struct {
	Logger *slog.Logger
	Every  int64
	Total  int

	count   atomic.Int64
	limiter *rate.Limiter
}

func NewProgress(logger *slog.Logger, every int64, total int) *Progress {
	if logger == nil {
		logger = slog.Default()
	}
	if every < 1 {
		every = 1
	}
	return &Progress{
		Logger:  logger,
		Every:   every,
		Total:   total,
		limiter: rate.NewLimiter(rate.Every(ProgressInterval), 1),
	}
}

func (p *Progress) OnStep(branch Direction, slot int, _ field.Position) {
	c := p.count.Add(1)
	if c%p.Every != 0 || !p.limiter.Allow() {
		return
	}
	p.Logger.Info("tracing",
		slog.Int64("step", c),
		slog.Int("of", p.Total),
		slog.String("branch", branch.String()),
		slog.Int("slot", slot),
	)
}

func (p *Progress) Count() int64 { return p.count.Load() }
