package batch

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/fieldtrace/internal/config"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/metrics"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var ErrCloudSize = errors.New("batch: seed cloud needs at least one member")

// Cloud traces Count seeds drawn uniformly from a cube of half-width Spread
// around the job's seed. RandSeed 0 draws from the clock.
type Cloud struct {
	Job      *config.Config
	Count    int
	Spread   float64
	RandSeed int64
}

type CloudMember struct {
	ID      int
	Seed    field.Position
	Result  *trace.Result
	Metrics map[string]float64
}

// RunCloud traces every member of the cloud in parallel.
func (r *Runner) RunCloud(ctx context.Context, c *Cloud) ([]CloudMember, error) {
	if c.Count < 1 {
		return nil, ErrCloudSize
	}

	exp, err := r.setup(c.Job)
	if err != nil {
		return nil, err
	}

	rs := c.RandSeed
	if rs == 0 {
		rs = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rs))

	base := exp.Seed()
	seeds := make([]field.Position, c.Count)
	for i := range seeds {
		s := make(field.Position, len(base))
		for j, v := range base {
			s[j] = v + (rng.Float64()-0.5)*2*c.Spread
		}
		seeds[i] = s
	}

	results, err := exp.RunSeeds(ctx, seeds)
	if err != nil {
		return nil, err
	}

	members := make([]CloudMember, len(results))
	for i, res := range results {
		members[i] = CloudMember{
			ID:      i,
			Seed:    seeds[i],
			Result:  res,
			Metrics: metrics.Summarize(res),
		}
	}

	r.Logger.Info("seed cloud traced",
		slog.Int("members", len(members)),
		slog.Float64("spread", c.Spread),
	)
	return members, nil
}

// StopCounts tallies how the members' branches ended. Branches that never
// ran are not counted.
func StopCounts(members []CloudMember) map[trace.StopReason]int {
	counts := make(map[trace.StopReason]int)
	for _, m := range members {
		for _, b := range []trace.Branch{m.Result.Forward, m.Result.Backward} {
			if b.Stop != trace.StopNone {
				counts[b.Stop]++
			}
		}
	}
	return counts
}
