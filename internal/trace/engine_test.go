package trace_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/fieldtrace/internal/bounds"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/integrators"
	"github.com/san-kum/fieldtrace/internal/telemetry"
	"github.com/san-kum/fieldtrace/internal/trace"
)

var rotation = field.Sized(2, func(p field.Position) field.Position {
	return field.Position{-p[1], p[0]}
})

var radial = field.Func(func(p field.Position) field.Position {
	return p.Clone()
})

// stepField points along +x and vanishes once x reaches 1.
var stepField = field.Func(func(p field.Position) field.Position {
	if p[0] >= 1 {
		return field.Position{0, 0}
	}
	return field.Position{1, 0}
})

func bits(points []field.Position) [][]uint64 {
	out := make([][]uint64, len(points))
	for i, p := range points {
		out[i] = make([]uint64, len(p))
		for j, v := range p {
			out[i][j] = math.Float64bits(v)
		}
	}
	return out
}

var _ = Describe("Engine", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("a forward trace through a unit rotation", func() {
		It("stays on the unit circle with RK4", func() {
			res, err := trace.RK4(ctx, field.Position{1, 0}, 0.1, rotation, 10, bounds.None(), trace.Forward)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Points).To(HaveLen(10))
			Expect(res.Points[0]).To(Equal(field.Position{1, 0}))

			last := res.Points[9]
			Expect(last.Norm()).To(BeNumerically("~", 1, 1e-6))
			Expect(math.Atan2(last[1], last[0])).To(BeNumerically("~", 0.9, 1e-6))
		})

		It("drifts outward with Euler", func() {
			res, err := trace.Euler(ctx, field.Position{1, 0}, 0.1, rotation, 10, bounds.None(), trace.Forward)
			Expect(err).NotTo(HaveOccurred())

			last := res.Points[9]
			Expect(last.Norm()).To(BeNumerically("~", math.Sqrt(1.09), 1e-12))
			angle := math.Atan2(last[1], last[0])
			Expect(angle).To(BeNumerically(">", 0.85))
			Expect(angle).To(BeNumerically("<", 0.9))
		})

		It("reports an exhausted forward branch", func() {
			res, err := trace.RK4(ctx, field.Position{1, 0}, 0.1, rotation, 10, bounds.None(), trace.Forward)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Forward).To(Equal(trace.Branch{Steps: 9, Stop: trace.StopExhausted}))
			Expect(res.Backward.Stop).To(Equal(trace.StopNone))
			Expect(res.IsComplete()).To(BeTrue())
		})
	})

	It("keeps every Euler step at length dt regardless of field magnitude", func() {
		strong := field.Func(func(p field.Position) field.Position { return field.Position{30, 40} })
		res, err := trace.Euler(ctx, field.Position{0, 0}, 0.05, strong, 20, bounds.None(), trace.Forward)
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < res.Len(); i++ {
			Expect(res.Points[i].Distance(res.Points[i-1])).To(BeNumerically("~", 0.05, 1e-12))
		}
	})

	It("walks against the field when tracing backward", func() {
		res, err := trace.Euler(ctx, field.Position{1, 0}, 0.1, rotation, 5, bounds.None(), trace.Backward)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Points[1][1]).To(BeNumerically("<", 0))
		Expect(res.Backward.Steps).To(Equal(4))
		Expect(res.Forward.Stop).To(Equal(trace.StopNone))
	})

	Describe("bounds termination", func() {
		It("keeps the rejected position and leaves the rest undefined", func() {
			res, err := trace.RK4(ctx, field.Position{0.55, 0}, 0.1, radial, 20, bounds.Range(0, 1), trace.Forward)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Forward).To(Equal(trace.Branch{Steps: 5, Stop: trace.StopBounds}))
			Expect(res.Points[5].Norm()).To(BeNumerically(">=", 1))
			Expect(res.Points[4].Norm()).To(BeNumerically("<", 1))
			for i := 6; i < 20; i++ {
				Expect(res.Points[i].IsUndefined()).To(BeTrue(), "slot %d", i)
			}
			Expect(res.IsComplete()).To(BeFalse())

			first, last := res.Span()
			Expect(first).To(Equal(0))
			Expect(last).To(Equal(5))
		})

		It("terminates each branch of a bidirectional trace independently", func() {
			res, err := trace.Euler(ctx, field.Position{0.55, 0}, 0.1, radial, 21, bounds.Range(0.2, 1), trace.Both)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Anchor).To(Equal(10))
			Expect(res.Forward).To(Equal(trace.Branch{Steps: 5, Stop: trace.StopBounds}))
			Expect(res.Backward).To(Equal(trace.Branch{Steps: 4, Stop: trace.StopBounds}))

			Expect(res.Points[9][0]).To(BeNumerically("~", 0.45, 1e-12))
			Expect(res.Points[6][0]).To(BeNumerically("~", 0.15, 1e-12))
			Expect(res.Points[15][0]).To(BeNumerically("~", 1.05, 1e-12))

			Expect(res.Runs()).To(Equal([][2]int{{6, 15}}))
			Expect(res.Defined()).To(HaveLen(10))
		})
	})

	Describe("bidirectional traces", func() {
		DescribeTable("write the seed at n/2",
			func(n int) {
				x0 := field.Position{1, 0}
				res, err := trace.RK4(ctx, x0, 0.1, rotation, n, bounds.None(), trace.Both)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Anchor).To(Equal(n / 2))
				Expect(res.Points[n/2]).To(Equal(x0))
				Expect(res.IsComplete()).To(BeTrue())
				Expect(res.Steps()).To(Equal(n - 1))
			},
			Entry("n=1", 1),
			Entry("n=2", 2),
			Entry("n=7", 7),
			Entry("n=10", 10),
		)

		It("grows the backward half in decreasing slots from the seed", func() {
			res, err := trace.RK4(ctx, field.Position{1, 0}, 0.1, rotation, 11, bounds.None(), trace.Both)
			Expect(err).NotTo(HaveOccurred())

			// slot 0 is five clockwise steps from the seed
			Expect(math.Atan2(res.Points[0][1], res.Points[0][0])).To(BeNumerically("~", -0.5, 1e-6))
			Expect(math.Atan2(res.Points[10][1], res.Points[10][0])).To(BeNumerically("~", 0.5, 1e-6))
		})

		It("does not alias the caller's seed", func() {
			x0 := field.Position{1, 0}
			res, err := trace.RK4(ctx, x0, 0.1, rotation, 4, bounds.None(), trace.Both)
			Expect(err).NotTo(HaveOccurred())
			x0[0] = 42
			Expect(res.Points[2][0]).To(Equal(1.0))
		})

		It("gives the same buffer with concurrent branches", func() {
			x0 := field.Position{0.3, -0.8}
			spec := bounds.Box([]float64{-0.9, -0.9}, []float64{0.9, 0.9})

			seq, err := trace.New(integrators.NewRK4()).Trace(ctx, x0, 0.05, rotation, 301, spec, trace.Both)
			Expect(err).NotTo(HaveOccurred())
			par, err := trace.New(integrators.NewRK4(), trace.WithConcurrentBranches(true)).Trace(ctx, x0, 0.05, rotation, 301, spec, trace.Both)
			Expect(err).NotTo(HaveOccurred())

			Expect(bits(par.Points)).To(Equal(bits(seq.Points)))
			Expect(par.Forward).To(Equal(seq.Forward))
			Expect(par.Backward).To(Equal(seq.Backward))
		})
	})

	It("is deterministic", func() {
		eng := trace.New(integrators.NewRK4())
		a, err := eng.Trace(ctx, field.Position{0.2, 0.4}, 0.01, rotation, 200, bounds.Range(0, 2), trace.Both)
		Expect(err).NotTo(HaveOccurred())
		b, err := eng.Trace(ctx, field.Position{0.2, 0.4}, 0.01, rotation, 200, bounds.Range(0, 2), trace.Both)
		Expect(err).NotTo(HaveOccurred())
		Expect(bits(a.Points)).To(Equal(bits(b.Points)))
	})

	It("ends a branch where the field vanishes", func() {
		res, err := trace.Euler(ctx, field.Position{0.5, 0}, 0.25, stepField, 8, bounds.None(), trace.Forward)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Forward).To(Equal(trace.Branch{Steps: 3, Stop: trace.StopDegenerate}))
		Expect(res.Points[2]).To(Equal(field.Position{1, 0}))
		Expect(res.Points[3].IsUndefined()).To(BeTrue())
		Expect(res.Defined()).To(HaveLen(3))
	})

	Describe("configuration errors", func() {
		DescribeTable("are reported before tracing",
			func(x0 field.Position, dt float64, f field.Field, n int, spec bounds.Spec, dir trace.Direction, want error) {
				res, err := trace.RK4(ctx, x0, dt, f, n, spec, dir)
				Expect(res).To(BeNil())
				Expect(errors.Is(err, trace.ErrConfig)).To(BeTrue())
				Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)

				var cfgErr *trace.ConfigError
				Expect(errors.As(err, &cfgErr)).To(BeTrue())
			},
			Entry("zero steps", field.Position{1, 0}, 0.1, rotation, 0, bounds.None(), trace.Forward, trace.ErrStepCount),
			Entry("zero dt", field.Position{1, 0}, 0.0, rotation, 10, bounds.None(), trace.Forward, trace.ErrStepSize),
			Entry("negative dt", field.Position{1, 0}, -0.1, rotation, 10, bounds.None(), trace.Forward, trace.ErrStepSize),
			Entry("NaN dt", field.Position{1, 0}, math.NaN(), rotation, 10, bounds.None(), trace.Forward, trace.ErrStepSize),
			Entry("infinite dt", field.Position{1, 0}, math.Inf(1), rotation, 10, bounds.None(), trace.Forward, trace.ErrStepSize),
			Entry("empty seed", field.Position{}, 0.1, rotation, 10, bounds.None(), trace.Forward, trace.ErrSeed),
			Entry("NaN seed", field.Position{math.NaN(), 0}, 0.1, rotation, 10, bounds.None(), trace.Forward, trace.ErrSeed),
			Entry("nil field", field.Position{1, 0}, 0.1, nil, 10, bounds.None(), trace.Forward, trace.ErrNilField),
			Entry("seed dimension", field.Position{1, 0, 0}, 0.1, rotation, 10, bounds.None(), trace.Forward, field.ErrDimensionMismatch),
			Entry("bounds arity", field.Position{1, 0}, 0.1, rotation, 10, bounds.FromPair([]float64{0, 0, 0}, []float64{1}), trace.Forward, bounds.ErrArity),
			Entry("direction", field.Position{1, 0}, 0.1, rotation, 10, bounds.None(), trace.Direction(3), trace.ErrDirection),
		)
	})

	It("stops at the first step once the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := trace.RK4(cctx, field.Position{1, 0}, 0.1, rotation, 10, bounds.None(), trace.Forward)
		Expect(errors.Is(err, trace.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res).NotTo(BeNil())
		Expect(res.Forward).To(Equal(trace.Branch{Steps: 0, Stop: trace.StopCanceled}))
		Expect(res.Points[0]).To(Equal(field.Position{1, 0}))
		Expect(res.Points[1].IsUndefined()).To(BeTrue())
	})

	It("reports every written slot to the observer", func() {
		var calls atomic.Int64
		obs := trace.ObserverFunc(func(branch trace.Direction, slot int, p field.Position) {
			calls.Add(1)
		})
		eng := trace.New(integrators.NewEuler(), trace.WithObserver(obs), trace.WithConcurrentBranches(true))
		res, err := eng.Trace(ctx, field.Position{1, 0}, 0.1, rotation, 31, bounds.None(), trace.Both)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls.Load()).To(Equal(int64(res.Steps())))
		Expect(calls.Load()).To(Equal(int64(30)))
	})

	It("counts traces and stops in telemetry", func() {
		c := telemetry.New()
		eng := trace.New(integrators.NewRK4(), trace.WithTelemetry(c))
		_, err := eng.Trace(ctx, field.Position{0.55, 0}, 0.1, radial, 20, bounds.Range(0, 1), trace.Forward)
		Expect(err).NotTo(HaveOccurred())

		n, err := testutil.GatherAndCount(c.Registry(), "fieldtrace_traces_total", "fieldtrace_branch_stops_total")
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
	})

	Describe("TraceMany", func() {
		It("returns one result per seed in order", func() {
			seeds := []field.Position{{1, 0}, {2, 0}, {3, 0}}
			results, err := trace.New(integrators.NewRK4()).TraceMany(ctx, seeds, 0.1, rotation, 30, bounds.None(), trace.Both)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			for i, res := range results {
				Expect(res.Points[res.Anchor]).To(Equal(seeds[i]))
				Expect(res.Points[0].Norm()).To(BeNumerically("~", seeds[i].Norm(), 1e-6))
			}
		})

		It("fails on the first invalid seed", func() {
			seeds := []field.Position{{1, 0}, {1, 0, 0}}
			_, err := trace.New(integrators.NewRK4()).TraceMany(ctx, seeds, 0.1, rotation, 30, bounds.None(), trace.Both)
			Expect(errors.Is(err, field.ErrDimensionMismatch)).To(BeTrue())
		})
	})
})
