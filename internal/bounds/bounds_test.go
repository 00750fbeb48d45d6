package bounds_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldtrace/internal/bounds"
	"github.com/san-kum/fieldtrace/internal/field"
)

var _ = Describe("Build", func() {
	nan := math.NaN()
	inf := math.Inf(1)

	Context("with no bounds", func() {
		It("accepts every finite position", func() {
			pred, err := bounds.Build(bounds.None(), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(pred(field.Position{1e300, -1e300})).To(BeTrue())
		})

		It("treats the zero Spec as none", func() {
			var s bounds.Spec
			Expect(s.Kind()).To(Equal(bounds.KindNone))
		})
	})

	DescribeTable("rejects non-finite positions for every variant",
		func(spec bounds.Spec) {
			pred, err := bounds.Build(spec, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(pred(field.Position{nan, 0})).To(BeFalse())
			Expect(pred(field.Position{0, inf})).To(BeFalse())
			Expect(pred(field.Undefined(2))).To(BeFalse())
		},
		Entry("none", bounds.None()),
		Entry("callable", bounds.Func(func(field.Position) bool { return true })),
		Entry("box", bounds.Box([]float64{-inf, -inf}, []float64{inf, inf})),
		Entry("range", bounds.Range(0, inf)),
	)

	Context("with a callable", func() {
		It("delegates to the caller's predicate", func() {
			pred, err := bounds.Build(bounds.Func(func(p field.Position) bool { return p[0] > 0 }), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(pred(field.Position{1, 0})).To(BeTrue())
			Expect(pred(field.Position{-1, 0})).To(BeFalse())
		})

		It("refuses a nil predicate", func() {
			_, err := bounds.Build(bounds.Func(nil), 2)
			Expect(err).To(MatchError(bounds.ErrNilPredicate))
		})
	})

	Context("with a box", func() {
		var pred bounds.Predicate

		BeforeEach(func() {
			var err error
			pred, err = bounds.Build(bounds.Box([]float64{-1, 0}, []float64{1, 2}), 2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("is inclusive on both edges", func() {
			Expect(pred(field.Position{-1, 0})).To(BeTrue())
			Expect(pred(field.Position{1, 2})).To(BeTrue())
		})

		It("checks each axis independently", func() {
			Expect(pred(field.Position{0, 2.0001})).To(BeFalse())
			Expect(pred(field.Position{-1.5, 1})).To(BeFalse())
		})
	})

	Context("with a range", func() {
		It("tests the norm of the whole position", func() {
			pred, err := bounds.Build(bounds.Range(1, 2), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(pred(field.Position{0, 0, 1})).To(BeTrue())
			Expect(pred(field.Position{1, 1, 1})).To(BeTrue())
			Expect(pred(field.Position{0.5, 0.5, 0})).To(BeFalse())
			Expect(pred(field.Position{2, 1, 0})).To(BeFalse())
		})
	})

	Context("with a pair of limits", func() {
		It("selects a box when both limits have the position dimension", func() {
			s, err := bounds.FromPair([]float64{0, 0, 0}, []float64{1, 1, 1}).Resolve(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind()).To(Equal(bounds.KindBox))
		})

		It("selects a range when both limits are scalar", func() {
			s, err := bounds.FromPair([]float64{0}, []float64{5}).Resolve(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind()).To(Equal(bounds.KindRange))
		})

		It("prefers a box when the dimension is one", func() {
			s, err := bounds.FromPair([]float64{0}, []float64{5}).Resolve(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Kind()).To(Equal(bounds.KindBox))
		})

		DescribeTable("reports an arity error",
			func(lo, hi []float64) {
				_, err := bounds.Build(bounds.FromPair(lo, hi), 3)
				Expect(err).To(MatchError(bounds.ErrArity))
			},
			Entry("mismatched lengths", []float64{0, 0, 0}, []float64{1}),
			Entry("wrong dimension", []float64{0, 0}, []float64{1, 1}),
			Entry("empty", []float64{}, []float64{}),
		)
	})

	It("rejects inverted limits", func() {
		_, err := bounds.Build(bounds.Range(2, 1), 2)
		Expect(err).To(MatchError(bounds.ErrOrder))

		_, err = bounds.Build(bounds.Box([]float64{0, 1}, []float64{1, 0}), 2)
		Expect(err).To(MatchError(bounds.ErrOrder))

		_, err = bounds.Build(bounds.Range(nan, 1), 2)
		Expect(err).To(MatchError(bounds.ErrOrder))
	})

	It("does not alias the caller's limit slices", func() {
		lo, hi := []float64{0, 0}, []float64{1, 1}
		pred, err := bounds.Build(bounds.Box(lo, hi), 2)
		Expect(err).NotTo(HaveOccurred())

		hi[0] = -5
		Expect(pred(field.Position{0.5, 0.5})).To(BeTrue())
	})
})
