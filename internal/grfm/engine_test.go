package grfm_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/grfm/internal/body"
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"gonum.org/v1/gonum/spatial/r3"
)

func distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

func lowerLimbParams(method string) grfm.Parameters {
	heel, toe := body.FootStations(body.DefaultAnthropometry())
	return grfm.Parameters{
		Method:              method,
		RightStationBody:    "calcn_r",
		LeftStationBody:     "calcn_l",
		RightHeel:           heel,
		LeftHeel:            heel,
		RightToe:            toe,
		LeftToe:             toe,
		PelvisBody:          "pelvis",
		DirectionWindowSize: 4,
	}
}

// standing returns a still pose turned by yaw about the vertical.
func standing(n int, yaw float64) (q, zero []float64) {
	q = make([]float64, n)
	q[1] = yaw
	q[4] = body.StandingPelvisHeight(body.DefaultAnthropometry())
	q[6], q[9] = 0.2, -0.2
	return q, make([]float64, n)
}

var _ = Describe("Engine", func() {
	var (
		model  *body.Model
		source *gait.Static
		weight float64
		q      []float64
		zero   []float64
		logBuf *bytes.Buffer
		logger *slog.Logger
	)

	BeforeEach(func() {
		model = body.NewLowerLimb(body.DefaultAnthropometry())
		weight = model.Weight()
		q, zero = standing(model.NumCoordinates(), 0.25)
		source = &gait.Static{
			IsReady:    true,
			Current:    gait.DoubleSupport,
			Leading:    gait.Right,
			HeelStrike: 1.0,
			ToeOff:     0.6,
			Tds:        0.12,
			Tss:        0.4,
		}
		logBuf = &bytes.Buffer{}
		logger = slog.New(slog.NewTextHandler(logBuf, nil))
	})

	newEngine := func(method string) *grfm.Engine {
		e, err := grfm.New(model, lowerLimbParams(method), source, grfm.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	frame := func(t float64) grfm.Input {
		return grfm.Input{T: t, Q: q, QDot: zero, QDDot: zero}
	}

	Describe("construction", func() {
		It("rejects an unknown method", func() {
			_, err := grfm.New(model, lowerLimbParams("static"), source)
			Expect(errors.Is(err, grfm.ErrUnknownMethod)).To(BeTrue())

			var cfgErr *grfm.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("method"))
		})

		It("rejects an unknown station body", func() {
			params := lowerLimbParams("ne")
			params.LeftStationBody = "foot_l"
			_, err := grfm.New(model, params, source)
			Expect(errors.Is(err, grfm.ErrUnknownBody)).To(BeTrue())
		})

		It("rejects missing collaborators", func() {
			_, err := grfm.New(nil, lowerLimbParams("ne"), source)
			Expect(err).To(MatchError(grfm.ErrNilDependency))
		})

		It("keeps the parsed method", func() {
			Expect(newEngine("ID").Method()).To(Equal(grfm.InverseDynamics))
		})
	})

	Context("when the gait source is not ready", func() {
		It("returns an all-zero output whatever the kinematics", func() {
			source.IsReady = false
			e := newEngine("newton-euler")

			nan := make([]float64, 2)
			nan[0] = math.NaN()
			out, err := e.Solve(grfm.Input{T: 0.5, Q: nan, QDot: nan, QDDot: nan})
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(grfm.Output{T: 0.5}, out)).To(BeEmpty())
			Expect(out.Right.IsZero() && out.Left.IsZero()).To(BeTrue())
		})
	})

	Context("at heel strike in double support", func() {
		It("snapshots the total and gives it all to the trailing leg", func() {
			e := newEngine("newtoneuler")

			out, err := e.Solve(frame(1.0))
			Expect(err).NotTo(HaveOccurred())

			snapForce, _ := e.HeelStrikeSnapshot()
			Expect(distance(snapForce, r3.Vec{Y: weight})).To(BeNumerically("<", 1e-9))
			Expect(out.Right.Force).To(Equal(r3.Vec{}))
			Expect(out.Left.Force).To(Equal(snapForce))
			Expect(out.TotalForce()).To(Equal(snapForce))
		})

		It("hands load over to the leading leg as double support elapses", func() {
			e := newEngine("newtoneuler")
			_, err := e.Solve(frame(1.0))
			Expect(err).NotTo(HaveOccurred())
			snap, _ := e.HeelStrikeSnapshot()

			out, err := e.Solve(frame(1.06))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Left.Force.Y).To(BeNumerically("~", snap.Y*math.Exp(-1), 1e-9))
			Expect(distance(out.TotalForce(), r3.Vec{Y: weight})).To(BeNumerically("<", 1e-9))

			again, _ := e.HeelStrikeSnapshot()
			Expect(again).To(Equal(snap))
		})

		It("places the leading heel and trailing toe", func() {
			e := newEngine("ne")
			out, err := e.Solve(frame(1.0))
			Expect(err).NotTo(HaveOccurred())

			heel, toe := body.FootStations(body.DefaultAnthropometry())
			r, _ := model.BodyIndex("calcn_r")
			l, _ := model.BodyIndex("calcn_l")
			Expect(out.Right.Point).To(Equal(model.StationLocation(r, heel)))
			Expect(out.Left.Point).To(Equal(model.StationLocation(l, toe)))
		})
	})

	Describe("static consistency across methods", func() {
		DescribeTable("total force equals body weight",
			func(method string, yaw float64) {
				q, zero = standing(model.NumCoordinates(), yaw)
				source.Current = gait.LeftSwing
				e := newEngine(method)

				out, err := e.Solve(frame(1.3))
				Expect(err).NotTo(HaveOccurred())
				Expect(distance(out.Right.Force, r3.Vec{Y: weight})).To(BeNumerically("<", 1e-9))
				Expect(out.Left.IsZero()).To(BeTrue())
			},
			Entry("newton-euler facing forward", "newton-euler", 0.0),
			Entry("newton-euler turned", "newton-euler", 0.7),
			Entry("inverse dynamics facing forward", "inverse-dynamics", 0.0),
			Entry("inverse dynamics turned", "inverse-dynamics", 0.7),
		)
	})

	Context("in single support", func() {
		It("rolls the stance point from heel to toe", func() {
			source.Current = gait.RightSwing
			source.Leading = gait.Left
			e := newEngine("id")

			heel, toe := body.FootStations(body.DefaultAnthropometry())
			l, _ := model.BodyIndex("calcn_l")

			out, err := e.Solve(frame(source.ToeOff))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Right.IsZero()).To(BeTrue())
			Expect(out.Left.Point).To(Equal(model.StationLocation(l, heel)))

			out, err = e.Solve(frame(source.ToeOff + source.Tss))
			Expect(err).NotTo(HaveOccurred())
			Expect(distance(out.Left.Point, model.StationLocation(l, toe))).To(BeNumerically("<", 1e-12))

			_, tss := e.Durations()
			Expect(tss).To(Equal(source.Tss))
		})
	})

	Context("when the leading leg is reported invalid", func() {
		It("keeps the last valid assignment and warns", func() {
			e := newEngine("ne")
			first, err := e.Solve(frame(1.0))
			Expect(err).NotTo(HaveOccurred())

			source.Leading = gait.InvalidLeg
			second, err := e.Solve(frame(1.0))
			Expect(err).NotTo(HaveOccurred())
			Expect(cmp.Diff(first, second)).To(BeEmpty())
			Expect(logBuf.String()).To(ContainSubstring("invalid leading leg"))
		})

		It("outputs zeros when no valid leg was ever seen", func() {
			source.Leading = gait.InvalidLeg
			e := newEngine("ne")

			out, err := e.Solve(frame(1.02))
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Right.IsZero()).To(BeTrue())
			Expect(out.Left.IsZero()).To(BeTrue())
		})
	})

	It("reports kinematics the model rejects", func() {
		e := newEngine("ne")
		_, err := e.Solve(grfm.Input{T: 1.0, Q: q[:3], QDot: zero, QDDot: zero})
		Expect(errors.Is(err, body.ErrDimensionMismatch)).To(BeTrue())
	})

	It("forgets the running state on reset", func() {
		e := newEngine("ne")
		_, err := e.Solve(frame(1.0))
		Expect(err).NotTo(HaveOccurred())

		e.Reset()
		f, m := e.HeelStrikeSnapshot()
		Expect(f).To(Equal(r3.Vec{}))
		Expect(m).To(Equal(r3.Vec{}))
		tds, tss := e.Durations()
		Expect(tds).To(BeZero())
		Expect(tss).To(BeZero())
	})
})
