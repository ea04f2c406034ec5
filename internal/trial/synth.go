package trial

import (
	"fmt"
	"math"

	"github.com/san-kum/grfm/internal/body"
)

// SynthOptions shape an analytic walking trial for the lower-limb preset.
type SynthOptions struct {
	Duration   float64 // s
	Rate       float64 // Hz
	StrideTime float64 // s, heel strike to heel strike of the same foot
	DutyFactor float64 // stance share of the stride
	Speed      float64 // m/s
	Heading    float64 // rad about the vertical
	Body       body.Anthropometry
}

func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Duration:   6,
		Rate:       100,
		StrideTime: 1.1,
		DutyFactor: 0.6,
		Speed:      1.3,
		Body:       body.DefaultAnthropometry(),
	}
}

// wave is c + Σ a_k·sin(k·ω·t + p_k) with exact derivatives.
type wave struct {
	c     float64
	terms []term
}

type term struct {
	k    float64
	a, p float64
}

func (w wave) eval(omega, t float64) (x, xd, xdd float64) {
	x = w.c
	for _, h := range w.terms {
		kw := h.k * omega
		s, c := math.Sincos(kw*t + h.p)
		x += h.a * s
		xd += h.a * kw * c
		xdd -= h.a * kw * kw * s
	}
	return x, xd, xdd
}

// Sagittal joint patterns over one stride, starting at heel strike.
var (
	hipWave   = wave{c: 0.1, terms: []term{{1, 0.35, math.Pi / 2}}}
	kneeWave  = wave{c: -0.45, terms: []term{{1, 0.3, -0.9}, {2, 0.12, 0.4}}}
	ankleWave = wave{c: 0.02, terms: []term{{1, 0.12, -1.6}, {2, 0.08, 0.3}}}
	bobWave   = wave{terms: []term{{2, 0.02, math.Pi / 2}}}
	swayWave  = wave{terms: []term{{1, 0.015, 0}}}
)

func (o SynthOptions) validate() error {
	switch {
	case !(o.Duration > 0):
		return fmt.Errorf("synth: duration must be positive, got %g", o.Duration)
	case !(o.Rate > 0):
		return fmt.Errorf("synth: rate must be positive, got %g", o.Rate)
	case !(o.StrideTime > 0):
		return fmt.Errorf("synth: stride time must be positive, got %g", o.StrideTime)
	case !(o.DutyFactor > 0.5 && o.DutyFactor < 1):
		return fmt.Errorf("synth: duty factor must lie in (0.5, 1), got %g", o.DutyFactor)
	}
	return nil
}

// stance reports whether a foot whose stride started at offset is on the
// ground at time t.
func stance(t, stride, offset, duty float64) bool {
	f := math.Mod(t/stride+offset, 1)
	if f < 0 {
		f++
	}
	return f < duty
}

// Synthesize generates a straight-line walk for the lower-limb preset. The
// right heel strikes at t=0 and the left half a stride later; the pelvis
// moves along Heading with vertical bob and lateral sway.
func Synthesize(o SynthOptions) (*Trial, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	model := body.NewLowerLimb(o.Body)
	names := model.CoordinateNames()
	n := len(names)

	omega := 2 * math.Pi / o.StrideTime
	height := body.StandingPelvisHeight(o.Body) - 0.03
	fwd := [2]float64{math.Cos(o.Heading), -math.Sin(o.Heading)}
	side := [2]float64{math.Sin(o.Heading), math.Cos(o.Heading)}

	frames := int(math.Round(o.Duration*o.Rate)) + 1
	tr := &Trial{
		Name:        "synthetic",
		Coordinates: names,
		Frames:      make([]Frame, 0, frames),
	}

	for i := 0; i < frames; i++ {
		t := float64(i) / o.Rate
		q, qd, qdd := make([]float64, n), make([]float64, n), make([]float64, n)

		q[1] = o.Heading

		bob, bobd, bobdd := bobWave.eval(omega, t)
		q[4], qd[4], qdd[4] = height+bob, bobd, bobdd

		sway, swayd, swaydd := swayWave.eval(omega, t)
		q[3] = o.Speed*t*fwd[0] + sway*side[0]
		q[5] = o.Speed*t*fwd[1] + sway*side[1]
		qd[3] = o.Speed*fwd[0] + swayd*side[0]
		qd[5] = o.Speed*fwd[1] + swayd*side[1]
		qdd[3] = swaydd * side[0]
		qdd[5] = swaydd * side[1]

		for leg, shift := range []float64{0, o.StrideTime / 2} {
			base := 6 + 3*leg
			for j, w := range []wave{hipWave, kneeWave, ankleWave} {
				q[base+j], qd[base+j], qdd[base+j] = w.eval(omega, t-shift)
			}
		}

		tr.Frames = append(tr.Frames, Frame{
			T:            t,
			Q:            q,
			QDot:         qd,
			QDDot:        qdd,
			RightContact: stance(t, o.StrideTime, 0, o.DutyFactor),
			LeftContact:  stance(t, o.StrideTime, 0.5, o.DutyFactor),
		})
	}
	return tr, nil
}
