// Package metrics reduces estimator outputs to per-trial scalars.
package metrics

import (
	"math"

	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
)

func reaction(out grfm.Output, leg gait.Leg) grfm.Reaction {
	if leg == gait.Left {
		return out.Left
	}
	return out.Right
}

func suffix(leg gait.Leg) string {
	if leg == gait.Left {
		return "_l"
	}
	return "_r"
}

type PeakVerticalForce struct {
	name string
	leg  gait.Leg
	peak float64
}

func NewPeakVerticalForce(leg gait.Leg) *PeakVerticalForce {
	return &PeakVerticalForce{name: "peak_vertical_force" + suffix(leg), leg: leg}
}

func (p *PeakVerticalForce) Name() string { return p.name }

func (p *PeakVerticalForce) Observe(out grfm.Output) {
	p.peak = math.Max(p.peak, reaction(out, p.leg).Force.Y)
}

func (p *PeakVerticalForce) Value() float64 { return p.peak }

func (p *PeakVerticalForce) Reset() { p.peak = 0 }

// VerticalImpulse integrates the vertical force of one foot over time with
// the trapezoid rule.
type VerticalImpulse struct {
	name    string
	leg     gait.Leg
	impulse float64
	lastT   float64
	lastF   float64
	samples int
}

func NewVerticalImpulse(leg gait.Leg) *VerticalImpulse {
	return &VerticalImpulse{name: "vertical_impulse" + suffix(leg), leg: leg}
}

func (v *VerticalImpulse) Name() string { return v.name }

func (v *VerticalImpulse) Observe(out grfm.Output) {
	f := reaction(out, v.leg).Force.Y
	if v.samples > 0 {
		v.impulse += 0.5 * (f + v.lastF) * (out.T - v.lastT)
	}
	v.lastT, v.lastF = out.T, f
	v.samples++
}

func (v *VerticalImpulse) Value() float64 { return v.impulse }

func (v *VerticalImpulse) Reset() {
	v.impulse = 0
	v.lastT, v.lastF = 0, 0
	v.samples = 0
}
