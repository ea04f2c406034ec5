package metrics

import (
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
)

// StanceFraction is the share of estimated frames in which a foot carries
// load. Frames with both feet unloaded (tracker not ready) are not counted.
type StanceFraction struct {
	name    string
	leg     gait.Leg
	loaded  int
	samples int
}

func NewStanceFraction(leg gait.Leg) *StanceFraction {
	return &StanceFraction{name: "stance_fraction" + suffix(leg), leg: leg}
}

func (s *StanceFraction) Name() string { return s.name }

func (s *StanceFraction) Observe(out grfm.Output) {
	if out.Right.IsZero() && out.Left.IsZero() {
		return
	}
	s.samples++
	if !reaction(out, s.leg).IsZero() {
		s.loaded++
	}
}

func (s *StanceFraction) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.loaded) / float64(s.samples)
}

func (s *StanceFraction) Reset() {
	s.loaded = 0
	s.samples = 0
}

// BodyWeightRatio is the mean total vertical force over estimated frames
// divided by body weight. Over whole strides of steady walking it tends to one.
type BodyWeightRatio struct {
	name    string
	weight  float64
	sum     float64
	samples int
}

func NewBodyWeightRatio(weight float64) *BodyWeightRatio {
	return &BodyWeightRatio{name: "body_weight_ratio", weight: weight}
}

func (b *BodyWeightRatio) Name() string { return b.name }

func (b *BodyWeightRatio) Observe(out grfm.Output) {
	if out.Right.IsZero() && out.Left.IsZero() {
		return
	}
	b.sum += out.TotalForce().Y
	b.samples++
}

func (b *BodyWeightRatio) Value() float64 {
	if b.samples == 0 || b.weight == 0 {
		return 0
	}
	return b.sum / float64(b.samples) / b.weight
}

func (b *BodyWeightRatio) Reset() {
	b.sum = 0
	b.samples = 0
}
