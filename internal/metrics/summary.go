package metrics

import (
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"gonum.org/v1/gonum/floats"
)

// Metric accumulates one scalar over a run.
type Metric interface {
	Name() string
	Observe(out grfm.Output)
	Value() float64
	Reset()
}

// Standard returns the metric set reported for every run.
func Standard(weight float64) []Metric {
	return []Metric{
		NewPeakVerticalForce(gait.Right),
		NewPeakVerticalForce(gait.Left),
		NewVerticalImpulse(gait.Right),
		NewVerticalImpulse(gait.Left),
		NewStanceFraction(gait.Right),
		NewStanceFraction(gait.Left),
		NewBodyWeightRatio(weight),
	}
}

// VerticalForces extracts the vertical force of one foot.
func VerticalForces(outputs []grfm.Output, leg gait.Leg) []float64 {
	out := make([]float64, len(outputs))
	for i, o := range outputs {
		out[i] = reaction(o, leg).Force.Y
	}
	return out
}

// TotalVerticalForces is the sum over both feet per frame.
func TotalVerticalForces(outputs []grfm.Output) []float64 {
	total := VerticalForces(outputs, gait.Right)
	floats.Add(total, VerticalForces(outputs, gait.Left))
	return total
}

// Summary describes the vertical force of one foot over a run.
type Summary struct {
	Peak float64
	Mean float64
	// Asymmetry is |peak right − peak left| / mean of both peaks.
	Asymmetry float64
}

// Summarize reduces a run to a Summary for leg.
func Summarize(outputs []grfm.Output, leg gait.Leg) Summary {
	if len(outputs) == 0 {
		return Summary{}
	}
	f := VerticalForces(outputs, leg)
	right := floats.Max(VerticalForces(outputs, gait.Right))
	left := floats.Max(VerticalForces(outputs, gait.Left))

	s := Summary{
		Peak: floats.Max(f),
		Mean: floats.Sum(f) / float64(len(f)),
	}
	if mean := 0.5 * (right + left); mean > 0 {
		d := right - left
		if d < 0 {
			d = -d
		}
		s.Asymmetry = d / mean
	}
	return s
}
