package analysis

import (
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
)

// Interval is a closed time span.
type Interval struct {
	Start, End float64
}

func (i Interval) Duration() float64 { return i.End - i.Start }

// Stances returns the spans during which leg carries load. A span still open
// at the last output ends there.
func Stances(outputs []grfm.Output, leg gait.Leg) []Interval {
	var out []Interval
	open := false
	for _, o := range outputs {
		r := o.Right
		if leg == gait.Left {
			r = o.Left
		}
		switch loaded := !r.IsZero(); {
		case loaded && !open:
			out = append(out, Interval{Start: o.T, End: o.T})
			open = true
		case loaded:
			out[len(out)-1].End = o.T
		default:
			open = false
		}
	}
	return out
}

// MeanDuration averages the durations of complete intervals, skipping the
// first and last which may be cut by the recording.
func MeanDuration(spans []Interval) float64 {
	if len(spans) < 3 {
		return 0
	}
	inner := spans[1 : len(spans)-1]
	sum := 0.0
	for _, s := range inner {
		sum += s.Duration()
	}
	return sum / float64(len(inner))
}
