package grfm

import (
	"math"

	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// TransitionFunc maps elapsed time and a phase duration to a share in [0, 1].
type TransitionFunc func(t, duration float64) float64

// ReactionTransition is the share of the heel-strike reaction still carried
// by the trailing leg t seconds into double support.
//
//	clip(exp(-(2t/tds)^3), 0, 1)
//
// A non-positive tds behaves as a completed transfer.
func ReactionTransition(t, tds float64) float64 {
	if !(tds > 0) {
		if t <= 0 {
			return 1
		}
		return 0
	}
	x := 2 * t / tds
	return spatial.Clip(math.Exp(-x*x*x), 0, 1)
}

// CoPScale is the fraction of the heel to toe distance covered by the centre
// of pressure t seconds after toe-off of the other foot.
//
//	clip(-2/(3π)·(sin ωt − sin(2ωt)/8 − ¾ωt), 0, 1),  ω = 2π/tss
//
// A non-positive tss behaves as a completed roll-over.
func CoPScale(t, tss float64) float64 {
	if !(tss > 0) {
		if t <= 0 {
			return 0
		}
		return 1
	}
	w := 2 * math.Pi / tss
	wt := w * t
	s := -2 / (3 * math.Pi) * (math.Sin(wt) - math.Sin(2*wt)/8 - 0.75*wt)
	return spatial.Clip(s, 0, 1)
}

// CoPOffset scales the heel to toe vector d by CoPScale.
func CoPOffset(t, tss float64, d r3.Vec) r3.Vec {
	return r3.Scale(CoPScale(t, tss), d)
}
