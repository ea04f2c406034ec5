package grfm

import (
	"github.com/san-kum/grfm/internal/gait"
	"gonum.org/v1/gonum/spatial/r3"
)

// Splitter divides a total reaction between the feet. Each axis of the
// ground-aligned gait frame has its own transition shape; X is anterior,
// Y vertical and Z lateral.
type Splitter struct {
	Anterior TransitionFunc
	Vertical TransitionFunc
	Lateral  TransitionFunc
}

// DefaultSplitter uses ReactionTransition on all three axes.
func DefaultSplitter() Splitter {
	return Splitter{
		Anterior: ReactionTransition,
		Vertical: ReactionTransition,
		Lateral:  ReactionTransition,
	}
}

// Trailing returns the share of snapshot still carried by the trailing leg t
// seconds after heel strike.
func (s Splitter) Trailing(snapshot r3.Vec, t, tds float64) r3.Vec {
	return r3.Vec{
		X: snapshot.X * s.Anterior(t, tds),
		Y: snapshot.Y * s.Vertical(t, tds),
		Z: snapshot.Z * s.Lateral(t, tds),
	}
}

// Split assigns total to the right and left feet for the given phase.
// snapshot is the total captured at the last heel strike and t the time
// since then. In double support the leading leg takes total minus the
// trailing share. ok is false when double support comes with no valid
// leading leg; both results are then zero.
func (s Splitter) Split(phase gait.Phase, leading gait.Leg, total, snapshot r3.Vec, t, tds float64) (right, left r3.Vec, ok bool) {
	switch phase {
	case gait.DoubleSupport:
		trailing := s.Trailing(snapshot, t, tds)
		lead := r3.Sub(total, trailing)
		switch leading {
		case gait.Right:
			return lead, trailing, true
		case gait.Left:
			return trailing, lead, true
		default:
			return r3.Vec{}, r3.Vec{}, false
		}
	case gait.LeftSwing:
		return total, r3.Vec{}, true
	case gait.RightSwing:
		return r3.Vec{}, total, true
	default:
		return r3.Vec{}, r3.Vec{}, true
	}
}
