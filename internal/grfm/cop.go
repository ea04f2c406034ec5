package grfm

import (
	"github.com/san-kum/grfm/internal/gait"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stations holds the ground locations of the four foot stations for one frame.
type Stations struct {
	RightHeel, RightToe r3.Vec
	LeftHeel, LeftToe   r3.Vec
}

// PlaceCoP locates the centre of pressure of each foot. In double support the
// leading foot presses on its heel and the trailing foot on its toe. In single
// support the stance point rolls from heel to toe over tss, t being the time
// since toe-off. A swinging foot and any undefined phase give zero points.
// ok is false when double support comes with no valid leading leg.
func PlaceCoP(phase gait.Phase, leading gait.Leg, st Stations, t, tss float64) (right, left r3.Vec, ok bool) {
	switch phase {
	case gait.DoubleSupport:
		switch leading {
		case gait.Right:
			return st.RightHeel, st.LeftToe, true
		case gait.Left:
			return st.RightToe, st.LeftHeel, true
		default:
			return r3.Vec{}, r3.Vec{}, false
		}
	case gait.LeftSwing:
		return r3.Add(st.RightHeel, CoPOffset(t, tss, r3.Sub(st.RightToe, st.RightHeel))), r3.Vec{}, true
	case gait.RightSwing:
		return r3.Vec{}, r3.Add(st.LeftHeel, CoPOffset(t, tss, r3.Sub(st.LeftToe, st.LeftHeel))), true
	default:
		return r3.Vec{}, r3.Vec{}, true
	}
}
