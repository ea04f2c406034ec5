// Package grfm predicts ground reaction forces, moments and centres of
// pressure for both feet from the kinematics of an articulated body model.
//
// Each frame goes through the same cycle:
//
//   - [DirectionEstimator]: averages the pelvis heading over a window and
//     yields a rotation about the vertical axis into the gait direction
//   - [Method]: total reaction from Newton-Euler balance or inverse dynamics
//   - [Splitter]: divides the total between the legs by gait phase, using
//     the value captured at the last heel strike and [ReactionTransition]
//   - [PlaceCoP]: heel and toe stations in double support, a heel-to-toe
//     progression shaped by [CoPScale] in single support
//
// The body model and the gait-phase state are consumed through the [Model]
// and [gait.Source] interfaces.
//
// # Example
//
//	engine, err := grfm.New(model, params, tracker)
//	if err != nil {
//	    return err
//	}
//	out, err := engine.Solve(grfm.Input{T: t, Q: q, QDot: qd, QDDot: qdd})
//
// # Thread Safety
//
// An [Engine] owns mutable running state and drives the model it was given.
// Use one engine per trial and serialize calls to Solve.
package grfm
