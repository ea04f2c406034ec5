package body

import (
	"fmt"

	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// AppliedGeneralizedForces returns the mobility forces applied by model
// components. Actuators are not modelled, so the result is all zeros.
func (m *Model) AppliedGeneralizedForces() []float64 {
	return make([]float64, m.nq)
}

// AppliedBodyForces returns the gravity load of each body as a spatial force
// (moment about the body origin, force) in ground.
func (m *Model) AppliedBodyForces() []spatial.Vec {
	out := make([]spatial.Vec, len(m.nodes))
	for i, n := range m.nodes {
		f := r3.Scale(n.Mass.Mass, m.gravity)
		rc := m.transforms[i].Rotate(n.Mass.COM)
		out[i] = spatial.Vec{Angular: r3.Cross(rc, f), Linear: f}
	}
	return out
}

// ResidualGeneralizedForces solves inverse dynamics ignoring constraints:
// the generalized forces that, together with the applied loads, produce qDDot
// at the realized state.
func (m *Model) ResidualGeneralizedForces(qDDot, applied []float64, bodyForces []spatial.Vec) ([]float64, error) {
	if len(applied) != m.nq {
		return nil, fmt.Errorf("%w: want %d applied generalized forces, got %d", ErrDimensionMismatch, m.nq, len(applied))
	}
	if len(bodyForces) != len(m.nodes) {
		return nil, fmt.Errorf("%w: want %d body forces, got %d", ErrDimensionMismatch, len(m.nodes), len(bodyForces))
	}
	acc, err := m.BodyAccelerations(qDDot)
	if err != nil {
		return nil, err
	}

	// net spatial force about each body origin, accumulated leaf to root
	net := make([]spatial.Vec, len(m.nodes))
	for i, n := range m.nodes {
		tr := m.transforms[i]
		vel := m.velocities[i]
		rc := tr.Rotate(n.Mass.COM)
		ac := massCenterAcceleration(acc[i], vel, rc)
		Iw := n.Mass.InertiaInGround(tr.R)

		f := r3.Scale(n.Mass.Mass, ac)
		moment := r3.Add(Iw.MulVec(acc[i].Angular), r3.Cross(vel.Angular, Iw.MulVec(vel.Angular)))
		moment = r3.Add(moment, r3.Cross(rc, f))

		net[i] = spatial.Vec{Angular: moment, Linear: f}.Sub(bodyForces[i])
	}

	tau := make([]float64, m.nq)
	for i := len(m.nodes) - 1; i >= 0; i-- {
		n := m.nodes[i]
		switch n.Joint.Type {
		case Pin:
			tau[n.qIndex] = r3.Dot(m.pinAxis(n), net[i].Angular)
		case Free:
			copy(tau[n.qIndex:n.qIndex+3], []float64{net[i].Angular.X, net[i].Angular.Y, net[i].Angular.Z})
			copy(tau[n.qIndex+3:n.qIndex+6], []float64{net[i].Linear.X, net[i].Linear.Y, net[i].Linear.Z})
		}
		if n.parent >= 0 {
			r := r3.Sub(m.transforms[i].P, m.transforms[n.parent].P)
			net[n.parent] = net[n.parent].Add(spatial.Vec{
				Angular: r3.Add(net[i].Angular, r3.Cross(r, net[i].Linear)),
				Linear:  net[i].Linear,
			})
		}
	}

	for i := range tau {
		tau[i] -= applied[i]
	}
	return tau, nil
}

// massCenterAcceleration shifts a body origin acceleration to the point rc
// away from the origin.
func massCenterAcceleration(acc, vel spatial.Vec, rc r3.Vec) r3.Vec {
	a := r3.Add(acc.Linear, r3.Cross(acc.Angular, rc))
	return r3.Add(a, r3.Cross(vel.Angular, r3.Cross(vel.Angular, rc)))
}

// MassCenterAcceleration returns the ground acceleration of the mass centre
// of body idx given the body origin acceleration.
func (m *Model) MassCenterAcceleration(idx int, acc spatial.Vec) r3.Vec {
	rc := m.transforms[idx].Rotate(m.nodes[idx].Mass.COM)
	return massCenterAcceleration(acc, m.velocities[idx], rc)
}
