package grfm

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// totalReaction computes the unsplit ground reaction in ground axes. The
// model must already be realized at the current state.
func totalReaction(m Model, method Method, qDDot []float64, pelvis int) (force, moment r3.Vec, err error) {
	switch method {
	case NewtonEuler:
		return newtonEuler(m, qDDot)
	case InverseDynamics:
		return inverseDynamics(m, qDDot, pelvis)
	default:
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}
}

// newtonEuler sums every body's inertial load net of gravity:
// F = Σ m(a_c − g) and M = Σ Iα + ω × (Iω), with I in ground axes.
func newtonEuler(m Model, qDDot []float64) (force, moment r3.Vec, err error) {
	acc, err := m.BodyAccelerations(qDDot)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("body accelerations: %w", err)
	}
	vel := m.BodyVelocities()
	g := m.Gravity()

	for i := 0; i < m.NumBodies(); i++ {
		mp := m.MassProperties(i)
		R := m.BodyTransform(i).R
		w, alpha := vel[i].Angular, acc[i].Angular

		rc := R.MulVec(mp.COM)
		ac := r3.Add(acc[i].Linear, r3.Add(r3.Cross(alpha, rc), r3.Cross(w, r3.Cross(w, rc))))
		force = r3.Add(force, r3.Scale(mp.Mass, r3.Sub(ac, g)))

		I := mp.InertiaInGround(R)
		moment = r3.Add(moment, r3.Add(I.MulVec(alpha), r3.Cross(w, I.MulVec(w))))
	}
	return force, moment, nil
}

// inverseDynamics maps the residual generalized forces to spatial forces and
// reads the entry of the pelvis body.
func inverseDynamics(m Model, qDDot []float64, pelvis int) (force, moment r3.Vec, err error) {
	tau, err := m.ResidualGeneralizedForces(qDDot, m.AppliedGeneralizedForces(), m.AppliedBodyForces())
	if err != nil {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("residual forces: %w", err)
	}
	spatialForces, err := m.MapGeneralizedForces(tau)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("map generalized forces: %w", err)
	}
	f := spatialForces[pelvis]
	return f.Linear, f.Angular, nil
}
