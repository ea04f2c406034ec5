package body

import (
	"fmt"
	"math"

	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// SetState stores the configuration and speeds. Kinematics are not
// recomputed until RealizeDynamics.
func (m *Model) SetState(q, qDot []float64) error {
	if len(q) != m.nq || len(qDot) != m.nq {
		return fmt.Errorf("%w: want %d coordinates, got q=%d qDot=%d", ErrDimensionMismatch, m.nq, len(q), len(qDot))
	}
	if err := checkFinite(q); err != nil {
		return err
	}
	if err := checkFinite(qDot); err != nil {
		return err
	}
	m.q = append(m.q[:0], q...)
	m.u = append(m.u[:0], qDot...)
	m.realized = false
	return nil
}

func checkFinite(v []float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
	}
	return nil
}

// RealizeDynamics computes body transforms and velocities for the stored state.
func (m *Model) RealizeDynamics() error {
	if len(m.q) != m.nq || len(m.u) != m.nq {
		return ErrNotRealized
	}
	if cap(m.transforms) < len(m.nodes) {
		m.transforms = make([]spatial.Transform, len(m.nodes))
	}
	m.transforms = m.transforms[:len(m.nodes)]

	for i, n := range m.nodes {
		parent := spatial.Identity()
		if n.parent >= 0 {
			parent = m.transforms[n.parent]
		}
		m.transforms[i] = parent.Compose(m.jointTransform(n))
	}
	m.velocities = m.jacobianProduct(m.u)
	m.realized = true
	return nil
}

// jointTransform is the child frame relative to the parent frame.
func (m *Model) jointTransform(n node) spatial.Transform {
	j := n.Joint
	switch j.Type {
	case Pin:
		return spatial.Transform{R: spatial.AxisAngle(j.Axis, m.q[n.qIndex]), P: j.Offset}
	case Free:
		q := m.q[n.qIndex : n.qIndex+6]
		rv := r3.Vec{X: q[0], Y: q[1], Z: q[2]}
		p := r3.Vec{X: q[3], Y: q[4], Z: q[5]}
		return spatial.Transform{R: spatial.RotationVector(rv), P: r3.Add(j.Offset, p)}
	default:
		return spatial.Transform{R: spatial.Eye(), P: j.Offset}
	}
}

// pinAxis is the pin axis of n in ground.
func (m *Model) pinAxis(n node) r3.Vec {
	if n.parent < 0 {
		return n.Joint.Axis
	}
	return m.transforms[n.parent].Rotate(n.Joint.Axis)
}

func (m *Model) parentOrigin(n node) r3.Vec {
	if n.parent < 0 {
		return r3.Vec{}
	}
	return m.transforms[n.parent].P
}

// jacobianProduct maps a generalized speed-like vector to per-body spatial
// vectors (angular, origin linear) in ground.
func (m *Model) jacobianProduct(u []float64) []spatial.Vec {
	out := make([]spatial.Vec, len(m.nodes))
	for i, n := range m.nodes {
		var p spatial.Vec
		if n.parent >= 0 {
			p = out[n.parent]
		}
		r := r3.Sub(m.transforms[i].P, m.parentOrigin(n))

		switch n.Joint.Type {
		case Free:
			s := u[n.qIndex : n.qIndex+6]
			out[i] = spatial.Vec{
				Angular: r3.Vec{X: s[0], Y: s[1], Z: s[2]},
				Linear:  r3.Vec{X: s[3], Y: s[4], Z: s[5]},
			}
		case Pin:
			out[i] = spatial.Vec{
				Angular: r3.Add(p.Angular, r3.Scale(u[n.qIndex], m.pinAxis(n))),
				Linear:  r3.Add(p.Linear, r3.Cross(p.Angular, r)),
			}
		default:
			out[i] = spatial.Vec{
				Angular: p.Angular,
				Linear:  r3.Add(p.Linear, r3.Cross(p.Angular, r)),
			}
		}
	}
	return out
}

func (m *Model) BodyTransform(idx int) spatial.Transform {
	return m.transforms[idx]
}

// BodyVelocities returns the spatial velocity of every body origin at the
// realized state.
func (m *Model) BodyVelocities() []spatial.Vec {
	out := make([]spatial.Vec, len(m.velocities))
	copy(out, m.velocities)
	return out
}

// BodyAccelerations returns the spatial acceleration of every body origin for
// the generalized accelerations qDDot at the realized state.
func (m *Model) BodyAccelerations(qDDot []float64) ([]spatial.Vec, error) {
	if !m.realized {
		return nil, ErrNotRealized
	}
	if len(qDDot) != m.nq {
		return nil, fmt.Errorf("%w: want %d accelerations, got %d", ErrDimensionMismatch, m.nq, len(qDDot))
	}
	if err := checkFinite(qDDot); err != nil {
		return nil, err
	}

	out := make([]spatial.Vec, len(m.nodes))
	for i, n := range m.nodes {
		var pa, pv spatial.Vec
		if n.parent >= 0 {
			pa = out[n.parent]
			pv = m.velocities[n.parent]
		}
		r := r3.Sub(m.transforms[i].P, m.parentOrigin(n))
		// origin acceleration of a point rigidly carried by the parent
		carried := r3.Add(pa.Linear, r3.Add(r3.Cross(pa.Angular, r), r3.Cross(pv.Angular, r3.Cross(pv.Angular, r))))

		switch n.Joint.Type {
		case Free:
			a := qDDot[n.qIndex : n.qIndex+6]
			out[i] = spatial.Vec{
				Angular: r3.Vec{X: a[0], Y: a[1], Z: a[2]},
				Linear:  r3.Vec{X: a[3], Y: a[4], Z: a[5]},
			}
		case Pin:
			axis := m.pinAxis(n)
			qd, qdd := m.u[n.qIndex], qDDot[n.qIndex]
			alpha := r3.Add(pa.Angular, r3.Scale(qdd, axis))
			alpha = r3.Add(alpha, r3.Cross(pv.Angular, r3.Scale(qd, axis)))
			out[i] = spatial.Vec{Angular: alpha, Linear: carried}
		default:
			out[i] = spatial.Vec{Angular: pa.Angular, Linear: carried}
		}
	}
	return out, nil
}

// MapGeneralizedForces multiplies tau by the system Jacobian, giving one
// spatial vector per body.
func (m *Model) MapGeneralizedForces(tau []float64) ([]spatial.Vec, error) {
	if !m.realized {
		return nil, ErrNotRealized
	}
	if len(tau) != m.nq {
		return nil, fmt.Errorf("%w: want %d generalized forces, got %d", ErrDimensionMismatch, m.nq, len(tau))
	}
	return m.jacobianProduct(tau), nil
}

// StationLocation returns the ground location of a point fixed on body idx.
func (m *Model) StationLocation(idx int, offset r3.Vec) r3.Vec {
	return m.transforms[idx].Apply(offset)
}

// MassCenterLocation returns the ground location of the mass centre of body idx.
func (m *Model) MassCenterLocation(idx int) r3.Vec {
	return m.StationLocation(idx, m.nodes[idx].Mass.COM)
}
