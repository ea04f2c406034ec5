// Package spatial holds the small set of 3-D and spatial (6-D) value types
// shared by the rigid-body backend and the reaction estimator.
//
// Vectors and 3x3 matrices come from gonum's spatial/r3 package. A spatial
// vector pairs an angular and a linear part in the order used throughout the
// repository: velocities are (ω, v), accelerations (α, a) and forces
// (moment, force).
package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a spatial vector expressed in the ground frame.
type Vec struct {
	Angular r3.Vec
	Linear  r3.Vec
}

func (s Vec) Add(o Vec) Vec {
	return Vec{Angular: r3.Add(s.Angular, o.Angular), Linear: r3.Add(s.Linear, o.Linear)}
}

func (s Vec) Sub(o Vec) Vec {
	return Vec{Angular: r3.Sub(s.Angular, o.Angular), Linear: r3.Sub(s.Linear, o.Linear)}
}

func (s Vec) Scale(f float64) Vec {
	return Vec{Angular: r3.Scale(f, s.Angular), Linear: r3.Scale(f, s.Linear)}
}

func (s Vec) IsFinite() bool {
	return IsFinite(s.Angular) && IsFinite(s.Linear)
}

// Transform places a body frame in ground: x_ground = R·x_body + P.
type Transform struct {
	R *r3.Mat
	P r3.Vec
}

func Identity() Transform {
	return Transform{R: Eye(), P: r3.Vec{}}
}

// Apply maps a point given in the body frame to ground.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.R.MulVec(p), t.P)
}

// Rotate maps a direction given in the body frame to ground.
func (t Transform) Rotate(d r3.Vec) r3.Vec {
	return t.R.MulVec(d)
}

// Compose returns t followed by the child transform c expressed in t's frame.
func (t Transform) Compose(c Transform) Transform {
	return Transform{R: MatMul(t.R, c.R), P: t.Apply(c.P)}
}

// MassProperties of a single body. COM is in the body frame and Inertia is
// taken about the COM, also in the body frame.
type MassProperties struct {
	Mass    float64
	COM     r3.Vec
	Inertia *r3.Mat
}

// InertiaInGround re-expresses the central inertia in ground for orientation R.
func (m MassProperties) InertiaInGround(R *r3.Mat) *r3.Mat {
	if m.Inertia == nil {
		return r3.NewMat(nil)
	}
	return MatMul(MatMul(R, m.Inertia), Transpose(R))
}

func Eye() *r3.Mat {
	return r3.NewMat([]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

func Diag(x, y, z float64) *r3.Mat {
	return r3.NewMat([]float64{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	})
}

func MatMul(a, b *r3.Mat) *r3.Mat {
	m := r3.NewMat(nil)
	m.Mul(a, b)
	return m
}

func Transpose(a *r3.Mat) *r3.Mat {
	m := r3.NewMat(nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, a.At(j, i))
		}
	}
	return m
}

// Column returns column j of a as a vector.
func Column(a *r3.Mat, j int) r3.Vec {
	return r3.Vec{X: a.At(0, j), Y: a.At(1, j), Z: a.At(2, j)}
}

// AxisAngle returns the rotation matrix for a right-handed rotation of angle
// radians about axis. A zero axis yields the identity.
func AxisAngle(axis r3.Vec, angle float64) *r3.Mat {
	n := r3.Norm(axis)
	if n == 0 || angle == 0 {
		return Eye()
	}
	return r3.NewRotation(angle, r3.Scale(1/n, axis)).Mat()
}

// RotationVector converts a rotation vector (axis scaled by angle) to a matrix.
func RotationVector(rv r3.Vec) *r3.Mat {
	return AxisAngle(rv, r3.Norm(rv))
}

// ProjectOnPlane removes from v its component along normal, for the plane
// through point with the given normal.
func ProjectOnPlane(v, point, normal r3.Vec) r3.Vec {
	n2 := r3.Dot(normal, normal)
	if n2 == 0 {
		return v
	}
	d := r3.Sub(v, point)
	return r3.Sub(v, r3.Scale(r3.Dot(d, normal)/n2, normal))
}

// Clip bounds x to [lo, hi]. NaN maps to lo.
func Clip(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func IsFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func IsZero(v r3.Vec) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
