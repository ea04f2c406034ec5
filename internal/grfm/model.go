package grfm

import (
	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Model is the rigid-body query surface the engine needs. Spatial vectors are
// (angular, linear) pairs in ground; body accelerations and velocities refer
// to body origins.
type Model interface {
	SetState(q, qDot []float64) error
	RealizeDynamics() error

	NumBodies() int
	BodyIndex(name string) (int, error)
	BodyTransform(idx int) spatial.Transform
	BodyVelocities() []spatial.Vec
	BodyAccelerations(qDDot []float64) ([]spatial.Vec, error)
	MassProperties(idx int) spatial.MassProperties
	Gravity() r3.Vec

	AppliedGeneralizedForces() []float64
	AppliedBodyForces() []spatial.Vec
	ResidualGeneralizedForces(qDDot, applied []float64, bodyForces []spatial.Vec) ([]float64, error)
	MapGeneralizedForces(tau []float64) ([]spatial.Vec, error)

	StationLocation(idx int, offset r3.Vec) r3.Vec
}
