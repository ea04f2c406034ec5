package body

import (
	"fmt"
	"sort"

	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultMass   = 75.0
	DefaultHeight = 1.75
)

// Segment mass fractions after Winter, Biomechanics and Motor Control of
// Human Movement. The head-arms-trunk mass rides on the pelvis.
const (
	fracHAT   = 0.678
	fracThigh = 0.100
	fracShank = 0.0465
	fracFoot  = 0.0145
)

// Anthropometry scales a preset model.
type Anthropometry struct {
	Mass   float64
	Height float64
}

func DefaultAnthropometry() Anthropometry {
	return Anthropometry{Mass: DefaultMass, Height: DefaultHeight}
}

func (a Anthropometry) scale() float64 {
	if a.Height <= 0 {
		return 1
	}
	return a.Height / DefaultHeight
}

func (a Anthropometry) mass() float64 {
	if a.Mass <= 0 {
		return DefaultMass
	}
	return a.Mass
}

// FootStations returns the heel and toe offsets in the foot (calcn) frame of
// the lower-limb preset.
func FootStations(a Anthropometry) (heel, toe r3.Vec) {
	s := a.scale()
	return r3.Vec{X: -0.05 * s, Y: -0.08 * s}, r3.Vec{X: 0.15 * s, Y: -0.08 * s}
}

// StandingPelvisHeight is the pelvis origin height with straight legs and
// flat feet for the lower-limb preset.
func StandingPelvisHeight(a Anthropometry) float64 {
	return (0.07 + 0.40 + 0.43 + 0.08) * a.scale()
}

func segment(mass float64, com r3.Vec, kx, ky, kz float64) spatial.MassProperties {
	return spatial.MassProperties{
		Mass:    mass,
		COM:     com,
		Inertia: spatial.Diag(mass*kx*kx, mass*ky*ky, mass*kz*kz),
	}
}

// NewLowerLimb builds a twelve-coordinate lower-limb model: a free pelvis
// carrying the upper body, and per side a hip, knee and ankle pin about the
// medio-lateral (+Z) axis. Bodies follow the OpenSim gait model naming.
func NewLowerLimb(a Anthropometry) *Model {
	s, M := a.scale(), a.mass()
	m := NewModel("lowerlimb")

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(m.AddBody(Body{
		Name:   "pelvis",
		Parent: Ground,
		Joint:  Joint{Type: Free, Name: "pelvis"},
		Mass:   segment(fracHAT*M, r3.Vec{Y: 0.30 * s}, 0.18*s, 0.08*s, 0.18*s),
	}))

	for _, side := range []struct {
		suffix string
		z      float64
	}{{"r", 1}, {"l", -1}} {
		must(m.AddBody(Body{
			Name:   "femur_" + side.suffix,
			Parent: "pelvis",
			Joint:  Joint{Type: Pin, Name: "hip_flexion_" + side.suffix, Offset: r3.Vec{X: -0.07 * s, Y: -0.07 * s, Z: side.z * 0.085 * s}, Axis: r3.Vec{Z: 1}},
			Mass:   segment(fracThigh*M, r3.Vec{Y: -0.17 * s}, 0.13*s, 0.05*s, 0.13*s),
		}))
		must(m.AddBody(Body{
			Name:   "tibia_" + side.suffix,
			Parent: "femur_" + side.suffix,
			Joint:  Joint{Type: Pin, Name: "knee_angle_" + side.suffix, Offset: r3.Vec{Y: -0.40 * s}, Axis: r3.Vec{Z: 1}},
			Mass:   segment(fracShank*M, r3.Vec{Y: -0.187 * s}, 0.13*s, 0.03*s, 0.13*s),
		}))
		must(m.AddBody(Body{
			Name:   "calcn_" + side.suffix,
			Parent: "tibia_" + side.suffix,
			Joint:  Joint{Type: Pin, Name: "ankle_angle_" + side.suffix, Offset: r3.Vec{Y: -0.43 * s}, Axis: r3.Vec{Z: 1}},
			Mass:   segment(fracFoot*M, r3.Vec{X: 0.05 * s, Y: -0.04 * s}, 0.04*s, 0.08*s, 0.08*s),
		}))
	}
	return m
}

// Registry maps preset names to model factories.
type Registry struct {
	models map[string]func(Anthropometry) *Model
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func(Anthropometry) *Model)}
	r.models["lowerlimb"] = NewLowerLimb
	return r
}

func (r *Registry) Register(name string, fn func(Anthropometry) *Model) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string, a Anthropometry) (*Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(a), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
