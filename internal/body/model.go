// Package body is a small articulated rigid-body backend: a tree of bodies
// joined by free, pin and weld joints, with forward kinematics, recursive
// Newton-Euler inverse dynamics and station queries, all expressed in ground.
//
// Ground is +Y up. Generalized coordinates are laid out body by body in the
// order bodies were added; a free joint contributes six (rotation vector,
// then translation) and its speeds are the ground-frame angular velocity
// followed by the ground-frame origin velocity.
package body

import (
	"fmt"

	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// StandardGravity is the default gravitational acceleration magnitude.
const StandardGravity = 9.80665

// Ground is the parent name for bodies attached to the ground frame.
const Ground = "ground"

type JointType int

const (
	Weld JointType = iota
	Pin
	Free
)

func (j JointType) Dofs() int {
	switch j {
	case Pin:
		return 1
	case Free:
		return 6
	default:
		return 0
	}
}

func (j JointType) String() string {
	switch j {
	case Weld:
		return "weld"
	case Pin:
		return "pin"
	case Free:
		return "free"
	default:
		return fmt.Sprintf("joint(%d)", int(j))
	}
}

// Joint connects a body to its parent. Offset is the joint location in the
// parent frame and Axis the pin axis, also in the parent frame. The child
// body's origin sits at the joint.
type Joint struct {
	Type   JointType
	Name   string
	Offset r3.Vec
	Axis   r3.Vec
}

type Body struct {
	Name   string
	Parent string
	Joint  Joint
	Mass   spatial.MassProperties
}

type node struct {
	Body
	parent int
	qIndex int
}

// Model is not safe for concurrent use: SetState and RealizeDynamics mutate
// the cached kinematics shared by every query.
type Model struct {
	name    string
	gravity r3.Vec
	nodes   []node
	index   map[string]int
	nq      int
	coords  []string

	q, u       []float64
	transforms []spatial.Transform
	velocities []spatial.Vec
	realized   bool
}

func NewModel(name string) *Model {
	return &Model{
		name:    name,
		gravity: r3.Vec{Y: -StandardGravity},
		index:   make(map[string]int),
	}
}

func (m *Model) Name() string { return m.name }

func (m *Model) SetGravity(g r3.Vec) { m.gravity = g }

func (m *Model) Gravity() r3.Vec { return m.gravity }

// AddBody appends a body. Parents must be added before their children and a
// free joint may only attach to ground.
func (m *Model) AddBody(b Body) error {
	if b.Name == "" || b.Name == Ground {
		return fmt.Errorf("%w: invalid body name %q", ErrInvalidTopology, b.Name)
	}
	if _, dup := m.index[b.Name]; dup {
		return fmt.Errorf("%w: duplicate body %q", ErrInvalidTopology, b.Name)
	}

	parent := -1
	if b.Parent != Ground && b.Parent != "" {
		idx, ok := m.index[b.Parent]
		if !ok {
			return fmt.Errorf("%w: parent %q of %q not found", ErrInvalidTopology, b.Parent, b.Name)
		}
		parent = idx
	}
	if b.Joint.Type == Free && parent != -1 {
		return fmt.Errorf("%w: free joint of %q must attach to ground", ErrInvalidTopology, b.Name)
	}
	if b.Joint.Type == Pin && spatial.IsZero(b.Joint.Axis) {
		return fmt.Errorf("%w: pin joint of %q has no axis", ErrInvalidTopology, b.Name)
	}
	if b.Joint.Type == Pin {
		b.Joint.Axis = r3.Unit(b.Joint.Axis)
	}
	if b.Mass.Inertia == nil {
		b.Mass.Inertia = r3.NewMat(nil)
	}

	m.index[b.Name] = len(m.nodes)
	m.nodes = append(m.nodes, node{Body: b, parent: parent, qIndex: m.nq})
	m.coords = append(m.coords, coordinateNames(b)...)
	m.nq += b.Joint.Type.Dofs()
	m.realized = false
	return nil
}

func coordinateNames(b Body) []string {
	name := b.Joint.Name
	if name == "" {
		name = b.Name
	}
	switch b.Joint.Type {
	case Pin:
		return []string{name}
	case Free:
		return []string{
			name + "_rx", name + "_ry", name + "_rz",
			name + "_tx", name + "_ty", name + "_tz",
		}
	default:
		return nil
	}
}

func (m *Model) NumBodies() int { return len(m.nodes) }

// NumCoordinates is the length of q, qDot and qDDot.
func (m *Model) NumCoordinates() int { return m.nq }

func (m *Model) CoordinateNames() []string {
	out := make([]string, len(m.coords))
	copy(out, m.coords)
	return out
}

func (m *Model) BodyNames() []string {
	out := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Name
	}
	return out
}

func (m *Model) BodyIndex(name string) (int, error) {
	idx, ok := m.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return idx, nil
}

func (m *Model) MassProperties(idx int) spatial.MassProperties {
	return m.nodes[idx].Mass
}

func (m *Model) TotalMass() float64 {
	total := 0.0
	for _, n := range m.nodes {
		total += n.Mass.Mass
	}
	return total
}

// Weight is the magnitude of the total gravitational force on the model.
func (m *Model) Weight() float64 {
	return m.TotalMass() * r3.Norm(m.gravity)
}
