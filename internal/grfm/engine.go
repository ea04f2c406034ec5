package grfm

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Parameters fix the engine's method and foot geometry. Station offsets are
// given in the frame of their station body.
type Parameters struct {
	Method string

	RightStationBody string
	LeftStationBody  string
	RightHeel        r3.Vec
	LeftHeel         r3.Vec
	RightToe         r3.Vec
	LeftToe          r3.Vec

	PelvisBody          string
	DirectionWindowSize int
}

// Input is one frame of kinematics. The slices are not retained.
type Input struct {
	T     float64
	Q     []float64
	QDot  []float64
	QDDot []float64
}

// Reaction is the load on one foot: force, moment and point of application.
type Reaction struct {
	Force  r3.Vec
	Torque r3.Vec
	Point  r3.Vec
}

// IsZero reports whether the foot carries no load.
func (r Reaction) IsZero() bool {
	return spatial.IsZero(r.Force) && spatial.IsZero(r.Torque) && spatial.IsZero(r.Point)
}

// Output is the per-frame result for both feet.
type Output struct {
	T     float64
	Right Reaction
	Left  Reaction
}

// TotalForce is the sum of both feet's forces.
func (o Output) TotalForce() r3.Vec {
	return r3.Add(o.Right.Force, o.Left.Force)
}

type station struct {
	body   int
	offset r3.Vec
}

// Engine turns kinematic frames into per-foot reactions.
//
// An Engine is not safe for concurrent use. It mutates its running state and
// the state of its model on every Solve.
type Engine struct {
	model  Model
	source gait.Source
	method Method
	params Parameters

	pelvis                  int
	rightHeel, rightToe     station
	leftHeel, leftToe       station
	direction               *DirectionEstimator
	forceSplit, momentSplit Splitter

	forceAtHS, momentAtHS r3.Vec
	tds, tss              float64
	lastLeading           gait.Leg

	logger *slog.Logger
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSplitter replaces the transition shapes used for both force and moment.
func WithSplitter(s Splitter) Option {
	return func(e *Engine) {
		e.forceSplit = s
		e.momentSplit = s
	}
}

// WithMomentSplitter replaces only the moment transition shapes.
func WithMomentSplitter(s Splitter) Option {
	return func(e *Engine) {
		e.momentSplit = s
	}
}

// New validates params against model and resolves the stations. An unknown
// method or body name yields a *ConfigurationError.
func New(model Model, params Parameters, source gait.Source, opts ...Option) (*Engine, error) {
	if model == nil || source == nil {
		return nil, ErrNilDependency
	}

	method, err := ParseMethod(params.Method)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		model:       model,
		source:      source,
		method:      method,
		params:      params,
		direction:   NewDirectionEstimator(params.DirectionWindowSize),
		forceSplit:  DefaultSplitter(),
		momentSplit: DefaultSplitter(),
		logger:      slog.Default(),
	}

	lookup := func(field, name string) (int, error) {
		idx, err := model.BodyIndex(name)
		if err != nil {
			return 0, &ConfigurationError{Field: field, Value: name, Wrapped: ErrUnknownBody}
		}
		return idx, nil
	}

	if e.pelvis, err = lookup("pelvis body", params.PelvisBody); err != nil {
		return nil, err
	}
	right, err := lookup("right station body", params.RightStationBody)
	if err != nil {
		return nil, err
	}
	left, err := lookup("left station body", params.LeftStationBody)
	if err != nil {
		return nil, err
	}
	e.rightHeel = station{right, params.RightHeel}
	e.rightToe = station{right, params.RightToe}
	e.leftHeel = station{left, params.LeftHeel}
	e.leftToe = station{left, params.LeftToe}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Method() Method { return e.method }

func (e *Engine) Parameters() Parameters { return e.params }

// HeelStrikeSnapshot returns the total force and moment captured at the last
// heel strike, in the gait frame.
func (e *Engine) HeelStrikeSnapshot() (force, moment r3.Vec) {
	return e.forceAtHS, e.momentAtHS
}

// Durations returns the double- and single-support durations used by the
// last solved frame.
func (e *Engine) Durations() (tds, tss float64) {
	return e.tds, e.tss
}

// Reset clears the running state. Parameters and stations are kept.
func (e *Engine) Reset() {
	e.direction.Reset()
	e.forceAtHS, e.momentAtHS = r3.Vec{}, r3.Vec{}
	e.tds, e.tss = 0, 0
	e.lastLeading = gait.InvalidLeg
}

// Solve processes one frame. While the gait source is not ready the output is
// all zeros and the model is left untouched. Errors come only from the model
// rejecting the input.
func (e *Engine) Solve(in Input) (Output, error) {
	out := Output{T: in.T}
	if !e.source.Ready() {
		return out, nil
	}

	if err := e.model.SetState(in.Q, in.QDot); err != nil {
		return out, fmt.Errorf("set state at t=%g: %w", in.T, err)
	}
	if err := e.model.RealizeDynamics(); err != nil {
		return out, fmt.Errorf("realize at t=%g: %w", in.T, err)
	}

	rot := e.direction.Update(e.headingAxis())

	force, moment, err := totalReaction(e.model, e.method, in.QDDot, e.pelvis)
	if err != nil {
		return out, fmt.Errorf("total reaction at t=%g: %w", in.T, err)
	}
	force, moment = rot.Rotate(force), rot.Rotate(moment)

	sinceHS := in.T - e.source.HeelStrikeTime()
	if sinceHS == 0 {
		e.forceAtHS, e.momentAtHS = force, moment
	}

	e.tds = e.source.DoubleSupportDuration()
	phase := e.source.Phase()
	leading := e.leadingLeg(phase, in.T)

	out.Right.Force, out.Left.Force, _ = e.forceSplit.Split(phase, leading, force, e.forceAtHS, sinceHS, e.tds)
	out.Right.Torque, out.Left.Torque, _ = e.momentSplit.Split(phase, leading, moment, e.momentAtHS, sinceHS, e.tds)

	e.tss = e.source.SingleSupportDuration()
	sinceTO := in.T - e.source.ToeOffTime()
	out.Right.Point, out.Left.Point, _ = PlaceCoP(phase, leading, e.stations(), sinceTO, e.tss)

	return out, nil
}

// headingAxis is the ground X axis seen from the pelvis frame.
func (e *Engine) headingAxis() r3.Vec {
	R := e.model.BodyTransform(e.pelvis).R
	return spatial.Column(spatial.Transpose(R), 0)
}

// leadingLeg returns the source's leading leg, or in double support with an
// invalid report, the last valid one seen.
func (e *Engine) leadingLeg(phase gait.Phase, t float64) gait.Leg {
	leg := e.source.LeadingLeg()
	if leg == gait.Right || leg == gait.Left {
		e.lastLeading = leg
		return leg
	}
	if phase != gait.DoubleSupport {
		return leg
	}
	e.logger.Warn("invalid leading leg in double support",
		"t", t, "reported", leg.String(), "using", e.lastLeading.String())
	return e.lastLeading
}

func (e *Engine) stations() Stations {
	at := func(s station) r3.Vec { return e.model.StationLocation(s.body, s.offset) }
	return Stations{
		RightHeel: at(e.rightHeel),
		RightToe:  at(e.rightToe),
		LeftHeel:  at(e.leftHeel),
		LeftToe:   at(e.leftToe),
	}
}
