// Package gait describes the gait-phase state consumed by the reaction
// estimator and provides adapters that supply it.
//
// Phase classification from raw sensor data is not done here. [Tracker]
// only keeps the event bookkeeping (heel strike, toe off, interval durations)
// for foot-contact flags produced by an external contact detector.
package gait

import "fmt"

type Phase int

const (
	Invalid Phase = iota
	DoubleSupport
	LeftSwing
	RightSwing
)

func (p Phase) String() string {
	switch p {
	case DoubleSupport:
		return "double_support"
	case LeftSwing:
		return "left_swing"
	case RightSwing:
		return "right_swing"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Leg identifies the leading leg during double support.
type Leg int

const (
	InvalidLeg Leg = iota
	Right
	Left
)

func (l Leg) String() string {
	switch l {
	case Right:
		return "right"
	case Left:
		return "left"
	case InvalidLeg:
		return "invalid"
	default:
		return fmt.Sprintf("leg(%d)", int(l))
	}
}

// Source is the gait-phase state a reaction estimator reads every frame.
type Source interface {
	Ready() bool
	Phase() Phase
	LeadingLeg() Leg
	HeelStrikeTime() float64
	ToeOffTime() float64
	DoubleSupportDuration() float64
	SingleSupportDuration() float64
}

// Static is a Source with fixed values.
type Static struct {
	IsReady    bool
	Current    Phase
	Leading    Leg
	HeelStrike float64
	ToeOff     float64
	Tds        float64
	Tss        float64
}

func (s *Static) Ready() bool                    { return s.IsReady }
func (s *Static) Phase() Phase                   { return s.Current }
func (s *Static) LeadingLeg() Leg                { return s.Leading }
func (s *Static) HeelStrikeTime() float64        { return s.HeelStrike }
func (s *Static) ToeOffTime() float64            { return s.ToeOff }
func (s *Static) DoubleSupportDuration() float64 { return s.Tds }
func (s *Static) SingleSupportDuration() float64 { return s.Tss }

// PhaseFromContacts maps a pair of foot-contact flags to a phase.
func PhaseFromContacts(right, left bool) Phase {
	switch {
	case right && left:
		return DoubleSupport
	case right:
		return LeftSwing
	case left:
		return RightSwing
	default:
		return Invalid
	}
}
