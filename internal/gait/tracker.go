package gait

// Tracker turns per-frame foot-contact flags into the gait-phase state of
// [Source]. It becomes ready once one double-support and one single-support
// interval have been measured between detected events.
//
// Tracker is not safe for concurrent use.
type Tracker struct {
	started     bool
	right, left bool

	phase   Phase
	leading Leg

	heelStrike, toeOff float64
	sawHeelStrike      bool
	sawToeOff          bool

	tds, tss       float64
	haveDS, haveSS bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Update advances the tracker to time t with the current contact flags.
// Times must be non-decreasing.
func (tr *Tracker) Update(t float64, right, left bool) {
	next := PhaseFromContacts(right, left)
	if !tr.started {
		tr.started = true
		tr.right, tr.left = right, left
		tr.phase = next
		return
	}

	prev := tr.phase

	if right && !tr.right {
		tr.heelStrikeAt(t, Right, prev)
	}
	if left && !tr.left {
		tr.heelStrikeAt(t, Left, prev)
	}
	if !right && tr.right {
		tr.toeOffAt(t, prev)
	}
	if !left && tr.left {
		tr.toeOffAt(t, prev)
	}

	tr.right, tr.left = right, left
	tr.phase = next
}

func (tr *Tracker) heelStrikeAt(t float64, leg Leg, prev Phase) {
	if (prev == LeftSwing || prev == RightSwing) && tr.sawToeOff {
		tr.tss = t - tr.toeOff
		tr.haveSS = true
	}
	tr.heelStrike = t
	tr.sawHeelStrike = true
	tr.leading = leg
}

func (tr *Tracker) toeOffAt(t float64, prev Phase) {
	if prev == DoubleSupport && tr.sawHeelStrike {
		tr.tds = t - tr.heelStrike
		tr.haveDS = true
	}
	tr.toeOff = t
	tr.sawToeOff = true
}

// Reset forgets all history.
func (tr *Tracker) Reset() {
	*tr = Tracker{}
}

func (tr *Tracker) Ready() bool                    { return tr.haveDS && tr.haveSS }
func (tr *Tracker) Phase() Phase                   { return tr.phase }
func (tr *Tracker) LeadingLeg() Leg                { return tr.leading }
func (tr *Tracker) HeelStrikeTime() float64        { return tr.heelStrike }
func (tr *Tracker) ToeOffTime() float64            { return tr.toeOff }
func (tr *Tracker) DoubleSupportDuration() float64 { return tr.tds }
func (tr *Tracker) SingleSupportDuration() float64 { return tr.tss }
