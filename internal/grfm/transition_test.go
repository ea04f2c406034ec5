package grfm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTransitionsStayInUnitInterval(t *testing.T) {
	durations := []float64{-1, 0, 1e-300, 1e-9, 0.05, 0.12, 0.4, 1, 10}
	times := []float64{-0.5, 0, 1e-12, 0.01, 0.1, 0.3, 1, 5, 1e9, math.NaN(), math.Inf(1)}

	for _, d := range durations {
		for _, tt := range times {
			if v := ReactionTransition(tt, d); !(v >= 0 && v <= 1) {
				t.Errorf("ReactionTransition(%g, %g) = %g, outside [0, 1]", tt, d, v)
			}
			if v := CoPScale(tt, d); !(v >= 0 && v <= 1) {
				t.Errorf("CoPScale(%g, %g) = %g, outside [0, 1]", tt, d, v)
			}
		}
	}
}

func TestReactionTransitionShape(t *testing.T) {
	const tds = 0.2

	if v := ReactionTransition(0, tds); v != 1 {
		t.Errorf("expected 1 at heel strike, got %g", v)
	}
	if v := ReactionTransition(tds/2, tds); math.Abs(v-math.Exp(-1)) > 1e-15 {
		t.Errorf("expected exp(-1) at half the interval, got %g", v)
	}
	if v := ReactionTransition(tds, tds); math.Abs(v-math.Exp(-8)) > 1e-15 {
		t.Errorf("expected exp(-8) at the end of the interval, got %g", v)
	}
	if v := ReactionTransition(-tds, tds); v != 1 {
		t.Errorf("expected clip to 1 before heel strike, got %g", v)
	}
}

func TestCoPScaleRollsFromHeelToToe(t *testing.T) {
	const tss = 0.4

	if v := CoPScale(0, tss); v != 0 {
		t.Errorf("expected 0 at toe off, got %g", v)
	}
	if v := CoPScale(tss, tss); math.Abs(v-1) > 1e-12 {
		t.Errorf("expected 1 at the end of single support, got %g", v)
	}
	if v := CoPScale(tss/2, tss); math.Abs(v-0.5) > 1e-12 {
		t.Errorf("expected 0.5 at mid single support, got %g", v)
	}
	if v := CoPScale(3*tss, tss); v != 1 {
		t.Errorf("expected saturation at 1, got %g", v)
	}

	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := CoPScale(tss*float64(i)/100, tss)
		if v < prev {
			t.Fatalf("CoPScale decreased at step %d: %g < %g", i, v, prev)
		}
		prev = v
	}
}

func TestZeroDurations(t *testing.T) {
	if ReactionTransition(0, 0) != 1 || ReactionTransition(0.1, 0) != 0 {
		t.Error("zero tds should act as an instantaneous transfer")
	}
	if CoPScale(0, 0) != 0 || CoPScale(0.1, 0) != 1 {
		t.Error("zero tss should act as an instantaneous roll-over")
	}
}

func TestCoPOffset(t *testing.T) {
	d := r3.Vec{X: 0.2, Y: 0, Z: 0.01}
	if got := CoPOffset(0, 0.4, d); got != (r3.Vec{}) {
		t.Errorf("expected zero offset at toe off, got %v", got)
	}
	if got := CoPOffset(1, 0.4, d); got != d {
		t.Errorf("expected full offset after single support, got %v", got)
	}
}
