// Package trial holds recorded or synthesized walking trials: per-frame
// generalized coordinates with their rates, plus foot-contact flags from an
// external contact detector.
package trial

import (
	"errors"
	"fmt"

	"github.com/san-kum/grfm/internal/grfm"
)

var (
	ErrEmptyTrial     = errors.New("trial: no frames")
	ErrInconsistent   = errors.New("trial: inconsistent frame dimensions")
	ErrNonMonotonic   = errors.New("trial: time is not increasing")
	ErrMissingColumns = errors.New("trial: missing columns")
)

type Frame struct {
	T            float64
	Q            []float64
	QDot         []float64
	QDDot        []float64
	RightContact bool
	LeftContact  bool
}

// Input returns the kinematic part of the frame for the estimator.
func (f Frame) Input() grfm.Input {
	return grfm.Input{T: f.T, Q: f.Q, QDot: f.QDot, QDDot: f.QDDot}
}

type Trial struct {
	Name        string
	Coordinates []string
	Frames      []Frame
}

func (tr *Trial) Len() int { return len(tr.Frames) }

func (tr *Trial) Duration() float64 {
	if len(tr.Frames) < 2 {
		return 0
	}
	return tr.Frames[len(tr.Frames)-1].T - tr.Frames[0].T
}

// SampleRate is the mean frame rate in Hz.
func (tr *Trial) SampleRate() float64 {
	d := tr.Duration()
	if d <= 0 {
		return 0
	}
	return float64(len(tr.Frames)-1) / d
}

func (tr *Trial) Times() []float64 {
	out := make([]float64, len(tr.Frames))
	for i, f := range tr.Frames {
		out[i] = f.T
	}
	return out
}

// Validate checks that every frame carries one value per coordinate and that
// time strictly increases.
func (tr *Trial) Validate() error {
	if len(tr.Frames) == 0 {
		return ErrEmptyTrial
	}
	n := len(tr.Coordinates)
	for i, f := range tr.Frames {
		if len(f.Q) != n || len(f.QDot) != n || len(f.QDDot) != n {
			return fmt.Errorf("%w: frame %d has %d/%d/%d values for %d coordinates",
				ErrInconsistent, i, len(f.Q), len(f.QDot), len(f.QDDot), n)
		}
		if i > 0 && !(f.T > tr.Frames[i-1].T) {
			return fmt.Errorf("%w: frame %d at t=%g", ErrNonMonotonic, i, f.T)
		}
	}
	return nil
}
