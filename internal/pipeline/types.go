package pipeline

import (
	"errors"
	"fmt"

	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/trial"
)

var (
	// ErrCanceled indicates a run interrupted by its context.
	ErrCanceled = errors.New("pipeline: run canceled by context")

	// ErrNoTrials indicates a batch started with nothing to process.
	ErrNoTrials = errors.New("pipeline: no trials")
)

// FrameError wraps an estimator error with the frame it occurred on.
type FrameError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%g): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

type Metric interface {
	Name() string
	Observe(out grfm.Output)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f trial.Frame, out grfm.Output)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f trial.Frame, out grfm.Output)

func (fn ObserverFunc) OnFrame(f trial.Frame, out grfm.Output) { fn(f, out) }

type Result struct {
	Trial   string
	Outputs []grfm.Output
	Metrics map[string]float64

	// ReadyAt is the time of the first frame solved with a ready gait
	// tracker, or -1 if the tracker never became ready.
	ReadyAt float64

	// Skipped holds the frames rejected by the model when skipping is on.
	Skipped []error
}

// Times returns the output timestamps.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Outputs))
	for i, o := range r.Outputs {
		out[i] = o.T
	}
	return out
}
