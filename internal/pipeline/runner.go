package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/trial"
)

type Runner struct {
	engine      *grfm.Engine
	tracker     *gait.Tracker
	metrics     []Metric
	observers   []Observer
	skipInvalid bool
	logger      *slog.Logger
}

type RunnerOption func(*Runner)

// WithSkipInvalid keeps going past frames the model rejects. Each such frame
// yields a zero output and is recorded in Result.Skipped.
func WithSkipInvalid() RunnerOption {
	return func(r *Runner) { r.skipInvalid = true }
}

func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a tracker and an engine for model.
func New(model grfm.Model, params grfm.Parameters, engineOpts []grfm.Option, opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		tracker:   gait.NewTracker(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	engineOpts = append([]grfm.Option{grfm.WithLogger(r.logger)}, engineOpts...)
	engine, err := grfm.New(model, params, r.tracker, engineOpts...)
	if err != nil {
		return nil, err
	}
	r.engine = engine
	return r, nil
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Engine() *grfm.Engine   { return r.engine }
func (r *Runner) Tracker() *gait.Tracker { return r.tracker }

// reset prepares the runner for a new trial.
func (r *Runner) reset() {
	r.tracker.Reset()
	r.engine.Reset()
	for _, m := range r.metrics {
		m.Reset()
	}
}

// step advances the tracker and solves one frame.
func (r *Runner) step(i int, f trial.Frame) (grfm.Output, error) {
	r.tracker.Update(f.T, f.RightContact, f.LeftContact)
	out, err := r.engine.Solve(f.Input())
	if err != nil {
		return grfm.Output{T: f.T}, &FrameError{Frame: i, Time: f.T, Wrapped: err}
	}
	return out, nil
}

// Run processes every frame of tr in order. On cancellation the partial
// result is returned with an error wrapping ErrCanceled.
func (r *Runner) Run(ctx context.Context, tr *trial.Trial) (*Result, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	r.reset()

	result := &Result{
		Trial:   tr.Name,
		Outputs: make([]grfm.Output, 0, len(tr.Frames)),
		Metrics: make(map[string]float64),
		ReadyAt: -1,
	}

	for i, f := range tr.Frames {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		default:
		}

		out, err := r.step(i, f)
		if err != nil {
			if !r.skipInvalid {
				return result, err
			}
			r.logger.Warn("skipping frame", "trial", tr.Name, "frame", i, "t", f.T, "err", err)
			result.Skipped = append(result.Skipped, err)
		}
		if result.ReadyAt < 0 && r.tracker.Ready() {
			result.ReadyAt = f.T
		}

		for _, m := range r.metrics {
			m.Observe(out)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f, out)
		}
		result.Outputs = append(result.Outputs, out)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r.logger.Debug("trial processed", "trial", tr.Name, "frames", len(tr.Frames), "ready_at", result.ReadyAt)
	return result, nil
}

// Stream processes frames one at a time, handing each output to callback
// until it returns false. Metrics are not collected.
func (r *Runner) Stream(ctx context.Context, tr *trial.Trial, callback func(trial.Frame, grfm.Output) bool) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	r.reset()

	for i, f := range tr.Frames {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		default:
		}

		out, err := r.step(i, f)
		if err != nil && !r.skipInvalid {
			return err
		}
		if !callback(f, out) {
			return nil
		}
	}
	return nil
}
