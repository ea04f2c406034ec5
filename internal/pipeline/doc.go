// Package pipeline drives reaction estimation over whole trials.
//
//   - [Runner]: one trial, frame by frame: contact flags feed a gait
//     [gait.Tracker], kinematics feed a [grfm.Engine], and every output is
//     passed to metrics and observers
//   - [Batch]: many trials in parallel, each with its own runner
//
// # Example
//
//	runner, _ := pipeline.New(model, params, nil)
//	runner.AddMetric(metrics.NewPeakVerticalForce(gait.Right))
//	result, err := runner.Run(ctx, tr)
//
// # Thread Safety
//
// A Runner owns an engine, a tracker and a model and is NOT thread-safe.
// [Batch] builds one runner per trial from a factory.
package pipeline
