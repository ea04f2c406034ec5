// Package analysis extracts gait timing from estimated reactions.
//
//   - [PowerSpectrum]: one-sided power spectrum of a uniformly sampled signal
//   - [DominantFrequency]: strongest non-DC component of a signal
//   - [Cadence]: step rate of a trial from its total vertical force
//   - [Stances]: loaded intervals of one foot
//
// # Cadence
//
// The total vertical force repeats once per step, so its dominant frequency
// is the step frequency:
//
//	c, err := analysis.Cadence(result.Times(), metrics.TotalVerticalForces(result.Outputs))
//	fmt.Printf("%.1f steps/min\n", c.StepsPerMinute)
package analysis
