package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/grfm/internal/trial"
)

// Factory builds a fresh runner. It is called once per trial.
type Factory func() (*Runner, error)

type Batch struct {
	factory Factory
	workers int
}

// NewBatch runs at most workers trials at once; zero or less means one per
// CPU.
func NewBatch(factory Factory, workers int) *Batch {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Batch{factory: factory, workers: workers}
}

// Run processes trials in parallel. Results keep the order of trials. The
// first error by trial order is returned.
func (b *Batch) Run(ctx context.Context, trials []*trial.Trial) ([]*Result, error) {
	if len(trials) == 0 {
		return nil, ErrNoTrials
	}

	results := make([]*Result, len(trials))
	errs := make([]error, len(trials))
	sem := make(chan struct{}, b.workers)

	var wg sync.WaitGroup
	for i := range trials {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
				return
			}
			defer func() { <-sem }()

			runner, err := b.factory()
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = runner.Run(ctx, trials[idx])
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("trial %d (%s): %w", i, trials[i].Name, err)
		}
	}

	return results, nil
}
