package pipeline

import (
	"context"
	"sync"
)

// forEach runs fn(i) for i in [0,n) through a bounded worker pool. Failures
// inside fn never cancel siblings; the run-level context only stops new
// work from being scheduled.
func forEach(ctx context.Context, n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}

	wg.Wait()
}
