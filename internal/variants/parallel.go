package variants

import (
	"runtime"
	"sync"
)

// runWork is one run queued for label generation.
type runWork struct {
	Seq int
	Run *Run
}

// runResult reports the outcome of labeling one run.
type runResult struct {
	Seq int
	Err error
}

// labelRuns generates labels for each run using a pool of workers.
// Per-run labeling is independent; only the aggregation that follows
// needs all results. If workers is 0, runtime.NumCPU() is used.
func labelRuns(runs []*Run, g *Labeler, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(runs) {
		workers = len(runs)
	}
	if workers <= 1 {
		for _, r := range runs {
			if err := r.generateLabels(g); err != nil {
				return err
			}
		}
		return nil
	}

	items := make(chan runWork, len(runs))
	results := make(chan runResult, len(runs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- runResult{Seq: item.Seq, Err: item.Run.generateLabels(g)}
			}
		}()
	}

	for i, r := range runs {
		items <- runWork{Seq: i, Run: r}
	}
	close(items)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Report the error from the earliest run so failures are stable
	// across schedules.
	var firstErr error
	firstSeq := len(runs)
	for res := range results {
		if res.Err != nil && res.Seq < firstSeq {
			firstErr = res.Err
			firstSeq = res.Seq
		}
	}
	return firstErr
}
