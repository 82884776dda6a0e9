// Package workers provides a bounded worker pool for independent computations.
package workers

import (
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel evaluation
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 4 // Default to 4 workers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// Size returns the configured worker count.
func (wp *WorkerPool) Size() int {
	return wp.numWorkers
}

// jobItem represents a single job
type jobItem[T any] struct {
	index int
	item  T
}

// resultItem represents the result of a job
type resultItem[R any] struct {
	index  int
	result R
}

// Map runs fn over items on the pool's workers.
//
// Results are returned in the same order as the input items. fn must not share
// mutable state between calls.
func Map[T, R any](wp *WorkerPool, items []T, fn func(T) R) []R {
	numItems := len(items)
	if numItems == 0 {
		return []R{}
	}

	jobs := make(chan jobItem[T], numItems)
	results := make(chan resultItem[R], numItems)

	var wg sync.WaitGroup
	numActualWorkers := wp.numWorkers
	if numItems < numActualWorkers {
		numActualWorkers = numItems // Don't spawn more workers than items
	}

	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- resultItem[R]{index: job.index, result: fn(job.item)}
			}
		}()
	}

	for idx, item := range items {
		jobs <- jobItem[T]{index: idx, item: item}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, numItems)
	for r := range results {
		out[r.index] = r.result
	}
	return out
}
