package worker

import (
	"errors"
	"sync"
)

// WorkerPool runs a fixed set of workers concurrently, tracking their
// completion through an internal WaitGroup. Workers are expected to
// finish on their own once their shared work source is exhausted.
type WorkerPool struct {
	workers []Worker
	wg      sync.WaitGroup
	started bool
}

// NewWorkerPool creates a new WorkerPool struct
// and initialises the 'workers' slice.
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{workers: make([]Worker, 0)}
}

// Start cycles through all the workers currently inside the WorkerPool
// and creates a goroutine for each. Start does NOT block; use Wait to
// block until every worker has finished.
func (pool *WorkerPool) Start() error {
	if pool.started {
		return errors.New("cannot start an already started worker pool")
	}

	pool.started = true
	for _, worker := range pool.workers {
		pool.wg.Add(1)
		go func(wg *sync.WaitGroup, w Worker) {
			defer wg.Done()
			w.Start()
		}(&pool.wg, worker)
	}

	return nil
}

// PushWorker inserts the provided workers in to the pool. Workers can
// only be pushed before the pool is started.
func (pool *WorkerPool) PushWorker(workers ...Worker) error {
	if pool.started {
		return errors.New("cannot push worker to already started worker pool")
	}

	pool.workers = append(pool.workers, workers...)
	return nil
}

// Wait blocks until every worker in a started pool has finished.
func (pool *WorkerPool) Wait() {
	if !pool.started {
		return
	}

	pool.wg.Wait()
}
