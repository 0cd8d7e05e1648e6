package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ninjabillcos/pathways"
)

// Func evaluates one pathway and produces a result of type T.
type Func[T any] func(ctx context.Context, p *pathways.Pathway) (T, error)

// JobResult is the outcome of one pathway evaluation job.
type JobResult[T any] struct {
	// PathwayName identifies the pathway the job evaluated.
	PathwayName string

	// Value is the evaluation result when Err is nil.
	Value T

	// Err is the evaluation failure, if any.
	Err error

	// Duration is the time the evaluation took.
	Duration time.Duration
}

// Pool manages a pool of worker goroutines evaluating pathways in
// parallel.
type Pool[T any] struct {
	workers    int
	fn         Func[T]
	jobsChan   chan *pathways.Pathway
	resultChan chan JobResult[T]
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	// Metrics
	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool creates a new worker pool with the specified number of workers.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewPool[T any](fn Func[T], workers int) *Pool[T] {
	return NewPoolSize(fn, workers, 0)
}

// NewPoolSize creates a pool whose job and result queues each hold up to
// queue entries. A queue at least as large as the batch being submitted
// lets a caller submit every job before draining a single result; a
// smaller queue makes Submit block once workers outpace the collector.
// If queue <= 0, it defaults to twice the worker count.
func NewPoolSize[T any](fn Func[T], workers, queue int) *Pool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queue <= 0 {
		queue = workers * 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool[T]{
		workers:    workers,
		fn:         fn,
		jobsChan:   make(chan *pathways.Pathway, queue),
		resultChan: make(chan JobResult[T], queue),
		ctx:        ctx,
		cancel:     cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit submits a pathway to the pool for evaluation.
// This method blocks if the job queue is full.
func (p *Pool[T]) Submit(pathway *pathways.Pathway) bool {
	if p.closed.Load() || pathway == nil {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- pathway:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// Results returns the channel for receiving job results.
func (p *Pool[T]) Results() <-chan JobResult[T] {
	return p.resultChan
}

// Close shuts down the pool, discarding pending results, and waits for
// all workers to finish.
func (p *Pool[T]) Close() {
	if p.closed.Swap(true) {
		return
	}

	p.cancel()
	close(p.jobsChan)

	// Drain results in background to prevent worker deadlock.
	done := make(chan struct{})
	go func() {
		for range p.resultChan {
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait stops accepting jobs, lets queued jobs finish and collects
// every result.
func (p *Pool[T]) CloseAndWait() []JobResult[T] {
	if p.closed.Swap(true) {
		return nil
	}

	close(p.jobsChan)

	go func() {
		p.wg.Wait()
		close(p.resultChan)
	}()

	results := make([]JobResult[T], 0, p.jobsSubmitted.Load())
	for result := range p.resultChan {
		results = append(results, result)
	}

	p.cancel()
	return results
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	AvgDuration   time.Duration
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		AvgDuration:   p.averageDuration(),
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for pathway := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.evaluate(pathway)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(result.Duration.Nanoseconds()))

		select {
		case <-p.ctx.Done():
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool[T]) evaluate(pathway *pathways.Pathway) JobResult[T] {
	start := time.Now()

	value, err := p.fn(p.ctx, pathway)

	return JobResult[T]{
		PathwayName: pathway.Name,
		Value:       value,
		Err:         err,
		Duration:    time.Since(start),
	}
}

func (p *Pool[T]) averageDuration() time.Duration {
	completed := p.jobsCompleted.Load()
	if completed == 0 {
		return 0
	}
	return time.Duration(p.totalDuration.Load() / completed)
}
