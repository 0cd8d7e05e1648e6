package worker

import (
	"context"
	"runtime"
	"time"

	"github.com/Ninjabillcos/pathways"
)

// Batch evaluates a fixed set of candidate pathways and collects one
// result per pathway. Unlike Pool, it owns the full job list up front,
// so the whole set can be queued before a single result is drained and
// results come back in the candidates' input order.
type Batch[T any] struct {
	fn      Func[T]
	workers int
}

// NewBatch creates a batch evaluator. If workers <= 0, it defaults to
// runtime.NumCPU().
func NewBatch[T any](fn Func[T], workers int) *Batch[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Batch[T]{fn: fn, workers: workers}
}

// Evaluate runs every candidate and returns the results in input order.
// Candidates left unevaluated when ctx is cancelled carry the context
// error as their result.
func (b *Batch[T]) Evaluate(ctx context.Context, candidates []*pathways.Pathway) []JobResult[T] {
	if len(candidates) == 0 {
		return nil
	}

	// Parallelism is not worth the goroutines for a couple of pathways.
	if len(candidates) <= 2 {
		return b.evaluateSequential(ctx, candidates)
	}

	return b.evaluateParallel(ctx, candidates)
}

func (b *Batch[T]) evaluateSequential(ctx context.Context, candidates []*pathways.Pathway) []JobResult[T] {
	results := make([]JobResult[T], 0, len(candidates))

	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			results = append(results, JobResult[T]{PathwayName: p.Name, Err: err})
			continue
		}

		start := time.Now()
		value, err := b.fn(ctx, p)
		results = append(results, JobResult[T]{
			PathwayName: p.Name,
			Value:       value,
			Err:         err,
			Duration:    time.Since(start),
		})
	}

	return results
}

func (b *Batch[T]) evaluateParallel(ctx context.Context, candidates []*pathways.Pathway) []JobResult[T] {
	workers := b.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	// The queue holds the whole batch, so the submit loop below never
	// blocks against the collector in CloseAndWait.
	pool := NewPoolSize(func(_ context.Context, p *pathways.Pathway) (T, error) {
		return b.fn(ctx, p)
	}, workers, len(candidates))

	for _, p := range candidates {
		pool.Submit(p)
	}

	byName := make(map[string]JobResult[T], len(candidates))
	for _, r := range pool.CloseAndWait() {
		byName[r.PathwayName] = r
	}

	results := make([]JobResult[T], 0, len(candidates))
	for _, p := range candidates {
		if r, ok := byName[p.Name]; ok {
			results = append(results, r)
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, JobResult[T]{PathwayName: p.Name, Err: err})
		}
	}
	return results
}
