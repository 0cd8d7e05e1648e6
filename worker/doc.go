// Package worker provides a worker pool for evaluating multiple pathways
// against the same patient concurrently.
//
// Ranking a patient against every loaded pathway issues one independent
// evaluation per pathway; the pool fans those out and joins the results.
// No ordering is guaranteed between evaluations, since each operates on
// the shared read-only patient record set.
//
// For a fixed candidate set, Batch queues the whole set up front and
// returns the results in input order:
//
//	batch := worker.NewBatch(func(ctx context.Context, p *pathways.Pathway) (*engine.Evaluation, error) {
//	    return eng.Evaluate(ctx, p)
//	}, 4)
//
//	for _, r := range batch.Evaluate(ctx, candidates) {
//	    // r.PathwayName, r.Value, r.Err
//	}
//
// Pool is the streaming form. Its queues are bounded, so Submit blocks
// once they fill; a caller submitting an entire batch before collecting
// must size the queues for it with NewPoolSize, or use Batch.
package worker
