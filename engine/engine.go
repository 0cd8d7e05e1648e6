// Package engine orchestrates pathway evaluation: query extraction,
// external predicate evaluation, traversal and criteria matching, plus
// result caching and concurrent multi-pathway ranking.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/cache"
	"github.com/Ninjabillcos/pathways/criteria"
	"github.com/Ninjabillcos/pathways/extract"
	"github.com/Ninjabillcos/pathways/fhir"
	"github.com/Ninjabillcos/pathways/service"
	"github.com/Ninjabillcos/pathways/walker"
	"github.com/Ninjabillcos/pathways/worker"
)

// Engine errors.
var (
	// ErrNoEvaluator is returned when no predicate evaluator is configured.
	ErrNoEvaluator = errors.New("no predicate evaluator configured")

	// ErrNoLibrarySource is returned when no library source is configured.
	ErrNoLibrarySource = errors.New("no library source configured")

	// ErrNoPatientRecords is returned when evaluation is requested before
	// any patient records have been set.
	ErrNoPatientRecords = errors.New("no patient records set")

	// ErrStalePatientRecords is returned when the patient record set
	// changed while an evaluation was in flight. The stale result is
	// discarded, never applied; callers re-evaluate against the new
	// records when they still need the answer.
	ErrStalePatientRecords = errors.New("patient records changed during evaluation")
)

// Evaluation is the combined outcome of evaluating one pathway for one
// patient: the traversal result and the criteria match record.
type Evaluation struct {
	PathwayName string                   `json:"pathwayName"`
	Results     *pathways.PathwayResults `json:"results"`
	Criteria    *pathways.CriteriaResult `json:"criteria"`
}

// Engine coordinates pathway evaluation for one patient at a time.
// The traversal and matching cores stay pure; all shared state (patient
// records, caches) lives here, serialized behind the engine's lock.
type Engine struct {
	options *pathways.Options
	metrics *pathways.Metrics
	log     zerolog.Logger

	// Collaborators
	evaluator service.PredicateEvaluator
	libraries service.LibrarySource

	libraryCache *cache.Cache[string, string]

	// Patient state, guarded by mu. epoch counts record-set generations;
	// results computed against an older epoch are dropped, not applied.
	mu      sync.RWMutex
	records *fhir.Bundle
	epoch   uint64
	results *cache.Cache[string, *Evaluation]
}

// New creates a new Engine with the given options.
func New(_ context.Context, opts ...pathways.Option) (*Engine, error) {
	options := pathways.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Engine{
		options:      options,
		metrics:      pathways.NewMetrics(),
		log:          options.Logger,
		libraryCache: cache.New[string, string](options.LibraryCacheSize),
		results:      cache.New[string, *Evaluation](options.ResultCacheSize),
	}, nil
}

// SetEvaluator sets the external predicate evaluator.
func (e *Engine) SetEvaluator(evaluator service.PredicateEvaluator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evaluator = evaluator
}

// SetLibrarySource sets the shared query library source.
func (e *Engine) SetLibrarySource(source service.LibrarySource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.libraries = source
}

// SetPatientRecords replaces the patient record set, advances the record
// epoch and invalidates every cached evaluation.
func (e *Engine) SetPatientRecords(bundle *fhir.Bundle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = bundle
	e.epoch++
	e.results.Clear()
	e.log.Debug().Uint64("epoch", e.epoch).Int("resources", bundle.Len()).
		Msg("patient records updated")
}

// PatientRecords returns the current patient record set.
func (e *Engine) PatientRecords() *fhir.Bundle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.records
}

// Evaluate evaluates one pathway against the current patient records,
// serving repeated calls from the result cache until the records change.
func (e *Engine) Evaluate(ctx context.Context, p *pathways.Pathway) (*Evaluation, error) {
	e.mu.RLock()
	records := e.records
	epoch := e.epoch
	e.mu.RUnlock()

	if records == nil {
		return nil, ErrNoPatientRecords
	}

	if cached, ok := e.results.Get(p.Name); ok {
		e.metrics.RecordCacheHit()
		return cached, nil
	}
	e.metrics.RecordCacheMiss()

	start := time.Now()
	eval, err := e.EvaluateBundle(ctx, p, records)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		e.metrics.RecordStaleDrop()
		e.log.Debug().Str("pathway", p.Name).Msg("dropping stale evaluation")
		return nil, ErrStalePatientRecords
	}
	e.results.Set(p.Name, eval)
	e.mu.Unlock()

	terminal := eval.Results.NextRecommendation.Kind == pathways.RecommendationTerminal
	e.metrics.RecordEvaluation(time.Since(start), terminal)
	return eval, nil
}

// EvaluateBundle evaluates one pathway against an explicit record bundle,
// bypassing the engine's patient state and caches. The navigation and
// criteria queries are issued to the evaluator concurrently and joined.
func (e *Engine) EvaluateBundle(ctx context.Context, p *pathways.Pathway, bundle *fhir.Bundle) (*Evaluation, error) {
	if err := p.ValidateFrom(e.options.StartState); err != nil {
		return nil, err
	}

	e.mu.RLock()
	evaluator := e.evaluator
	e.mu.RUnlock()
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}

	library, err := e.library(ctx, p.Library)
	if err != nil {
		return nil, err
	}

	navQuery, err := extract.Navigation(p, library)
	if err != nil {
		return nil, err
	}
	critQuery, err := extract.Criteria(p, library)
	if err != nil {
		return nil, err
	}

	if e.options.EvaluatorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.EvaluatorTimeout)
		defer cancel()
	}

	var (
		wg                sync.WaitGroup
		navData, critData pathways.PatientData
		navErr, critErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		navData, navErr = evaluator.Evaluate(ctx, navQuery, bundle)
	}()
	go func() {
		defer wg.Done()
		critData, critErr = evaluator.Evaluate(ctx, critQuery, bundle)
	}()
	wg.Wait()

	if navErr != nil {
		return nil, fmt.Errorf("evaluating navigation query for %q: %w", p.Name, navErr)
	}
	if critErr != nil {
		return nil, fmt.Errorf("evaluating criteria query for %q: %w", p.Name, critErr)
	}

	results, err := walker.WalkFrom(p, navData, bundle.Resources(), e.options.StartState)
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{
		PathwayName: p.Name,
		Results:     results,
		Criteria:    criteria.Evaluate(p, critData),
	}

	e.log.Debug().Str("pathway", p.Name).
		Str("currentState", results.CurrentState).
		Int("matches", eval.Criteria.Matches).
		Msg("pathway evaluated")
	return eval, nil
}

// EvaluateAll evaluates every candidate pathway against the current
// patient records concurrently and returns the successful evaluations
// ranked by descending criteria match count. Ties keep the candidates'
// input order. Per-pathway failures are joined into the returned error
// alongside any partial results.
func (e *Engine) EvaluateAll(ctx context.Context, candidates []*pathways.Pathway) ([]*Evaluation, error) {
	batch := worker.NewBatch(func(ctx context.Context, p *pathways.Pathway) (*Evaluation, error) {
		return e.Evaluate(ctx, p)
	}, e.options.WorkerCount)

	// Batch results arrive in input order, so the stable sort alone
	// keeps ties ranked by the candidates' original order.
	ranked := make([]*Evaluation, 0, len(candidates))
	var errs []error
	for _, r := range batch.Evaluate(ctx, candidates) {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("pathway %q: %w", r.PathwayName, r.Err))
			continue
		}
		ranked = append(ranked, r.Value)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Criteria.Matches > ranked[j].Criteria.Matches
	})

	return ranked, errors.Join(errs...)
}

// library resolves a pathway's shared query library, serving repeats from
// the library cache.
func (e *Engine) library(ctx context.Context, name string) (string, error) {
	if text, ok := e.libraryCache.Get(name); ok {
		return text, nil
	}

	e.mu.RLock()
	source := e.libraries
	e.mu.RUnlock()
	if source == nil {
		return "", ErrNoLibrarySource
	}

	text, err := source.Library(ctx, name)
	if err != nil {
		return "", err
	}
	e.libraryCache.Set(name, text)
	return text, nil
}

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *pathways.Metrics {
	return e.metrics
}

// Options returns the engine's options.
func (e *Engine) Options() *pathways.Options {
	return e.options
}

// ResultCacheStats returns statistics for the evaluated-pathway cache.
func (e *Engine) ResultCacheStats() cache.Stats {
	return e.results.Stats()
}

// Close releases resources held by the engine.
func (e *Engine) Close() error {
	// Nothing to clean up currently
	return nil
}
