package pathways

import (
	"sync/atomic"
	"time"
)

// Metrics tracks engine performance using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Evaluation counts
	evaluationsTotal atomic.Uint64
	walksTerminal    atomic.Uint64
	walksHalted      atomic.Uint64

	// Timing (nanoseconds)
	evalTimeTotal atomic.Uint64
	evalTimeMin   atomic.Uint64
	evalTimeMax   atomic.Uint64

	// Cache metrics
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Stale results dropped by the epoch guard
	staleDropped atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first sample becomes the minimum.
	m.evalTimeMin.Store(^uint64(0))
	return m
}

// RecordEvaluation records a completed pathway evaluation. terminal reports
// whether the walk reached a state with no outgoing transitions, as opposed
// to halting on absent evidence.
func (m *Metrics) RecordEvaluation(duration time.Duration, terminal bool) {
	m.evaluationsTotal.Add(1)
	if terminal {
		m.walksTerminal.Add(1)
	} else {
		m.walksHalted.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.evalTimeTotal.Add(ns)

	for {
		old := m.evalTimeMin.Load()
		if ns >= old {
			break
		}
		if m.evalTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.evalTimeMax.Load()
		if ns <= old {
			break
		}
		if m.evalTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordCacheHit records a result cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a result cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordStaleDrop records an in-flight result discarded because the patient
// record set changed underneath it.
func (m *Metrics) RecordStaleDrop() {
	m.staleDropped.Add(1)
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	EvaluationsTotal uint64
	WalksTerminal    uint64
	WalksHalted      uint64

	EvalTimeTotal time.Duration
	EvalTimeMin   time.Duration
	EvalTimeMax   time.Duration
	EvalTimeAvg   time.Duration

	CacheHits    uint64
	CacheMisses  uint64
	CacheHitRate float64

	StaleDropped uint64
}

// Snapshot returns a consistent-enough copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		EvaluationsTotal: m.evaluationsTotal.Load(),
		WalksTerminal:    m.walksTerminal.Load(),
		WalksHalted:      m.walksHalted.Load(),
		EvalTimeTotal:    time.Duration(m.evalTimeTotal.Load()),
		EvalTimeMax:      time.Duration(m.evalTimeMax.Load()),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
		StaleDropped:     m.staleDropped.Load(),
	}

	if min := m.evalTimeMin.Load(); min != ^uint64(0) {
		s.EvalTimeMin = time.Duration(min)
	}
	if s.EvaluationsTotal > 0 {
		s.EvalTimeAvg = s.EvalTimeTotal / time.Duration(s.EvaluationsTotal)
	}
	if total := s.CacheHits + s.CacheMisses; total > 0 {
		s.CacheHitRate = float64(s.CacheHits) / float64(total)
	}
	return s
}

// Reset zeroes all metrics.
func (m *Metrics) Reset() {
	m.evaluationsTotal.Store(0)
	m.walksTerminal.Store(0)
	m.walksHalted.Store(0)
	m.evalTimeTotal.Store(0)
	m.evalTimeMin.Store(^uint64(0))
	m.evalTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.staleDropped.Store(0)
}
