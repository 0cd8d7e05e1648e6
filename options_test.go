package pathways

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if o.StartState != StartState {
		t.Errorf("expected start state %q, got %q", StartState, o.StartState)
	}
	if o.WorkerCount <= 0 {
		t.Errorf("expected positive worker count, got %d", o.WorkerCount)
	}
	if o.ResultCacheSize != 100 {
		t.Errorf("expected result cache size 100, got %d", o.ResultCacheSize)
	}
	if o.LibraryCacheSize != 20 {
		t.Errorf("expected library cache size 20, got %d", o.LibraryCacheSize)
	}
	if o.EvaluatorTimeout != 0 {
		t.Errorf("expected no evaluator timeout, got %v", o.EvaluatorTimeout)
	}
}

func TestOptions_Overrides(t *testing.T) {
	o := DefaultOptions()
	for _, opt := range []Option{
		WithStartState("Entry"),
		WithWorkerCount(2),
		WithResultCacheSize(10),
		WithLibraryCacheSize(5),
		WithEvaluatorTimeout(3 * time.Second),
	} {
		opt(o)
	}

	if o.StartState != "Entry" {
		t.Errorf("expected start state Entry, got %q", o.StartState)
	}
	if o.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", o.WorkerCount)
	}
	if o.ResultCacheSize != 10 {
		t.Errorf("expected result cache size 10, got %d", o.ResultCacheSize)
	}
	if o.LibraryCacheSize != 5 {
		t.Errorf("expected library cache size 5, got %d", o.LibraryCacheSize)
	}
	if o.EvaluatorTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", o.EvaluatorTimeout)
	}
}

func TestOptions_InvalidValuesIgnored(t *testing.T) {
	o := DefaultOptions()
	defaults := *o

	for _, opt := range []Option{
		WithStartState(""),
		WithWorkerCount(0),
		WithWorkerCount(-1),
		WithResultCacheSize(0),
		WithLibraryCacheSize(-5),
	} {
		opt(o)
	}

	if o.StartState != defaults.StartState {
		t.Errorf("empty start state should be ignored, got %q", o.StartState)
	}
	if o.WorkerCount != defaults.WorkerCount {
		t.Errorf("non-positive worker count should be ignored, got %d", o.WorkerCount)
	}
	if o.ResultCacheSize != defaults.ResultCacheSize {
		t.Errorf("non-positive cache size should be ignored, got %d", o.ResultCacheSize)
	}
	if o.LibraryCacheSize != defaults.LibraryCacheSize {
		t.Errorf("non-positive cache size should be ignored, got %d", o.LibraryCacheSize)
	}
}
