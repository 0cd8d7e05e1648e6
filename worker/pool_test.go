package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ninjabillcos/pathways"
)

func testPathway(name string) *pathways.Pathway {
	return &pathways.Pathway{
		Name:   name,
		States: map[string]pathways.State{"Start": {Label: "Start"}},
	}
}

func TestPool_CloseAndWaitCollectsAllResults(t *testing.T) {
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (string, error) {
		return "evaluated " + p.Name, nil
	}, 4)

	const jobs = 20
	for i := 0; i < jobs; i++ {
		if !pool.Submit(testPathway(fmt.Sprintf("pathway-%d", i))) {
			t.Fatalf("submit %d rejected", i)
		}
	}

	results := pool.CloseAndWait()
	if len(results) != jobs {
		t.Fatalf("expected %d results, got %d", jobs, len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected error for %s: %v", r.PathwayName, r.Err)
		}
		if r.Value != "evaluated "+r.PathwayName {
			t.Errorf("unexpected value for %s: %q", r.PathwayName, r.Value)
		}
	}
}

func TestPool_QueueSizedForFullBatch(t *testing.T) {
	pool := NewPoolSize(func(_ context.Context, p *pathways.Pathway) (int, error) {
		return 0, nil
	}, 1, 12)

	// With the queue holding the whole batch, every submit lands before
	// a single result is drained.
	done := make(chan []JobResult[int])
	go func() {
		for i := 0; i < 12; i++ {
			if !pool.Submit(testPathway(fmt.Sprintf("pathway-%d", i))) {
				t.Errorf("submit %d rejected", i)
			}
		}
		done <- pool.CloseAndWait()
	}()

	select {
	case results := <-done:
		if len(results) != 12 {
			t.Fatalf("expected 12 results, got %d", len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("submit loop blocked before results were drained")
	}
}

func TestPool_PropagatesErrors(t *testing.T) {
	wantErr := errors.New("evaluation failed")
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (int, error) {
		if strings.HasPrefix(p.Name, "bad") {
			return 0, wantErr
		}
		return 1, nil
	}, 2)

	pool.Submit(testPathway("good-1"))
	pool.Submit(testPathway("bad-1"))
	pool.Submit(testPathway("good-2"))

	failed := 0
	for _, r := range pool.CloseAndWait() {
		if r.Err != nil {
			failed++
			if !errors.Is(r.Err, wantErr) {
				t.Errorf("unexpected error: %v", r.Err)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed job, got %d", failed)
	}
}

func TestPool_SubmitAfterCloseRejected(t *testing.T) {
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (int, error) {
		return 0, nil
	}, 1)

	pool.Submit(testPathway("a"))
	pool.CloseAndWait()

	if pool.Submit(testPathway("b")) {
		t.Error("expected submit after close to be rejected")
	}
}

func TestPool_NilPathwayRejected(t *testing.T) {
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (int, error) {
		return 0, nil
	}, 1)
	defer pool.Close()

	if pool.Submit(nil) {
		t.Error("expected nil pathway to be rejected")
	}
}

func TestPool_Stats(t *testing.T) {
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (int, error) {
		time.Sleep(time.Millisecond)
		return 0, nil
	}, 3)

	for i := 0; i < 6; i++ {
		pool.Submit(testPathway(fmt.Sprintf("p-%d", i)))
	}
	pool.CloseAndWait()

	s := pool.Stats()
	if s.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", s.Workers)
	}
	if s.JobsSubmitted != 6 {
		t.Errorf("expected 6 submitted, got %d", s.JobsSubmitted)
	}
	if s.JobsCompleted != 6 {
		t.Errorf("expected 6 completed, got %d", s.JobsCompleted)
	}
	if s.AvgDuration <= 0 {
		t.Errorf("expected positive average duration, got %v", s.AvgDuration)
	}
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (int, error) {
		return 0, nil
	}, 1)

	pool.Close()
	pool.Close()

	if results := pool.CloseAndWait(); results != nil {
		t.Errorf("expected nil from CloseAndWait after Close, got %v", results)
	}
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	pool := NewPool(func(_ context.Context, p *pathways.Pathway) (int, error) {
		return 0, nil
	}, 0)
	defer pool.Close()

	if pool.Stats().Workers <= 0 {
		t.Errorf("expected positive default worker count, got %d", pool.Stats().Workers)
	}
}
