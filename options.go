package pathways

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Option configures the evaluation engine.
type Option func(*Options)

// Options holds all configuration for the evaluation engine.
type Options struct {
	// StartState is the state name every traversal begins at.
	StartState string

	// Concurrency
	WorkerCount int

	// Cache sizes
	ResultCacheSize  int
	LibraryCacheSize int

	// EvaluatorTimeout bounds a single external evaluator invocation.
	// Zero means no timeout.
	EvaluatorTimeout time.Duration

	// Logger receives engine diagnostics. Defaults to a no-op logger so
	// library users pay nothing unless they opt in.
	Logger zerolog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		StartState:       StartState,
		WorkerCount:      runtime.NumCPU(),
		ResultCacheSize:  100,
		LibraryCacheSize: 20,
		EvaluatorTimeout: 0,
		Logger:           zerolog.Nop(),
	}
}

// WithStartState overrides the conventional "Start" traversal entry state.
func WithStartState(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.StartState = name
		}
	}
}

// WithWorkerCount sets the number of workers used for concurrent
// multi-pathway evaluation. Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithResultCacheSize sets the evaluated-pathway result cache capacity.
func WithResultCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ResultCacheSize = size
		}
	}
}

// WithLibraryCacheSize sets the shared query library cache capacity.
func WithLibraryCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.LibraryCacheSize = size
		}
	}
}

// WithEvaluatorTimeout bounds each external evaluator invocation.
// Use 0 for no timeout.
func WithEvaluatorTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.EvaluatorTimeout = timeout
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
