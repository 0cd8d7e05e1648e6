package service

import (
	"context"

	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/extract"
	"github.com/Ninjabillcos/pathways/fhir"
)

// PredicateEvaluator executes a built query against a patient's record
// bundle and returns the per-element results keyed by definition name.
//
// The engine invokes the evaluator once per built query and never
// interprets query text itself. Evaluation failures are propagated to the
// caller untouched; the engine performs no retries.
type PredicateEvaluator interface {
	Evaluate(ctx context.Context, query extract.Query, bundle *fhir.Bundle) (pathways.PatientData, error)
}

// EvaluatorFunc adapts a function to the PredicateEvaluator interface.
type EvaluatorFunc func(ctx context.Context, query extract.Query, bundle *fhir.Bundle) (pathways.PatientData, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, query extract.Query, bundle *fhir.Bundle) (pathways.PatientData, error) {
	return f(ctx, query, bundle)
}
