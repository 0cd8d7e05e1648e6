package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/gofhir/fhirpath"
	"github.com/gofhir/fhirpath/types"

	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/extract"
	"github.com/Ninjabillcos/pathways/fhir"
)

// FHIRPathEvaluator is a local PredicateEvaluator for pathways whose query
// fragments are FHIRPath expressions rather than full CQL. It needs no
// external runtime, which makes it the default for the CLI and for tests.
//
// Each definition is evaluated in two steps. The expression is first run
// against the whole patient bundle; a single boolean result is returned as
// a criteria-style value/match pair. Any other result falls back to a
// per-resource pass: the expression is evaluated against every resource in
// the bundle and the resources it holds true for become the element's
// match list. The shared library text is ignored; FHIRPath has no library
// mechanism.
//
// Safe for concurrent use. Compiled expressions are cached.
type FHIRPathEvaluator struct {
	mu    sync.Mutex
	cache map[string]*fhirpath.Expression
}

// NewFHIRPathEvaluator creates a new local FHIRPath evaluator.
func NewFHIRPathEvaluator() *FHIRPathEvaluator {
	return &FHIRPathEvaluator{
		cache: make(map[string]*fhirpath.Expression),
	}
}

// Evaluate implements PredicateEvaluator.
func (e *FHIRPathEvaluator) Evaluate(ctx context.Context, query extract.Query, bundle *fhir.Bundle) (pathways.PatientData, error) {
	bundleBytes, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encoding patient bundle: %w", err)
	}

	resourceBytes := make([][]byte, len(bundle.Resources()))
	for i, r := range bundle.Resources() {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encoding patient resource %d: %w", i, err)
		}
		resourceBytes[i] = b
	}

	data := make(pathways.PatientData, len(query.Definitions)+1)
	e.setPatientElement(data, bundle)

	for _, def := range query.Definitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		compiled, err := e.getOrCompile(def.CQL)
		if err != nil {
			return nil, fmt.Errorf("compiling definition %q: %w", def.Name, err)
		}

		result, err := compiled.Evaluate(bundleBytes)
		if err != nil {
			return nil, fmt.Errorf("evaluating definition %q: %w", def.Name, err)
		}

		if b, ok := singleBoolean(result); ok {
			data[def.Name] = map[string]any{
				"value": strconv.FormatBool(b),
				"match": b,
			}
			continue
		}

		matches, err := e.matchResources(compiled, bundle.Resources(), resourceBytes)
		if err != nil {
			return nil, fmt.Errorf("evaluating definition %q: %w", def.Name, err)
		}
		data[def.Name] = matches
	}

	return data, nil
}

// matchResources evaluates a compiled expression against each resource and
// returns the resources it is truthy for.
func (e *FHIRPathEvaluator) matchResources(compiled *fhirpath.Expression, resources []fhir.Resource, encoded [][]byte) ([]any, error) {
	matches := make([]any, 0)
	for i, r := range resources {
		result, err := compiled.Evaluate(encoded[i])
		if err != nil {
			return nil, err
		}
		if truthy(result) {
			matches = append(matches, map[string]any(r))
		}
	}
	return matches, nil
}

// setPatientElement mirrors the CQL executor convention of exposing the
// patient under the "Patient" element.
func (e *FHIRPathEvaluator) setPatientElement(data pathways.PatientData, bundle *fhir.Bundle) {
	for _, r := range bundle.Resources() {
		if r.Type() == "Patient" {
			data["Patient"] = map[string]any{
				"id": map[string]any{"value": r.ID()},
			}
			return
		}
	}
}

// getOrCompile returns a cached compiled expression or compiles a new one.
func (e *FHIRPathEvaluator) getOrCompile(expression string) (*fhirpath.Expression, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if compiled, ok := e.cache[expression]; ok {
		return compiled, nil
	}
	compiled, err := fhirpath.Compile(expression)
	if err != nil {
		return nil, err
	}
	e.cache[expression] = compiled
	return compiled, nil
}

// CacheSize returns the number of cached compiled expressions.
func (e *FHIRPathEvaluator) CacheSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}

// ClearCache drops all cached compiled expressions.
func (e *FHIRPathEvaluator) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*fhirpath.Expression)
}

// singleBoolean reports whether the collection is exactly one boolean.
func singleBoolean(result types.Collection) (bool, bool) {
	if len(result) != 1 {
		return false, false
	}
	b, ok := result[0].(types.Boolean)
	if !ok {
		return false, false
	}
	return b.Bool(), true
}

// truthy applies FHIRPath truthiness: empty is false, a single boolean is
// itself, any other non-empty collection is true.
func truthy(result types.Collection) bool {
	if len(result) == 0 {
		return false
	}
	if b, ok := singleBoolean(result); ok {
		return b
	}
	return true
}

// Verify interface compliance.
var _ PredicateEvaluator = (*FHIRPathEvaluator)(nil)
