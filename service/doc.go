// Package service defines the engine's external collaborator boundaries
// and ships default adapters for them.
//
// Two collaborators exist:
//
//   - PredicateEvaluator executes a built query against a patient bundle
//     and returns per-element results. The engine never interprets query
//     text itself. A FHIRPath-backed local evaluator and an HTTP remote
//     evaluator are provided.
//
//   - LibrarySource resolves a pathway's shared query definition library
//     by name. File, HTTP and chained sources are provided.
//
// Adapters propagate evaluator and transport failures untouched; retry
// policy belongs to the caller, never to this package.
package service
