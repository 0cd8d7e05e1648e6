// Package pathways provides deterministic evaluation of clinical care
// pathways against a patient's FHIR records.
//
// A pathway is a directed graph of clinical states (observations,
// procedures, medication orders) with branching conditions expressed as
// clinical query fragments. Given a pathway definition and the per-element
// results of executing those fragments against a patient, the engine
// computes where the patient sits on the pathway, the full path taken to
// get there, the evidence supporting each transition, and how well each
// candidate pathway matches the patient overall.
//
// # Quick Start
//
//	import (
//	    "github.com/Ninjabillcos/pathways"
//	    "github.com/Ninjabillcos/pathways/engine"
//	)
//
//	eng, err := engine.New(ctx,
//	    pathways.WithWorkerCount(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng.SetEvaluator(evaluator)       // external clinical query evaluator
//	eng.SetLibrarySource(librarySrc)  // shared query definition source
//	eng.SetPatientRecords(bundle)
//
//	eval, err := eng.Evaluate(ctx, pathway)
//	fmt.Println(eval.Results.CurrentState, eval.Criteria.Matches)
//
// # Architecture
//
// The engine is split into small composable packages:
//
//   - extract: assembles the query text executed against the patient
//   - walker: walks the pathway state machine over evaluator results
//   - criteria: scores pathway applicability and ranks candidates
//   - service: external collaborator boundaries (evaluator, library source)
//   - engine: orchestration, caching and concurrent multi-pathway ranking
//
// The traversal and matching cores are pure, synchronous functions of
// (pathway, patient data, patient records). All I/O and shared state lives
// in the engine orchestrator and the service adapters.
package pathways
