// Package walker implements the pathway traversal state machine.
//
// A walk starts at the pathway's start state and advances one transition
// at a time, driven entirely by the per-element evaluator results and the
// patient's record set:
//
//   - Guidance states advance on the first matched resource. A
//     MedicationRequest advances regardless of its status; order placement
//     alone is treated as sufficient evidence of progression. Every other
//     resource type advances only when its status is "completed".
//   - Navigation states with a single transition always pass through and
//     contribute no documentation entry.
//   - Branching states take the first transition whose guard has a
//     non-empty result; when none has, clinician note overrides are
//     consulted per guard description, in declared order.
//   - When nothing resolves, the walk halts with status "not-done". That
//     is the normal "not yet evidenced" case, never an error.
//
// The walk is a pure function of (pathway, patient data, patient records):
// it performs no I/O, holds no state and is safe to call concurrently.
package walker
