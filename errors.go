package pathways

import (
	"errors"
	"fmt"
)

// Configuration errors are fatal: a malformed pathway definition must
// surface as a typed error, never as a silent empty result. Absence of
// patient evidence is not an error anywhere in this package; it is the
// normal walk-halting condition.

// ErrNoStates reports a pathway definition with an empty state graph.
var ErrNoStates = errors.New("pathway has no states")

// MissingStartError reports a pathway without a reachable start state.
type MissingStartError struct {
	Pathway string
	Start   string
}

func (e *MissingStartError) Error() string {
	return fmt.Sprintf("pathway %q has no start state %q", e.Pathway, e.Start)
}

// DanglingTransitionError reports a transition whose target names no
// existing state.
type DanglingTransitionError struct {
	Pathway string
	State   string
	Target  string
}

func (e *DanglingTransitionError) Error() string {
	return fmt.Sprintf("pathway %q: state %q transitions to unknown state %q", e.Pathway, e.State, e.Target)
}

// UnguardedTransitionError reports a branching state with more than one
// transition lacking a guard condition. A branching state may carry at most
// one unguarded fallback edge.
type UnguardedTransitionError struct {
	Pathway string
	State   string
}

func (e *UnguardedTransitionError) Error() string {
	return fmt.Sprintf("pathway %q: branching state %q has multiple unguarded transitions", e.Pathway, e.State)
}

// MissingActionError reports a guidance state without any action.
type MissingActionError struct {
	Pathway string
	State   string
}

func (e *MissingActionError) Error() string {
	return fmt.Sprintf("pathway %q: guidance state %q has no actions", e.Pathway, e.State)
}

// LibraryNotFoundError reports that a pathway's shared query definition
// library could not be located by any configured source.
type LibraryNotFoundError struct {
	Library string
}

func (e *LibraryNotFoundError) Error() string {
	return fmt.Sprintf("query library %q not found", e.Library)
}

// DuplicateDefinitionError reports two states, conditions or criteria
// producing the same named definition block in a built query. Definition
// names are load-bearing: the evaluator keys its results by them.
type DuplicateDefinitionError struct {
	Name string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate query definition %q", e.Name)
}
