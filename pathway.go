package pathways

import (
	"encoding/json"
	"fmt"

	"github.com/Ninjabillcos/pathways/fhir"
)

// StartState is the conventional name of the state every traversal begins at.
const StartState = "Start"

// StateKind discriminates between the two state variants.
type StateKind int

// State kinds.
const (
	// StateNavigation is a routing-only state. It carries transitions and
	// optionally a query fragment deciding whether the state is reached.
	StateNavigation StateKind = iota
	// StateGuidance carries at least one actionable clinical recommendation
	// that a clinician accepts or declines.
	StateGuidance
)

// String returns the kind name.
func (k StateKind) String() string {
	switch k {
	case StateNavigation:
		return "navigation"
	case StateGuidance:
		return "guidance"
	default:
		return fmt.Sprintf("StateKind(%d)", int(k))
	}
}

// Pathway is an immutable care pathway definition: a named directed graph
// of clinical states plus the top-level criteria used to rank how well the
// pathway applies to a patient.
//
// A Pathway is loaded once and treated as read-only for the session.
type Pathway struct {
	// Name uniquely identifies the pathway.
	Name string `json:"name"`

	// Description is a human-readable summary.
	Description string `json:"description"`

	// Library references the shared query definition text the state and
	// criteria fragments build on.
	Library string `json:"library"`

	// States maps state name to state definition. Keys are unique and every
	// transition target must name an existing key.
	States map[string]State `json:"states"`

	// Criteria is the ordered list of pathway-matching criteria.
	Criteria []Criterion `json:"criteria"`
}

// State is a node in a pathway. The Kind discriminant selects the variant:
// navigation states only route, guidance states carry recommendations.
type State struct {
	// Kind discriminates the variant. It is derived from the presence of
	// actions when unmarshaling and is not part of the wire format.
	Kind StateKind `json:"-"`

	// Label is the human-readable state label. It doubles as the note
	// override identifier for guidance states.
	Label string `json:"label"`

	// CQL is an optional query fragment evaluated to decide whether the
	// state itself is reached. Named by the state name in the built query.
	CQL string `json:"cql,omitempty"`

	// Actions holds the clinical recommendations of a guidance state.
	// Empty for navigation states.
	Actions []Action `json:"action,omitempty"`

	// Transitions is the ordered list of outgoing edges. Empty means the
	// state is terminal.
	Transitions []Transition `json:"transitions"`
}

// UnmarshalJSON derives the state kind from the presence of an action list,
// so definitions authored for the original wire format load unchanged.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = State(p)
	if len(s.Actions) > 0 {
		s.Kind = StateGuidance
	} else {
		s.Kind = StateNavigation
	}
	return nil
}

// Action is a single clinical recommendation carried by a guidance state.
type Action struct {
	// Type is the action type, e.g. "create".
	Type string `json:"type"`

	// Description is the human-readable recommendation text.
	Description string `json:"description"`

	// Resource is the coded clinical resource recommended, such as a
	// medication or procedure order template.
	Resource fhir.Resource `json:"resource"`
}

// Transition is a directed edge between states, optionally guarded.
type Transition struct {
	// Target is the name of the destination state.
	Target string `json:"transition"`

	// Condition guards the transition. A state with a single transition is
	// unconditional and needs no guard.
	Condition *Condition `json:"condition,omitempty"`
}

// Condition is a clinical query guard on a transition. Its description is
// the definition name the evaluator keys its result by, and the identifier
// used for note override lookup on branching states.
type Condition struct {
	Description string `json:"description"`
	CQL         string `json:"cql"`
}

// Criterion is a top-level pathway-matching predicate, independent of
// traversal, used to rank pathway applicability to a patient.
type Criterion struct {
	// ElementName is the definition name the evaluator keys its result by.
	ElementName string `json:"elementName"`

	// Expected is the display string for the expected value.
	Expected string `json:"expected"`

	// CQL is the query fragment producing the actual value.
	CQL string `json:"cql"`
}

// Validate checks the structural invariants of the pathway definition.
// Violations are configuration errors: fatal, not retried, and reported as
// typed errors rather than silent empty results.
func (p *Pathway) Validate() error {
	return p.ValidateFrom(StartState)
}

// ValidateFrom validates the pathway with a custom start state name.
func (p *Pathway) ValidateFrom(start string) error {
	if len(p.States) == 0 {
		return fmt.Errorf("pathway %q: %w", p.Name, ErrNoStates)
	}
	if _, ok := p.States[start]; !ok {
		return &MissingStartError{Pathway: p.Name, Start: start}
	}
	for name, state := range p.States {
		for _, t := range state.Transitions {
			if _, ok := p.States[t.Target]; !ok {
				return &DanglingTransitionError{Pathway: p.Name, State: name, Target: t.Target}
			}
		}
		if len(state.Transitions) > 1 {
			unguarded := 0
			for _, t := range state.Transitions {
				if t.Condition == nil {
					unguarded++
				}
			}
			// At most one unguarded fallback edge is allowed.
			if unguarded > 1 {
				return &UnguardedTransitionError{Pathway: p.Name, State: name}
			}
		}
		if state.Kind == StateGuidance && len(state.Actions) == 0 {
			return &MissingActionError{Pathway: p.Name, State: name}
		}
	}
	return nil
}

// GuidanceStates returns the names of all guidance states in no particular
// order.
func (p *Pathway) GuidanceStates() []string {
	names := make([]string, 0, len(p.States))
	for name, state := range p.States {
		if state.Kind == StateGuidance {
			names = append(names, name)
		}
	}
	return names
}
