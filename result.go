package pathways

import (
	"encoding/json"

	"github.com/Ninjabillcos/pathways/fhir"
)

// Traversal statuses reported on PathwayResults.CurrentStatus.
const (
	// StatusCompleted marks a step backed by completed evidence or an
	// unconditional pass-through.
	StatusCompleted = "completed"
	// StatusNotDone marks the evidence-absent halt: the walk stopped because
	// no resource and no note override resolved the current state.
	StatusNotDone = "not-done"
	// StatusUnknown marks evidence that carries no status of its own.
	StatusUnknown = "unknown"
)

// TerminalRecommendation is the sentinel emitted when the walk halts on a
// state with no outgoing transitions.
const TerminalRecommendation = "pathway terminal"

// PatientData holds the per-element results of executing a built query
// against one patient. Keys are exactly the definition names used when the
// query was built: state names, condition descriptions and criterion
// element names. Values are the raw evaluator output, a matched resource,
// a list of matched resources, or a value/match pair for criteria.
//
// PatientData is owned transiently per evaluation and only ever read by
// the engine.
type PatientData map[string]any

// PatientID extracts the patient id from the conventional "Patient" element
// of evaluator output, tolerating both the structured id ("Patient.id.value")
// and a plain string id.
func (d PatientData) PatientID() string {
	patient, ok := d["Patient"].(map[string]any)
	if !ok {
		return ""
	}
	switch id := patient["id"].(type) {
	case string:
		return id
	case map[string]any:
		if v, ok := id["value"].(string); ok {
			return v
		}
	}
	return ""
}

// DocumentationResource is the evidence attached to one traversed step.
// It is created during traversal and immutable once appended to the
// result's documentation list.
type DocumentationResource struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id"`
	Status       string `json:"status"`

	// State is the pathway state this evidence documents.
	State string `json:"state"`

	// Resource is the full underlying clinical resource, joined in from the
	// patient record set after path resolution.
	Resource fhir.Resource `json:"resource,omitempty"`
}

// RecommendationKind discriminates the next-recommendation variants.
type RecommendationKind int

// Recommendation kinds.
const (
	// RecommendationTerminal means the halting state has no outgoing
	// transitions.
	RecommendationTerminal RecommendationKind = iota
	// RecommendationDirect names the single next state.
	RecommendationDirect
	// RecommendationBranch lists the candidate branches with their guard
	// descriptions.
	RecommendationBranch
)

// BranchOption is one candidate transition of a branching recommendation.
type BranchOption struct {
	State                string `json:"state"`
	ConditionDescription string `json:"conditionDescription"`
}

// Recommendation describes what comes after the halting state: the
// terminal sentinel, the single next state, or the open branches.
type Recommendation struct {
	Kind     RecommendationKind
	Next     string
	Branches []BranchOption
}

// MarshalJSON preserves the original wire format: the terminal sentinel
// string, a bare state name, or an array of branch options.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RecommendationDirect:
		return json.Marshal(r.Next)
	case RecommendationBranch:
		return json.Marshal(r.Branches)
	default:
		return json.Marshal(TerminalRecommendation)
	}
}

// PathwayResults is the output of one pathway traversal.
type PathwayResults struct {
	// PatientID identifies the patient the traversal was computed for.
	PatientID string `json:"patientId"`

	// CurrentState is the state the patient currently occupies: the last
	// entry of Path.
	CurrentState string `json:"currentState"`

	// CurrentStatus is the status of the halting step. Empty when the start
	// state is itself terminal and no step ever ran.
	CurrentStatus string `json:"currentStatus"`

	// NextRecommendation is derived from the halting state's transitions.
	NextRecommendation Recommendation `json:"nextRecommendation"`

	// Path is the ordered state names from the start state to the current
	// state. Under well-formed acyclic input it contains no duplicates.
	Path []string `json:"path"`

	// Documentation is the evidence for the transitions taken, in step
	// order, excluding unconditional pass-through hops.
	Documentation []DocumentationResource `json:"documentation"`
}

// CriteriaResultItem is the expected/actual/match record for one criterion.
type CriteriaResultItem struct {
	ElementName string `json:"elementName"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
	Match       bool   `json:"match"`
}

// CriteriaResult scores how well one pathway's criteria match a patient.
// Items preserve criteria declaration order.
type CriteriaResult struct {
	PathwayName string               `json:"pathwayName"`
	Matches     int                  `json:"matches"`
	Items       []CriteriaResultItem `json:"criteriaResultItems"`
}
