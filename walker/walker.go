package walker

import (
	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/fhir"
)

// step is the outcome of evaluating one state's outgoing transition.
type step struct {
	// next is the target state name, or "" when the step found no way
	// forward.
	next string

	// doc is the evidence produced by the step, nil when none.
	doc *pathways.DocumentationResource

	// direct marks an unconditional pass-through, which produces no
	// documentation entry.
	direct bool

	status string
}

// noMatch is the evidence-absent halt: no resource and no note override
// resolved the state.
func noMatch() *step {
	return &step{status: pathways.StatusNotDone}
}

// Walk traverses the pathway from the conventional start state. See
// WalkFrom.
func Walk(p *pathways.Pathway, data pathways.PatientData, resources []fhir.Resource) (*pathways.PathwayResults, error) {
	return WalkFrom(p, data, resources, pathways.StartState)
}

// WalkFrom traverses the pathway from the named start state to a terminal
// state, a declined action, or the first state lacking resolving evidence,
// and reports the state reached, the full path, the per-step evidence and
// the next recommendation.
//
// Malformed pathway definitions fail validation up front; absent patient
// evidence never produces an error.
func WalkFrom(p *pathways.Pathway, data pathways.PatientData, resources []fhir.Resource, start string) (*pathways.PathwayResults, error) {
	if err := p.ValidateFrom(start); err != nil {
		return nil, err
	}

	path := []string{start}
	var documentation []pathways.DocumentationResource
	status := ""

	s := nextStep(p, data, start, resources)
	for s != nil {
		status = s.status
		if s.doc != nil {
			documentation = append(documentation, attachResource(*s.doc, resources))
		}
		// Halt before pushing the next state name: the final path entry
		// must be the last state whose outgoing evaluation ran, even when
		// that evaluation found no next state.
		if s.next == "" {
			break
		}
		path = append(path, s.next)
		s = nextStep(p, data, s.next, resources)
	}

	currentState := path[len(path)-1]
	halting := p.States[currentState]

	return &pathways.PathwayResults{
		PatientID:          data.PatientID(),
		CurrentState:       currentState,
		CurrentStatus:      status,
		NextRecommendation: recommendation(halting),
		Path:               path,
		Documentation:      documentation,
	}, nil
}

// nextStep evaluates the transition rule for one state. A nil step means
// the state is terminal.
func nextStep(p *pathways.Pathway, data pathways.PatientData, name string, resources []fhir.Resource) *step {
	state := p.States[name]

	switch {
	case state.Kind == pathways.StateGuidance:
		return guidanceStep(state, data, name, resources)
	case len(state.Transitions) == 1:
		return &step{
			next:   state.Transitions[0].Target,
			direct: true,
			status: pathways.StatusCompleted,
		}
	case len(state.Transitions) > 1:
		return conditionalStep(state, data, name, resources)
	default:
		return nil
	}
}

// guidanceStep resolves a guidance state: computed evidence first, then a
// clinician note override for the state label, then the evidence-absent
// halt.
func guidanceStep(state pathways.State, data pathways.PatientData, name string, resources []fhir.Resource) *step {
	if matches := elementResources(data[name]); len(matches) > 0 {
		// Only the first evaluator match is considered.
		res := matches[0]
		doc := documentationFor(res, name)
		return &step{
			next:   advanceTarget(doc, state),
			doc:    doc,
			status: doc.Status,
		}
	}

	if note := FindNoteOverride(state.Label, resources); note != nil {
		doc := documentationForNote(note, name)
		return &step{
			next:   advanceTarget(doc, state),
			doc:    doc,
			status: doc.Status,
		}
	}

	return noMatch()
}

// conditionalStep resolves a branching state. Guards are tried in declared
// order against the evaluator results; only when none yields evidence are
// note overrides consulted, again in declared order. Unguarded fallback
// edges are never taken by evidence.
func conditionalStep(state pathways.State, data pathways.PatientData, name string, resources []fhir.Resource) *step {
	for _, t := range state.Transitions {
		if t.Condition == nil {
			continue
		}
		if matches := elementResources(data[t.Condition.Description]); len(matches) > 0 {
			doc := documentationFor(matches[0], name)
			return &step{next: t.Target, doc: doc, status: doc.Status}
		}
	}

	for _, t := range state.Transitions {
		if t.Condition == nil {
			continue
		}
		if note := FindNoteOverride(t.Condition.Description, resources); note != nil {
			doc := documentationForNote(note, name)
			return &step{next: t.Target, doc: doc, status: doc.Status}
		}
	}

	return noMatch()
}

// advanceTarget applies the status gate. MedicationRequest orders advance
// unconditionally; order placement alone evidences progression. Everything
// else advances only when completed.
func advanceTarget(doc *pathways.DocumentationResource, state pathways.State) string {
	if len(state.Transitions) == 0 {
		return ""
	}
	if doc.ResourceType == fhir.ResourceTypeMedicationRequest {
		return state.Transitions[0].Target
	}
	if doc.Status == pathways.StatusCompleted {
		return state.Transitions[0].Target
	}
	return ""
}

// documentationFor builds the evidence record for a matched resource.
func documentationFor(res fhir.Resource, stateName string) *pathways.DocumentationResource {
	status := res.Status()
	if status == "" {
		status = pathways.StatusUnknown
	}
	return &pathways.DocumentationResource{
		ResourceType: res.Type(),
		ID:           res.ID(),
		Status:       status,
		State:        stateName,
	}
}

// documentationForNote builds the evidence record for a note override.
func documentationForNote(note fhir.Resource, stateName string) *pathways.DocumentationResource {
	id := note.ID()
	if id == "" {
		id = pathways.StatusUnknown
	}
	status := note.Status()
	if status == "" {
		status = pathways.StatusUnknown
	}
	return &pathways.DocumentationResource{
		ResourceType: fhir.ResourceTypeDocumentReference,
		ID:           id,
		Status:       status,
		State:        stateName,
		Resource:     note,
	}
}

// attachResource joins the full underlying resource from the patient
// record set into the evidence record.
func attachResource(doc pathways.DocumentationResource, resources []fhir.Resource) pathways.DocumentationResource {
	for _, r := range resources {
		if r.Type() == doc.ResourceType && r.ID() == doc.ID {
			doc.Resource = r
			break
		}
	}
	return doc
}

// recommendation derives the next recommendation from the halting state's
// transitions.
func recommendation(state pathways.State) pathways.Recommendation {
	switch len(state.Transitions) {
	case 0:
		return pathways.Recommendation{Kind: pathways.RecommendationTerminal}
	case 1:
		return pathways.Recommendation{
			Kind: pathways.RecommendationDirect,
			Next: state.Transitions[0].Target,
		}
	default:
		branches := make([]pathways.BranchOption, 0, len(state.Transitions))
		for _, t := range state.Transitions {
			b := pathways.BranchOption{State: t.Target}
			if t.Condition != nil {
				b.ConditionDescription = t.Condition.Description
			}
			branches = append(branches, b)
		}
		return pathways.Recommendation{
			Kind:     pathways.RecommendationBranch,
			Branches: branches,
		}
	}
}

// elementResources coerces a raw evaluator element result into a resource
// list: a list of resource objects, a single resource object, or nothing.
// Only objects carrying a resourceType count as evidence; a boolean guard
// result rendered as a value/match pair is not a resource and must never
// advance the walk.
func elementResources(v any) []fhir.Resource {
	switch val := v.(type) {
	case []any:
		out := make([]fhir.Resource, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok && isResource(m) {
				out = append(out, fhir.Resource(m))
			}
		}
		return out
	case map[string]any:
		if !isResource(val) {
			return nil
		}
		return []fhir.Resource{fhir.Resource(val)}
	default:
		return nil
	}
}

func isResource(m map[string]any) bool {
	_, ok := m["resourceType"]
	return ok
}
