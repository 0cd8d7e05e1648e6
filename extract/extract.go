// Package extract assembles the clinical query text a pathway needs
// executed against a patient.
//
// A built query concatenates the pathway's shared definition library with
// one named definition block per evaluated element. Two bundles are built
// per pathway: the navigation query (state fragments plus transition
// guards) and the criteria query (top-level matching criteria). Definition
// names are the contract with the evaluator: its results come back keyed
// exactly by them.
package extract

import (
	"sort"
	"strings"

	"github.com/Ninjabillcos/pathways"
)

// Definition is one named query block of a built query.
type Definition struct {
	// Name keys the evaluator's result for this block: a state name, a
	// transition guard description, or a criterion element name.
	Name string

	// CQL is the raw query fragment from the pathway definition.
	CQL string
}

// Query is a built query bundle: the shared library text plus the ordered
// named definition blocks appended to it.
type Query struct {
	Library     string
	Definitions []Definition
}

// Text renders the query as the plain concatenated text an external
// evaluator executes in a single invocation.
func (q Query) Text() string {
	var b strings.Builder
	b.WriteString(q.Library)
	for _, d := range q.Definitions {
		b.WriteString("\n\n")
		b.WriteString(formatDefine(d))
	}
	return b.String()
}

// formatDefine renders one named definition block.
func formatDefine(d Definition) string {
	return `define "` + d.Name + "\":\n\t" + d.CQL
}

// Navigation builds the navigation query for a pathway over the given
// shared library text: one block per state carrying a direct evaluation
// fragment, and one block per guard condition of each branching state.
//
// Two states or conditions producing the same definition name is a caller
// error reported as a DuplicateDefinitionError.
func Navigation(p *pathways.Pathway, library string) (Query, error) {
	q := Query{Library: library}
	seen := make(map[string]bool)

	// Deterministic output: states in name order.
	names := make([]string, 0, len(p.States))
	for name := range p.States {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		state := p.States[name]
		switch {
		case state.CQL != "":
			if seen[name] {
				return Query{}, &pathways.DuplicateDefinitionError{Name: name}
			}
			seen[name] = true
			q.Definitions = append(q.Definitions, Definition{Name: name, CQL: state.CQL})
		case len(state.Transitions) > 1:
			for _, t := range state.Transitions {
				if t.Condition == nil {
					continue
				}
				if seen[t.Condition.Description] {
					return Query{}, &pathways.DuplicateDefinitionError{Name: t.Condition.Description}
				}
				seen[t.Condition.Description] = true
				q.Definitions = append(q.Definitions, Definition{
					Name: t.Condition.Description,
					CQL:  t.Condition.CQL,
				})
			}
		}
	}
	return q, nil
}

// Criteria builds the criteria query for a pathway over the given shared
// library text: one block per declared criterion, named by element name.
func Criteria(p *pathways.Pathway, library string) (Query, error) {
	q := Query{Library: library}
	seen := make(map[string]bool)

	for _, c := range p.Criteria {
		if seen[c.ElementName] {
			return Query{}, &pathways.DuplicateDefinitionError{Name: c.ElementName}
		}
		seen[c.ElementName] = true
		q.Definitions = append(q.Definitions, Definition{Name: c.ElementName, CQL: c.CQL})
	}
	return q, nil
}
