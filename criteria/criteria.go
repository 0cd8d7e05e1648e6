// Package criteria scores pathway applicability to a patient and ranks
// candidate pathways by how many of their declared criteria match.
package criteria

import (
	"fmt"
	"sort"

	"github.com/Ninjabillcos/pathways"
)

// Evaluate produces the expected/actual/match record for every declared
// criterion of the pathway, in declaration order, plus the aggregate match
// count.
//
// When the evaluator returns multiple values for an element, only the
// first is considered; aggregating over all matches is a deliberate
// limitation carried over from the original system. An absent element
// yields actual "unknown" and no match.
func Evaluate(p *pathways.Pathway, data pathways.PatientData) *pathways.CriteriaResult {
	result := &pathways.CriteriaResult{
		PathwayName: p.Name,
		Items:       make([]pathways.CriteriaResultItem, 0, len(p.Criteria)),
	}

	for _, c := range p.Criteria {
		value := data[c.ElementName]
		if list, ok := value.([]any); ok {
			if len(list) > 0 {
				value = list[0]
			} else {
				value = nil
			}
		}

		actual := "unknown"
		match := false
		if m, ok := value.(map[string]any); ok {
			if raw, ok := m["value"]; ok && raw != nil {
				if s, ok := raw.(string); ok {
					actual = s
				} else {
					actual = fmt.Sprint(raw)
				}
			}
			if b, ok := m["match"].(bool); ok {
				match = b
			}
		}

		if match {
			result.Matches++
		}
		result.Items = append(result.Items, pathways.CriteriaResultItem{
			ElementName: c.ElementName,
			Expected:    c.Expected,
			Actual:      actual,
			Match:       match,
		})
	}

	return result
}

// Rank sorts criteria results by descending match count. The sort is
// stable: ties keep their prior relative order.
func Rank(results []*pathways.CriteriaResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Matches > results[j].Matches
	})
}
