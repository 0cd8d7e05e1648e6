package criteria

import (
	"testing"

	"github.com/Ninjabillcos/pathways"
)

func breastCancerPathway() *pathways.Pathway {
	return &pathways.Pathway{
		Name: "her2_positive",
		Criteria: []pathways.Criterion{
			{ElementName: "Condition", Expected: "Malignant neoplasm of breast", CQL: "[Condition] C"},
			{ElementName: "HER2 Receptor", Expected: "Positive", CQL: "[Observation] O"},
		},
	}
}

func TestEvaluate(t *testing.T) {
	data := pathways.PatientData{
		"Condition": []any{map[string]any{
			"value": "Malignant neoplasm of breast",
			"match": true,
		}},
		"HER2 Receptor": []any{map[string]any{
			"value": "Negative",
			"match": false,
		}},
	}

	result := Evaluate(breastCancerPathway(), data)

	if result.PathwayName != "her2_positive" {
		t.Errorf("expected pathway name her2_positive, got %q", result.PathwayName)
	}
	if result.Matches != 1 {
		t.Errorf("expected 1 match, got %d", result.Matches)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	// Items preserve criteria declaration order.
	first := result.Items[0]
	if first.ElementName != "Condition" || !first.Match || first.Actual != "Malignant neoplasm of breast" {
		t.Errorf("unexpected first item: %+v", first)
	}
	second := result.Items[1]
	if second.ElementName != "HER2 Receptor" || second.Match || second.Actual != "Negative" {
		t.Errorf("unexpected second item: %+v", second)
	}
}

func TestEvaluate_AbsentElement(t *testing.T) {
	result := Evaluate(breastCancerPathway(), pathways.PatientData{})

	if result.Matches != 0 {
		t.Errorf("expected 0 matches, got %d", result.Matches)
	}
	for _, item := range result.Items {
		if item.Actual != "unknown" {
			t.Errorf("expected actual unknown for %s, got %q", item.ElementName, item.Actual)
		}
		if item.Match {
			t.Errorf("expected no match for absent element %s", item.ElementName)
		}
	}
}

func TestEvaluate_ValueShapes(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		wantActual string
		wantMatch  bool
	}{
		{
			name:       "bare object instead of list",
			value:      map[string]any{"value": "Positive", "match": true},
			wantActual: "Positive",
			wantMatch:  true,
		},
		{
			name:       "empty list",
			value:      []any{},
			wantActual: "unknown",
		},
		{
			name:       "non-string value stringified",
			value:      []any{map[string]any{"value": float64(3), "match": true}},
			wantActual: "3",
			wantMatch:  true,
		},
		{
			name:       "missing match flag",
			value:      []any{map[string]any{"value": "Positive"}},
			wantActual: "Positive",
		},
		{
			name:       "only first list entry considered",
			value:      []any{map[string]any{"value": "Negative", "match": false}, map[string]any{"value": "Positive", "match": true}},
			wantActual: "Negative",
		},
	}

	p := &pathways.Pathway{
		Name:     "shape",
		Criteria: []pathways.Criterion{{ElementName: "E", Expected: "Positive", CQL: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(p, pathways.PatientData{"E": tt.value})
			item := result.Items[0]
			if item.Actual != tt.wantActual {
				t.Errorf("expected actual %q, got %q", tt.wantActual, item.Actual)
			}
			if item.Match != tt.wantMatch {
				t.Errorf("expected match %v, got %v", tt.wantMatch, item.Match)
			}
		})
	}
}

func TestRank(t *testing.T) {
	results := []*pathways.CriteriaResult{
		{PathwayName: "low", Matches: 1},
		{PathwayName: "tie_a", Matches: 2},
		{PathwayName: "tie_b", Matches: 2},
		{PathwayName: "high", Matches: 3},
	}

	Rank(results)

	wantOrder := []string{"high", "tie_a", "tie_b", "low"}
	for i, want := range wantOrder {
		if results[i].PathwayName != want {
			t.Errorf("rank[%d]: expected %s, got %s", i, want, results[i].PathwayName)
		}
	}
}
