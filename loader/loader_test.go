package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ninjabillcos/pathways"
)

const pathwayJSON = `{
	"name": "treatment",
	"description": "minimal treatment pathway",
	"library": "Test.cql",
	"criteria": [
		{"elementName": "Condition", "expected": "Breast cancer", "cql": "[Condition] C"}
	],
	"states": {
		"Start": {"label": "Start", "transitions": [{"transition": "Surgery"}]},
		"Surgery": {
			"label": "Lumpectomy",
			"action": [{"type": "create", "description": "order it", "resource": {"resourceType": "ServiceRequest"}}],
			"transitions": []
		}
	}
}`

const pathwayYAML = `name: treatment_yaml
description: minimal treatment pathway
library: Test.cql
criteria:
  - elementName: Condition
    expected: Breast cancer
    cql: "[Condition] C"
states:
  Start:
    label: Start
    transitions:
      - transition: Surgery
  Surgery:
    label: Lumpectomy
    action:
      - type: create
        description: order it
        resource:
          resourceType: ServiceRequest
    transitions: []
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(pathwayJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if p.Name != "treatment" {
		t.Errorf("expected name treatment, got %q", p.Name)
	}
	if len(p.States) != 2 {
		t.Errorf("expected 2 states, got %d", len(p.States))
	}
	if p.States["Surgery"].Kind != pathways.StateGuidance {
		t.Error("expected Surgery to be a guidance state")
	}
	if len(p.Criteria) != 1 {
		t.Errorf("expected 1 criterion, got %d", len(p.Criteria))
	}
}

func TestParse_RejectsInvalidGraph(t *testing.T) {
	invalid := `{"name": "broken", "states": {"Start": {"label": "Start", "transitions": [{"transition": "Nowhere"}]}}}`
	if _, err := Parse([]byte(invalid)); err == nil {
		t.Fatal("expected validation error for dangling transition")
	}
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"name": `)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseYAML(t *testing.T) {
	p, err := ParseYAML([]byte(pathwayYAML))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	if p.Name != "treatment_yaml" {
		t.Errorf("expected name treatment_yaml, got %q", p.Name)
	}
	// Kind derivation runs identically for both encodings.
	if p.States["Surgery"].Kind != pathways.StateGuidance {
		t.Error("expected Surgery to be a guidance state")
	}
	if p.States["Start"].Kind != pathways.StateNavigation {
		t.Error("expected Start to be a navigation state")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_treatment.json"), pathwayJSON)
	writeFile(t, filepath.Join(dir, "a_treatment.yaml"), pathwayYAML)
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a pathway")

	loaded, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("expected 2 pathways, got %d", len(loaded))
	}
	// File name order, and the .txt file is skipped.
	if loaded[0].Name != "treatment_yaml" || loaded[1].Name != "treatment" {
		t.Errorf("unexpected order: %s, %s", loaded[0].Name, loaded[1].Name)
	}
}

func TestLoadDir_PropagatesParseFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.json"), `{"name": "broken"}`)

	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error for invalid definition")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
