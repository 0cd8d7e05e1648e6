package walker

import (
	"testing"

	"github.com/Ninjabillcos/pathways/fhir"
)

func TestFindNoteOverride(t *testing.T) {
	note := fhir.NewNoteDocumentReference("declined", "Lumpectomy", "pat-1")
	other := fhir.NewNoteDocumentReference("unrelated", "Radiation", "pat-1")
	procedure := fhir.Resource{"resourceType": "Procedure", "id": "proc-1"}

	resources := []fhir.Resource{procedure, other, note}

	got := FindNoteOverride("Lumpectomy", resources)
	if got == nil {
		t.Fatal("expected note to be found")
	}
	if got.ID() != note.ID() {
		t.Errorf("expected note %q, got %q", note.ID(), got.ID())
	}
}

func TestFindNoteOverride_NoMatch(t *testing.T) {
	resources := []fhir.Resource{
		fhir.NewNoteDocumentReference("unrelated", "Radiation", "pat-1"),
		// A DocumentReference with a foreign identifier system is not an
		// override even if the value happens to collide.
		{
			"resourceType": "DocumentReference",
			"id":           "doc-x",
			"identifier": []any{map[string]any{
				"system": "http://example.org/other",
				"value":  fhir.EncodeNoteIdentifier("Lumpectomy"),
			}},
		},
	}

	if got := FindNoteOverride("Lumpectomy", resources); got != nil {
		t.Errorf("expected no override, got %v", got)
	}
}

func TestFindNoteOverride_FirstInRecordOrder(t *testing.T) {
	first := fhir.NewNoteDocumentReference("first", "Lumpectomy", "pat-1")
	second := fhir.NewNoteDocumentReference("second", "Lumpectomy", "pat-1")

	got := FindNoteOverride("Lumpectomy", []fhir.Resource{first, second})
	if got == nil || got.ID() != first.ID() {
		t.Errorf("expected first note in record order, got %v", got)
	}
}
