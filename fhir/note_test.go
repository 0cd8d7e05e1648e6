package fhir

import (
	"encoding/base64"
	"testing"
)

func TestNoteIdentifierRoundTrip(t *testing.T) {
	for _, label := range []string{"Lumpectomy", "T = T0", "", "Chemotherapy & Radiation"} {
		encoded := EncodeNoteIdentifier(label)
		decoded, err := DecodeNoteIdentifier(encoded)
		if err != nil {
			t.Fatalf("decode %q: %v", encoded, err)
		}
		if decoded != label {
			t.Errorf("expected %q after round trip, got %q", label, decoded)
		}
	}
}

func TestDecodeNoteIdentifier_Invalid(t *testing.T) {
	if _, err := DecodeNoteIdentifier("not base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestNewNoteDocumentReference(t *testing.T) {
	note := NewNoteDocumentReference("patient declined surgery", "Lumpectomy", "pat-1")

	if note.Type() != ResourceTypeDocumentReference {
		t.Errorf("expected DocumentReference, got %q", note.Type())
	}
	if note.ID() == "" {
		t.Error("expected generated id")
	}
	if note.Status() != "current" {
		t.Errorf("expected status current, got %q", note.Status())
	}

	ids := note.Identifiers()
	if len(ids) != 1 {
		t.Fatalf("expected 1 identifier, got %d", len(ids))
	}
	if ids[0].System != NoteIdentifierSystem {
		t.Errorf("expected system %q, got %q", NoteIdentifierSystem, ids[0].System)
	}
	label, err := DecodeNoteIdentifier(ids[0].Value)
	if err != nil || label != "Lumpectomy" {
		t.Errorf("expected identifier to decode to Lumpectomy, got %q (%v)", label, err)
	}

	subject, ok := note["subject"].(map[string]any)
	if !ok || subject["reference"] != "Patient/pat-1" {
		t.Errorf("unexpected subject: %v", note["subject"])
	}

	content, ok := note["content"].([]any)
	if !ok || len(content) != 1 {
		t.Fatalf("expected one content entry, got %v", note["content"])
	}
	attachment := content[0].(map[string]any)["attachment"].(map[string]any)
	text, err := base64.StdEncoding.DecodeString(attachment["data"].(string))
	if err != nil || string(text) != "patient declined surgery" {
		t.Errorf("expected note text to round trip, got %q (%v)", text, err)
	}
}

func TestNewNoteDocumentReference_DistinctIDs(t *testing.T) {
	a := NewNoteDocumentReference("a", "State", "pat-1")
	b := NewNoteDocumentReference("b", "State", "pat-1")
	if a.ID() == b.ID() {
		t.Errorf("expected distinct generated ids, both %q", a.ID())
	}
}
