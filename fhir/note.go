package fhir

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// NoteIdentifierSystem is the identifier system marking a DocumentReference
// as a clinician-authored pathway note override.
const NoteIdentifierSystem = "pathways.documentreference"

// EncodeNoteIdentifier produces the identifier value for a note override
// keyed by a state label or condition description. The encoding is a plain
// reversible base64 so any consumer writing overrides can reproduce it.
func EncodeNoteIdentifier(labelOrCondition string) string {
	return base64.StdEncoding.EncodeToString([]byte(labelOrCondition))
}

// DecodeNoteIdentifier reverses EncodeNoteIdentifier.
func DecodeNoteIdentifier(value string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// NewNoteDocumentReference builds the DocumentReference a clinician's
// override note is stored as. The identifier carries the encoded state
// label or condition description the walker later looks the note up by,
// and the note text rides along as a base64 text/plain attachment.
func NewNoteDocumentReference(noteText, labelOrCondition, patientID string) Resource {
	now := time.Now().UTC().Format(time.RFC3339)
	return Resource{
		"resourceType": ResourceTypeDocumentReference,
		"id":           uuid.NewString(),
		"status":       "current",
		"meta": map[string]any{
			"lastUpdated": now,
		},
		"subject": map[string]any{
			"reference": "Patient/" + patientID,
		},
		"identifier": []any{
			map[string]any{
				"system": NoteIdentifierSystem,
				"value":  EncodeNoteIdentifier(labelOrCondition),
			},
		},
		"content": []any{
			map[string]any{
				"attachment": map[string]any{
					"data":        base64.StdEncoding.EncodeToString([]byte(noteText)),
					"contentType": "text/plain",
				},
			},
		},
		// Outpatient note. Required in STU3, optional in R4.
		"type": map[string]any{
			"coding": []any{
				map[string]any{
					"system":  "http://loinc.org",
					"code":    "34108-1",
					"display": "Outpatient Note",
				},
			},
		},
	}
}
