package walker

import "github.com/Ninjabillcos/pathways/fhir"

// FindNoteOverride scans the patient record set for a clinician-authored
// override note keyed by a state label or condition description: a
// DocumentReference carrying an identifier with the pathways note system
// and the base64 encoding of the identifier as its value.
//
// Returns the first match in record order, or nil when none exists.
func FindNoteOverride(identifier string, resources []fhir.Resource) fhir.Resource {
	encoded := fhir.EncodeNoteIdentifier(identifier)
	for _, r := range resources {
		if r.Type() != fhir.ResourceTypeDocumentReference {
			continue
		}
		for _, id := range r.Identifiers() {
			if id.System == fhir.NoteIdentifierSystem && id.Value == encoded {
				return r
			}
		}
	}
	return nil
}
