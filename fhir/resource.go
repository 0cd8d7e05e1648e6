// Package fhir provides lightweight, schema-free handling of the FHIR
// resources the pathway engine touches. Resources are kept in their parsed
// JSON form; typed accessors cover only the elements the engine reads, so
// records from any FHIR version pass through untouched.
package fhir

// Resource types the engine treats specially.
const (
	ResourceTypeBundle            = "Bundle"
	ResourceTypeDocumentReference = "DocumentReference"
	ResourceTypeMedicationRequest = "MedicationRequest"
	ResourceTypeServiceRequest    = "ServiceRequest"
)

// Resource is a FHIR resource in parsed JSON form.
type Resource map[string]any

// Type returns the resourceType element, or "" when absent.
func (r Resource) Type() string {
	return r.GetString("resourceType")
}

// ID returns the id element, or "" when absent.
func (r Resource) ID() string {
	return r.GetString("id")
}

// Status returns the status element, or "" when absent. Callers that need
// the distinction between a missing status and an unknown one should use
// HasStatus.
func (r Resource) Status() string {
	return r.GetString("status")
}

// HasStatus reports whether the resource carries a status element.
func (r Resource) HasStatus() bool {
	_, ok := r["status"].(string)
	return ok
}

// GetString returns the named top-level element as a string, or "" when the
// element is absent or not a string.
func (r Resource) GetString(key string) string {
	v, _ := r[key].(string)
	return v
}

// Identifier is a business identifier attached to a resource.
type Identifier struct {
	System string
	Value  string
}

// Identifiers returns the resource's identifier list. Entries missing a
// system or value come back with empty fields rather than being skipped.
func (r Resource) Identifiers() []Identifier {
	raw, ok := r["identifier"].([]any)
	if !ok {
		return nil
	}
	out := make([]Identifier, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := Identifier{}
		id.System, _ = m["system"].(string)
		id.Value, _ = m["value"].(string)
		out = append(out, id)
	}
	return out
}

// HumanName formats the resource's first name entry as
// "prefix given family suffix", the display form the original UI used.
func (r Resource) HumanName() string {
	names, ok := r["name"].([]any)
	if !ok || len(names) == 0 {
		return ""
	}
	first, ok := names[0].(map[string]any)
	if !ok {
		return ""
	}

	parts := []string{
		joinStrings(first["prefix"]),
		joinStrings(first["given"]),
		stringOf(first["family"]),
		joinStrings(first["suffix"]),
	}

	name := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += p
	}
	return name
}

func joinStrings(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	out := ""
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if out != "" {
			out += " "
		}
		out += s
	}
	return out
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}
