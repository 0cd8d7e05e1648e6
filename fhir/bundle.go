package fhir

import "encoding/json"

// Bundle is the fixed container shape patient records cross the evaluator
// boundary in: {"resourceType": "Bundle", "entry": [{"resource": ...}]}.
type Bundle struct {
	Entries []Resource
}

// NewBundle creates a bundle over the given resources.
func NewBundle(resources ...Resource) *Bundle {
	return &Bundle{Entries: resources}
}

// ParseBundle parses a JSON bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type wireBundle struct {
	ResourceType string      `json:"resourceType"`
	Type         string      `json:"type,omitempty"`
	Entry        []wireEntry `json:"entry"`
}

type wireEntry struct {
	Resource Resource `json:"resource"`
}

// UnmarshalJSON accepts the wire container shape.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var w wireBundle
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.Entries = b.Entries[:0]
	for _, e := range w.Entry {
		if e.Resource != nil {
			b.Entries = append(b.Entries, e.Resource)
		}
	}
	return nil
}

// MarshalJSON emits the wire container shape.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	w := wireBundle{
		ResourceType: ResourceTypeBundle,
		Type:         "collection",
		Entry:        make([]wireEntry, 0, len(b.Entries)),
	}
	for _, r := range b.Entries {
		w.Entry = append(w.Entry, wireEntry{Resource: r})
	}
	return json.Marshal(w)
}

// Add appends a resource to the bundle.
func (b *Bundle) Add(r Resource) {
	b.Entries = append(b.Entries, r)
}

// Resources returns the contained resources in entry order.
func (b *Bundle) Resources() []Resource {
	return b.Entries
}

// Find returns the first resource with the given type and id, or nil.
func (b *Bundle) Find(resourceType, id string) Resource {
	for _, r := range b.Entries {
		if r.Type() == resourceType && r.ID() == id {
			return r
		}
	}
	return nil
}

// Len returns the number of contained resources.
func (b *Bundle) Len() int {
	return len(b.Entries)
}
