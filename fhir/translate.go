package fhir

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UnsupportedResourceError reports an attempt to translate a recommendation
// resource of a clinical type the engine has no order template for. It is
// distinct from evidence-absent conditions, which are never errors.
type UnsupportedResourceError struct {
	ResourceType string
}

func (e *UnsupportedResourceError) Error() string {
	return fmt.Sprintf("no order translation for resource type %q", e.ResourceType)
}

// TranslateRecommendation turns a guidance action's coded resource into an
// active order for the given patient, ready to be written back into the
// patient's record set. Supported types are MedicationRequest and
// ServiceRequest; anything else returns an UnsupportedResourceError.
func TranslateRecommendation(recommendation Resource, patientID string) (Resource, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	order := Resource{
		"resourceType": recommendation.Type(),
		"id":           uuid.NewString(),
		"intent":       "order",
		"status":       "active",
		"authoredOn":   now,
		"subject": map[string]any{
			"reference": "Patient/" + patientID,
		},
		"meta": map[string]any{
			"lastUpdated": now,
		},
	}

	switch recommendation.Type() {
	case ResourceTypeServiceRequest:
		if code, ok := recommendation["code"]; ok {
			order["code"] = code
		}
	case ResourceTypeMedicationRequest:
		if medication, ok := recommendation["medicationCodeableConcept"]; ok {
			order["medicationCodeableConcept"] = medication
		}
	default:
		return nil, &UnsupportedResourceError{ResourceType: recommendation.Type()}
	}

	return order, nil
}
