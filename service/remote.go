package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/extract"
	"github.com/Ninjabillcos/pathways/fhir"
)

// DefaultRemoteTimeout bounds a remote evaluation request.
const DefaultRemoteTimeout = 30 * time.Second

// RemoteEvaluator executes built queries through an external clinical
// query service over HTTP. The request carries the rendered query text and
// the patient bundle; the response body is the per-element result map.
//
// The evaluator performs no retries. A transport or non-2xx failure is
// returned to the caller as-is.
type RemoteEvaluator struct {
	endpoint   string
	httpClient *http.Client
}

// RemoteOption configures a RemoteEvaluator.
type RemoteOption func(*RemoteEvaluator)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(e *RemoteEvaluator) {
		e.httpClient = client
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(e *RemoteEvaluator) {
		e.httpClient.Timeout = timeout
	}
}

// NewRemoteEvaluator creates an evaluator posting to the given endpoint.
func NewRemoteEvaluator(endpoint string, opts ...RemoteOption) *RemoteEvaluator {
	e := &RemoteEvaluator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: DefaultRemoteTimeout,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// remoteRequest is the evaluation request body.
type remoteRequest struct {
	Query   string       `json:"query"`
	Patient *fhir.Bundle `json:"patient"`
}

// Evaluate implements PredicateEvaluator.
func (e *RemoteEvaluator) Evaluate(ctx context.Context, query extract.Query, bundle *fhir.Bundle) (pathways.PatientData, error) {
	body, err := json.Marshal(remoteRequest{
		Query:   query.Text(),
		Patient: bundle,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding evaluation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building evaluation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evaluating query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("evaluating query: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading evaluation response: %w", err)
	}

	var results pathways.PatientData
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decoding evaluation response: %w", err)
	}
	return results, nil
}

// Verify interface compliance.
var _ PredicateEvaluator = (*RemoteEvaluator)(nil)
