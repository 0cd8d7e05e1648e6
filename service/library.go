package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Ninjabillcos/pathways"
)

// LibrarySource resolves a pathway's shared query definition library by
// the name declared in the pathway. A source reports a missing library
// with a *pathways.LibraryNotFoundError so chains can keep looking.
type LibrarySource interface {
	Library(ctx context.Context, name string) (string, error)
}

// --- File source ---

// FileLibrarySource resolves libraries from files in a directory.
type FileLibrarySource struct {
	dir string
}

// NewFileLibrarySource creates a source reading libraries from dir.
func NewFileLibrarySource(dir string) *FileLibrarySource {
	return &FileLibrarySource{dir: dir}
}

// Library reads the library file named by the pathway. The name is used
// as-is; pathway definitions conventionally include the extension
// (e.g. "mCODE_Library.cql").
func (s *FileLibrarySource) Library(_ context.Context, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &pathways.LibraryNotFoundError{Library: name}
		}
		return "", fmt.Errorf("reading library %q: %w", name, err)
	}
	return string(data), nil
}

// --- HTTP source ---

// HTTPLibrarySource resolves libraries from a static file endpoint,
// fetching baseURL/name per lookup.
type HTTPLibrarySource struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPLibraryOption configures an HTTPLibrarySource.
type HTTPLibraryOption func(*HTTPLibrarySource)

// WithLibraryHTTPClient sets a custom HTTP client.
func WithLibraryHTTPClient(client *http.Client) HTTPLibraryOption {
	return func(s *HTTPLibrarySource) {
		s.httpClient = client
	}
}

// WithLibraryTimeout sets the HTTP timeout.
func WithLibraryTimeout(timeout time.Duration) HTTPLibraryOption {
	return func(s *HTTPLibrarySource) {
		s.httpClient.Timeout = timeout
	}
}

// NewHTTPLibrarySource creates a source fetching libraries under baseURL.
func NewHTTPLibrarySource(baseURL string, opts ...HTTPLibraryOption) *HTTPLibrarySource {
	s := &HTTPLibrarySource{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Library fetches the named library.
func (s *HTTPLibrarySource) Library(ctx context.Context, name string) (string, error) {
	url := s.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building library request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching library %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &pathways.LibraryNotFoundError{Library: name}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching library %q: unexpected status %s", name, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading library %q: %w", name, err)
	}
	return string(data), nil
}

// --- Chain ---

// LibraryChain implements LibrarySource by trying multiple sources in
// order, continuing past not-found results.
type LibraryChain struct {
	sources []LibrarySource
}

// NewLibraryChain creates a new library chain.
func NewLibraryChain(sources ...LibrarySource) *LibraryChain {
	return &LibraryChain{sources: sources}
}

// Add appends a source to the chain.
func (c *LibraryChain) Add(source LibrarySource) {
	c.sources = append(c.sources, source)
}

// Library tries each source until one succeeds. Any failure other than
// not-found stops the chain immediately.
func (c *LibraryChain) Library(ctx context.Context, name string) (string, error) {
	for _, source := range c.sources {
		text, err := source.Library(ctx, name)
		if err == nil {
			return text, nil
		}
		var notFound *pathways.LibraryNotFoundError
		if !errors.As(err, &notFound) {
			return "", err
		}
	}
	return "", &pathways.LibraryNotFoundError{Library: name}
}

// StaticLibrarySource resolves libraries from an in-memory map, primarily
// for tests and embedded demo content.
type StaticLibrarySource map[string]string

// Library returns the named library from the map.
func (s StaticLibrarySource) Library(_ context.Context, name string) (string, error) {
	text, ok := s[name]
	if !ok {
		return "", &pathways.LibraryNotFoundError{Library: name}
	}
	return text, nil
}
