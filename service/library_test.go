package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ninjabillcos/pathways"
)

const libraryText = "library Test version '1.0.0'"

func TestFileLibrarySource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Test.cql"), []byte(libraryText), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	source := NewFileLibrarySource(dir)

	got, err := source.Library(context.Background(), "Test.cql")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if got != libraryText {
		t.Errorf("expected %q, got %q", libraryText, got)
	}
}

func TestFileLibrarySource_NotFound(t *testing.T) {
	source := NewFileLibrarySource(t.TempDir())

	_, err := source.Library(context.Background(), "Missing.cql")
	var notFound *pathways.LibraryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected LibraryNotFoundError, got %v", err)
	}
	if notFound.Library != "Missing.cql" {
		t.Errorf("expected library name in error, got %q", notFound.Library)
	}
}

func TestFileLibrarySource_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Test.cql"), []byte(libraryText), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	source := NewFileLibrarySource(dir)

	// Directory traversal in a declared library name must not escape dir.
	got, err := source.Library(context.Background(), "../../Test.cql")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if got != libraryText {
		t.Errorf("expected base-name lookup, got %q", got)
	}
}

func TestHTTPLibrarySource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Test.cql":
			w.Write([]byte(libraryText))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	source := NewHTTPLibrarySource(server.URL)

	got, err := source.Library(context.Background(), "Test.cql")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if got != libraryText {
		t.Errorf("expected %q, got %q", libraryText, got)
	}

	_, err = source.Library(context.Background(), "Missing.cql")
	var notFound *pathways.LibraryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected LibraryNotFoundError for 404, got %v", err)
	}
}

func TestHTTPLibrarySource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPLibrarySource(server.URL)

	_, err := source.Library(context.Background(), "Test.cql")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	var notFound *pathways.LibraryNotFoundError
	if errors.As(err, &notFound) {
		t.Error("a server error must not be reported as not-found")
	}
}

func TestLibraryChain(t *testing.T) {
	primary := StaticLibrarySource{"A.cql": "library A"}
	secondary := StaticLibrarySource{"B.cql": "library B"}

	chain := NewLibraryChain(primary)
	chain.Add(secondary)

	got, err := chain.Library(context.Background(), "B.cql")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if got != "library B" {
		t.Errorf("expected fallback source result, got %q", got)
	}

	// Earlier sources win.
	both := NewLibraryChain(
		StaticLibrarySource{"A.cql": "first"},
		StaticLibrarySource{"A.cql": "second"},
	)
	got, err = both.Library(context.Background(), "A.cql")
	if err != nil || got != "first" {
		t.Errorf("expected first source to win, got %q (%v)", got, err)
	}
}

func TestLibraryChain_AllMiss(t *testing.T) {
	chain := NewLibraryChain(StaticLibrarySource{}, StaticLibrarySource{})

	_, err := chain.Library(context.Background(), "Missing.cql")
	var notFound *pathways.LibraryNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected LibraryNotFoundError, got %v", err)
	}
}

func TestLibraryChain_StopsOnHardFailure(t *testing.T) {
	hardErr := errors.New("disk on fire")
	failing := libraryFunc(func(context.Context, string) (string, error) {
		return "", hardErr
	})
	fallback := StaticLibrarySource{"A.cql": "should not be reached"}

	chain := NewLibraryChain(failing, fallback)

	_, err := chain.Library(context.Background(), "A.cql")
	if !errors.Is(err, hardErr) {
		t.Fatalf("expected the hard failure to stop the chain, got %v", err)
	}
}

// libraryFunc adapts a function to LibrarySource for tests.
type libraryFunc func(ctx context.Context, name string) (string, error)

func (f libraryFunc) Library(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}
