// Package specs provides embedded sample pathway definitions and their
// shared query library, used by the command line tool and integration
// tests.
package specs

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Ninjabillcos/pathways"
	"github.com/Ninjabillcos/pathways/loader"
	"github.com/Ninjabillcos/pathways/service"
)

//go:embed pathways/*.json
var pathwayFiles embed.FS

//go:embed libraries/*.cql
var libraryFiles embed.FS

// SamplePathways parses and returns the embedded pathway definitions,
// sorted by file name.
func SamplePathways() ([]*pathways.Pathway, error) {
	entries, err := pathwayFiles.ReadDir("pathways")
	if err != nil {
		return nil, fmt.Errorf("reading embedded pathways: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	result := make([]*pathways.Pathway, 0, len(names))
	for _, name := range names {
		data, err := pathwayFiles.ReadFile(path.Join("pathways", name))
		if err != nil {
			return nil, fmt.Errorf("reading embedded pathway %s: %w", name, err)
		}
		p, err := loader.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded pathway %s: %w", name, err)
		}
		result = append(result, p)
	}
	return result, nil
}

// LibrarySource returns a library source backed by the embedded query
// libraries, keyed by file name.
func LibrarySource() (service.LibrarySource, error) {
	entries, err := libraryFiles.ReadDir("libraries")
	if err != nil {
		return nil, fmt.Errorf("reading embedded libraries: %w", err)
	}

	source := make(service.StaticLibrarySource, len(entries))
	for _, e := range entries {
		data, err := libraryFiles.ReadFile(path.Join("libraries", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading embedded library %s: %w", e.Name(), err)
		}
		source[e.Name()] = strings.TrimSpace(string(data))
	}
	return source, nil
}
