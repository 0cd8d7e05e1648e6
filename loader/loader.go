// Package loader reads pathway definitions from JSON or YAML files and
// serves them from memory.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ninjabillcos/pathways"
)

// Parse parses a pathway definition from JSON and validates it.
func Parse(data []byte) (*pathways.Pathway, error) {
	var p pathways.Pathway
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing pathway: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseYAML parses a pathway definition from YAML and validates it.
// The document is converted through its JSON form so the wire format and
// state-kind derivation stay identical across both encodings.
func ParseYAML(data []byte) (*pathways.Pathway, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing pathway yaml: %w", err)
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting pathway yaml: %w", err)
	}
	return Parse(jsonData)
}

// LoadFile loads one pathway definition, selecting the parser by file
// extension (.json, .yaml, .yml).
func LoadFile(path string) (*pathways.Pathway, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pathway file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// LoadDir loads every pathway definition in a directory, in file name
// order. Files without a recognized extension are skipped.
func LoadDir(dir string) ([]*pathways.Pathway, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pathway directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	loaded := make([]*pathways.Pathway, 0, len(names))
	for _, name := range names {
		p, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
