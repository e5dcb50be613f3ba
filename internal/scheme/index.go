package scheme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Lookup for unknown scheme names
var ErrNotFound = errors.New("scheme not found")

// Index manages all available schemes
type Index struct {
	schemes    map[string]*Scheme
	schemesDir string
}

// NewIndex loads the built-in schemes plus every *.yaml file in dir.
// A missing dir yields the built-ins only. Files that fail to parse or
// validate are skipped.
func NewIndex(dir string) (*Index, error) {
	idx := &Index{
		schemes:    make(map[string]*Scheme),
		schemesDir: dir,
	}
	for _, s := range Builtins() {
		idx.schemes[s.Name] = s
	}

	if dir == "" {
		return idx, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return idx, nil
		}
		return nil, fmt.Errorf("read schemes dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		s, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip invalid schemes
		}
		idx.schemes[s.Name] = s
	}

	return idx, nil
}

// LoadFile parses a single scheme file
func LoadFile(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Scheme
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scheme %s: %w", path, err)
	}

	// File name is the fallback name
	if strings.TrimSpace(s.Name) == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.Name = strings.ToLower(strings.TrimSpace(s.Name))
	if s.Step == "" {
		s.Step = "Step {n}"
	}
	if s.Generic == "" {
		s.Generic = "Slide {n}"
	}
	s.Path = path

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns a scheme by name
func (idx *Index) Get(name string) *Scheme {
	if idx == nil {
		return nil
	}
	return idx.schemes[strings.ToLower(strings.TrimSpace(name))]
}

// Lookup is Get with an error for unknown names
func (idx *Index) Lookup(name string) (*Scheme, error) {
	if s := idx.Get(name); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// GetAll returns all schemes sorted by name
func (idx *Index) GetAll() []*Scheme {
	if idx == nil {
		return nil
	}
	result := make([]*Scheme, 0, len(idx.schemes))
	for _, s := range idx.schemes {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// List returns all scheme names, sorted
func (idx *Index) List() []string {
	all := idx.GetAll()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	return names
}

// SchemesDir returns the directory user schemes are loaded from
func (idx *Index) SchemesDir() string {
	return idx.schemesDir
}

// Count returns the number of loaded schemes
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	return len(idx.schemes)
}
