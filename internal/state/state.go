// Package state persists the current remote directory in a .magnus document
// inside a local directory.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/bayside-church/magnus-cli/pkg/tree"
)

const (
	// FileName is the state document kept in each pulled directory.
	FileName = ".magnus"

	currentDirectoryKey = "currentDirectory"
)

// Store reads and writes the state document of one local directory.
type Store struct {
	dir string
}

// New returns the store for dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the location of the state document.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Get returns the current remote directory, or "root" when the document is
// missing, unreadable, or has no usable value.
func (s *Store) Get() string {
	doc, err := s.read()
	if err != nil {
		return tree.RootDirectory
	}
	raw, ok := doc[currentDirectoryKey]
	if !ok {
		return tree.RootDirectory
	}
	var dir string
	if err := json.Unmarshal(raw, &dir); err != nil || dir == "" {
		return tree.RootDirectory
	}
	return dir
}

// Set stores path as the current remote directory. Other keys in the
// document are kept; an unparseable document is replaced.
func (s *Store) Set(path string) error {
	doc, err := s.read()
	if err != nil {
		doc = map[string]json.RawMessage{}
	}

	value, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("failed to save current directory: %w", err)
	}
	doc[currentDirectoryKey] = value

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to save current directory: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to save current directory: %w", err)
	}
	return nil
}

// read accepts comments and trailing commas in hand-edited documents.
func (s *Store) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}
