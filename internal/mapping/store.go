package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/hyperjump/smartdata/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is wrapped by a ConfigurationError when the resource has no content.
var ErrEmpty = errors.New("keyword mapping is empty")

// ConfigurationError reports a missing or malformed keyword mapping resource.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("keyword mapping %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Store reads and writes the keyword mapping YAML file. It does not cache:
// every Load reads the file again, so saved edits apply to the next classification.
type Store struct {
	path string
}

// NewStore returns a store backed by the YAML file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the resource path.
func (s *Store) Path() string { return s.path }

// Load reads and parses the mapping resource.
func (s *Store) Load() (*KeywordMapping, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &ConfigurationError{Path: s.path, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &ConfigurationError{Path: s.path, Err: err}
	}
	return m, nil
}

// Parse decodes a YAML keyword mapping.
func Parse(data []byte) (*KeywordMapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var m KeywordMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save replaces the resource with m. The YAML is written to a temporary file in the same
// directory and renamed over the resource, so a reader sees either the old or the new file.
// Concurrent Save calls are not serialized.
func (s *Store) Save(m *KeywordMapping) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword mapping: %w", err)
	}
	return utils.WriteFileAtomic(s.path, data, 0644)
}
