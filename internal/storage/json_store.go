package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type document struct {
	Version   int                        `json:"version"`
	Snapshots map[string]json.RawMessage `json:"snapshots"`
}

// JSONStore keeps every snapshot in a single JSON file.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Open()
	}

	s.doc = &document{Version: 1, Snapshots: make(map[string]json.RawMessage)}
	return s.write()
}

func (s *JSONStore) Open() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Snapshots == nil {
		doc.Snapshots = make(map[string]json.RawMessage)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Load(key string) ([]byte, bool, error) {
	if s.doc == nil {
		return nil, false, ErrNotOpen
	}
	raw, ok := s.doc.Snapshots[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (s *JSONStore) Save(key string, data []byte) error {
	if s.doc == nil {
		return ErrNotOpen
	}
	if !json.Valid(data) {
		return fmt.Errorf("snapshot %s is not valid JSON", key)
	}
	s.doc.Snapshots[key] = json.RawMessage(append([]byte(nil), data...))
	return s.write()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.doc == nil {
		return nil, ErrNotOpen
	}
	keys := make([]string, 0, len(s.doc.Snapshots))
	for k := range s.doc.Snapshots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) write() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a sibling file first so a crash never leaves half a document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
