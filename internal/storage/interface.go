package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/streakline/internal/migration"
)

var (
	// ErrNotInitialized is returned when the backing store has never been set up.
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrNotOpen is returned when a provider is used before Open or Init.
	ErrNotOpen = errors.New("storage not open")
)

// Provider persists whole-state snapshots under string keys.
type Provider interface {
	// Lifecycle
	Init() error
	Open() error
	Close() error

	// Snapshots. Load reports ok=false when nothing is stored under key.
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL providers.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

func schemaVersion(r *migration.Runner) (int, int, error) {
	st, err := r.Status()
	if err != nil {
		return 0, 0, err
	}
	return st.Current, st.Latest, nil
}

// LoadJSON decodes the snapshot stored under key into v.
func LoadJSON(p Provider, key string, v any) (bool, error) {
	data, ok, err := p.Load(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s snapshot: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s snapshot: %w", key, err)
	}
	return p.Save(key, data)
}
