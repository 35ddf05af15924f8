package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FromConfig picks a provider for a config value: a PostgreSQL URL or DSN,
// a .json file, or otherwise a SQLite database path.
func FromConfig(config string) (Provider, error) {
	switch {
	case IsPostgresURL(config) || strings.Contains(config, "host="):
		if _, err := ValidateConnString(config); err != nil {
			if errors.Is(err, ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection string contains embedded credentials; store it with 'streakline keyring set' or use .pgpass instead")
			}
			return nil, err
		}
		return NewPostgresStore(config), nil
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return NewJSONStore(config), nil
	default:
		return NewSQLiteStore(config), nil
	}
}

// Copy writes every snapshot in src into dst and returns the copied keys.
// Both providers must be open.
func Copy(dst, src Provider) ([]string, error) {
	keys, err := src.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list source snapshots: %w", err)
	}
	for _, key := range keys {
		data, ok, err := src.Load(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := dst.Save(key, data); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", key, err)
		}
	}
	return keys, nil
}
