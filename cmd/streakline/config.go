package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/streakline/internal/constants"
	"github.com/julianstephens/streakline/internal/keyring"
	"github.com/julianstephens/streakline/internal/storage"
)

// keyringConfig selects the connection string from the environment or keyring.
const keyringConfig = "postgres"

// resolveProvider turns the --config value into a storage provider and the
// directory that holds logs and backups.
func resolveProvider(config string) (storage.Provider, string, error) {
	if strings.EqualFold(config, keyringConfig) {
		connStr, source, err := keyring.ResolveConnectionString()
		if err != nil {
			return nil, "", fmt.Errorf("no PostgreSQL connection string: set %s or run 'streakline keyring set': %w", constants.ConnectionEnvVar, err)
		}
		// Passwords are acceptable here; they never appear on the command line.
		if _, err := storage.ValidateConnString(connStr); err != nil && !stderrors.Is(err, storage.ErrEmbeddedCredentials) {
			return nil, "", fmt.Errorf("connection string from %s: %w", source, err)
		}
		dir, err := defaultConfigDir()
		return storage.NewPostgresStore(connStr), dir, err
	}

	path, err := expandHome(config)
	if err != nil {
		return nil, "", err
	}
	p, err := storage.FromConfig(path)
	if err != nil {
		return nil, "", err
	}
	if _, ok := p.(*storage.PostgresStore); ok {
		dir, err := defaultConfigDir()
		return p, dir, err
	}
	return p, filepath.Dir(path), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func defaultConfigDir() (string, error) {
	return expandHome(filepath.Join("~", ".config", constants.AppName))
}
