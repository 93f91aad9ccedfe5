// Package backend picks and opens the storage engine named by a database setting.
package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/keyring"
	"github.com/julianstephens/rindful/internal/storage"
	"github.com/julianstephens/rindful/internal/storage/postgres"
	"github.com/julianstephens/rindful/internal/storage/sqlite"
)

// KeyringLocation as the database setting means "read the connection string
// from the OS keyring".
const KeyringLocation = "keyring"

// IsPostgres reports whether location is a PostgreSQL connection string.
func IsPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") ||
		strings.Contains(location, "host=") || strings.Contains(location, "dbname=")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Resolve turns a database setting into a concrete location. The
// RINDFUL_DB_CONNECTION environment variable and the keyring may hold
// credentials; a connection string written in config or flags must not.
func Resolve(location string) (string, error) {
	if env := os.Getenv(constants.EnvDBConn); env != "" {
		return env, nil
	}

	if location == KeyringLocation {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", fmt.Errorf("no connection string in keyring, run 'rindful keyring set' first")
			}
			return "", err
		}
		return connStr, nil
	}

	if IsPostgres(location) {
		if _, err := postgres.ValidateConnString(location); err != nil {
			return "", err
		}
		return location, nil
	}

	if location == "" {
		location = constants.DefaultDBPath
	}
	return ExpandPath(location)
}

// New builds an unopened store for location.
func New(location string) (storage.Provider, error) {
	resolved, err := Resolve(location)
	if err != nil {
		return nil, err
	}
	if IsPostgres(resolved) {
		return postgres.New(resolved), nil
	}
	return sqlite.NewStore(resolved), nil
}

// Opener returns the OpenFunc used by storage.Handle: it builds the store,
// creates or migrates the schema and hands it over ready for Verify.
func Opener(location string) storage.OpenFunc {
	return func(ctx context.Context) (storage.Provider, error) {
		p, err := New(location)
		if err != nil {
			return nil, err
		}
		if err := p.Init(ctx); err != nil {
			_ = p.Close()
			return nil, err
		}
		return p, nil
	}
}
