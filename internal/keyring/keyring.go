package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/rindful/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	v, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(user, what, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, user, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func remove(user, what string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	return set(constants.DefaultKeyringUser, "connection string", connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return remove(constants.DefaultKeyringUser, "connection string")
}

// GetOwnerID retrieves the signed-in owner id. Returns ErrNotFound when
// nobody is signed in.
func GetOwnerID() (string, error) {
	return get(constants.OwnerKeyringUser)
}

// SetOwnerID stores the owner id that scopes every journal operation.
func SetOwnerID(ownerID string) error {
	return set(constants.OwnerKeyringUser, "owner id", ownerID)
}

// DeleteOwnerID signs the owner out; later calls fall back to the local owner.
func DeleteOwnerID() error {
	return remove(constants.OwnerKeyringUser, "owner id")
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring works but is empty
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
