// Package identity supplies the owner id that scopes every journal record.
package identity

import (
	"errors"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/keyring"
	"github.com/julianstephens/rindful/internal/logger"
)

// Provider returns the current owner id. It is consulted on every operation,
// so a sign-in change takes effect without rebuilding the service.
type Provider interface {
	OwnerID() string
}

// Static always returns the same owner.
type Static string

func (s Static) OwnerID() string {
	if s == "" {
		return constants.LocalOwnerID
	}
	return string(s)
}

// Keyring reads the owner id from the OS keyring, falling back to
// local_user when none is stored or the keyring is unavailable.
type Keyring struct{}

func (Keyring) OwnerID() string {
	id, err := keyring.GetOwnerID()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Owner id lookup failed, using local owner", "error", err)
		}
		return constants.LocalOwnerID
	}
	return id
}

// FromConfig returns a Static provider when owner is fixed in config,
// otherwise the keyring-backed provider.
func FromConfig(owner string) Provider {
	if owner != "" {
		return Static(owner)
	}
	return Keyring{}
}
