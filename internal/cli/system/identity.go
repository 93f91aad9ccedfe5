package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/keyring"
)

type IdentityShowCmd struct{}

func (c *IdentityShowCmd) Run(app *cli.Context) error {
	owner := app.Journal.Owner()
	source := "keyring"
	switch {
	case app.Config.Owner != "":
		source = "config"
	case owner == constants.LocalOwnerID:
		source = "default"
	}
	app.Printf("%s (%s)\n", owner, source)
	return nil
}

type IdentitySetCmd struct {
	OwnerID string `arg:"" help:"Owner id that scopes every entry."`
}

func (c *IdentitySetCmd) Run(app *cli.Context) error {
	id := strings.TrimSpace(c.OwnerID)
	if id == "" {
		return errors.New("owner id must not be empty")
	}
	if err := keyring.SetOwnerID(id); err != nil {
		return fmt.Errorf("failed to store owner id: %w", err)
	}
	app.Printf("✓ Owner id set to %s\n", id)
	if app.Config.Owner != "" {
		app.Printf("  Note: the config file fixes the owner to %s, which takes precedence\n", app.Config.Owner)
	}
	return nil
}

type IdentityClearCmd struct{}

func (c *IdentityClearCmd) Run(app *cli.Context) error {
	if err := keyring.DeleteOwnerID(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear owner id: %w", err)
	}
	app.Printf("✓ Owner id cleared; entries are now written as %s\n", constants.LocalOwnerID)
	return nil
}
