package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/keyring"
	"github.com/julianstephens/rindful/internal/storage/backend"
	"github.com/julianstephens/rindful/internal/storage/postgres"
)

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(app *cli.Context) error {
	if !backend.IsPostgres(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so embedded credentials are accepted here.
		app.Println("Warning: connection string contains embedded credentials.")
		app.Println("  It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	app.Println("✓ Connection string stored in OS keyring")
	app.Printf("  Set %q as the database in your config to use it\n", backend.KeyringLocation)
	return nil
}

// KeyringGetCmd prints the stored connection string with the password masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(app *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'rindful keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}
	app.Println(MaskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(app *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	app.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(app *cli.Context) error {
	if !keyring.IsAvailable() {
		app.Println("✗ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	app.Println("✓ OS keyring is available")

	if _, err := keyring.GetConnectionString(); err == nil {
		app.Println("✓ Connection string is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		app.Println("ℹ No connection string stored in keyring")
	}
	if id, err := keyring.GetOwnerID(); err == nil {
		app.Printf("✓ Owner id is stored in keyring: %s\n", id)
	}
	return nil
}
