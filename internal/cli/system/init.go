package system

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/config"
	"github.com/julianstephens/rindful/internal/storage/backend"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initializing."`
	Yes   bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *InitCmd) Run(app *cli.Context, ctx context.Context) error {
	if c.Force {
		if err := c.reset(app); err != nil {
			return err
		}
	}

	store, err := backend.New(app.Config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.Printf("Initialized rindful storage at: %s\n", store.Location())

	if _, err := os.Stat(app.ConfigPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Init(app.ConfigPath, app.Config, false); err != nil {
			return err
		}
		app.Printf("Wrote configuration to: %s\n", app.ConfigPath)
	}
	return nil
}

func (c *InitCmd) reset(app *cli.Context) error {
	path, ok := app.DBPath()
	if !ok {
		return errors.New("--force only applies to SQLite databases")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ok, err := app.Confirm(fmt.Sprintf("Delete the database at %s and every entry in it?", path), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("init cancelled")
	}

	// The handle may hold the file open.
	if err := app.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	app.Printf("Deleted existing database at: %s\n", path)
	return nil
}
