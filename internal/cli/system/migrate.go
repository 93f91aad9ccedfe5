package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/storage/backend"
)

// migrator is implemented by both storage engines.
type migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaVersion(ctx context.Context) (int, int, error)
	Close() error
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *cli.Context, ctx context.Context) error {
	store, err := backend.New(app.Config.Database)
	if err != nil {
		return err
	}
	m, ok := store.(migrator)
	if !ok {
		return fmt.Errorf("storage at %s does not support migrations", store.Location())
	}
	defer m.Close()

	count, err := m.Migrate(ctx, func(msg string) {
		app.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		app.Println("No migrations to apply. Database is up to date.")
	} else {
		app.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
