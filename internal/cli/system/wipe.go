package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/rindful/internal/cli"
)

type WipeCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *WipeCmd) Run(app *cli.Context, ctx context.Context) error {
	owner := app.Journal.Owner()
	ok, err := app.Confirm(fmt.Sprintf("Delete every entry and the stats of %s?", owner), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("wipe cancelled")
	}

	l, err := app.WriterLock("wipe")
	if err != nil {
		return err
	}
	defer l.Release()

	app.PerformAutomaticBackup(ctx)
	if err := app.Journal.Wipe(ctx); err != nil {
		return err
	}
	app.Printf("✓ Wiped all local data for %s\n", owner)
	return nil
}
