package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/transfer"
)

const progressEvery = 100

type ImportCmd struct {
	File      string `arg:"" type:"existingfile" help:"CSV or JSON file to import."`
	Format    string `short:"f" help:"Input format. Defaults to the file extension."`
	Overwrite bool   `help:"Replace entries that already have journal text."`
}

func (c *ImportCmd) Run(app *cli.Context, ctx context.Context) error {
	format, err := resolveFormat(c.Format, c.File, "")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	l, err := app.WriterLock("import")
	if err != nil {
		return err
	}
	defer l.Release()

	app.PerformAutomaticBackup(ctx)

	res, err := transfer.NewImporter(app.Journal).Import(ctx, data, format, transfer.Options{
		Overwrite: c.Overwrite,
		OnProgress: func(processed, total int, outcome transfer.Outcome) {
			logger.Debug("Imported record", "row", processed, "outcome", outcome)
			if total > progressEvery && (processed%progressEvery == 0 || processed == total) {
				app.Printf("  %d/%d processed\n", processed, total)
			}
		},
	})
	if err != nil {
		return err
	}

	app.Printf("✓ Imported %d of %d entries (%d skipped, %d failed)\n", res.Imported, res.Total, res.Skipped, res.Failed)
	for _, e := range res.Errors {
		app.Printf("  row %d (%s): %s\n", e.Row, e.Date, e.Error)
	}
	if res.Skipped > 0 && !c.Overwrite {
		app.Println("  Entries with existing text were skipped; rerun with --overwrite to replace them.")
	}
	return nil
}

type ValidateCmd struct {
	File   string `arg:"" type:"existingfile" help:"CSV or JSON file to check."`
	Format string `short:"f" help:"Input format. Defaults to the file extension."`
	JSON   bool   `help:"Print the report as JSON."`
}

func (c *ValidateCmd) Run(app *cli.Context) error {
	format, err := resolveFormat(c.Format, c.File, "")
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	v := transfer.Validate(data, format)
	if c.JSON {
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		app.Println(string(out))
	} else if v.Valid {
		app.Printf("✓ %d valid entries", v.EntryCount)
		if v.DateRange != nil {
			app.Printf(" from %s to %s", v.DateRange.Earliest, v.DateRange.Latest)
		}
		app.Println()
		if v.Invalid > 0 {
			app.Printf("⚠ %d invalid record(s) would be skipped\n", v.Invalid)
		}
	}
	if !v.Valid {
		if !c.JSON {
			app.Printf("✗ Invalid file: %s\n", v.Error)
		}
		return fmt.Errorf("%s is not a valid %s export", c.File, format)
	}
	return nil
}
