// Package data holds the import and export commands.
package data

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/transfer"
)

// resolveFormat prefers an explicit format, then the file extension, then
// fallback.
func resolveFormat(explicit, path, fallback string) (string, error) {
	if explicit != "" {
		return strings.ToLower(explicit), nil
	}
	if path != "" {
		return transfer.FormatFromPath(path)
	}
	return fallback, nil
}

// write sends data to path, or to the command output when path is empty.
func write(app *cli.Context, path string, data []byte) error {
	if path == "" {
		_, err := app.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

type ExportCmd struct {
	Format string `short:"f" help:"Output format (csv|json). Defaults to the output extension, else json."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
	From   string `help:"First date (YYYY-MM-DD)."`
	To     string `help:"Last date (YYYY-MM-DD)."`
}

func (c *ExportCmd) Run(app *cli.Context, ctx context.Context) error {
	format, err := resolveFormat(c.Format, c.Output, constants.FormatJSON)
	if err != nil {
		return err
	}

	var entries []models.DailyEntry
	if c.From == "" && c.To == "" {
		entries, err = app.Journal.ListAll(ctx)
	} else {
		var start, end string
		if start, err = app.Date(c.From); err != nil {
			return err
		}
		if end, err = app.Date(c.To); err != nil {
			return err
		}
		entries, err = app.Journal.GetEntriesInRange(ctx, start, end)
	}
	if err != nil {
		return err
	}

	data, err := transfer.Export(entries, format)
	if err != nil {
		return err
	}
	if err := write(app, c.Output, data); err != nil {
		return err
	}
	if c.Output != "" {
		app.Printf("✓ Exported %d entries to %s\n", len(entries), c.Output)
	}
	return nil
}

// MoodExportCmd writes the mood history of a range with its summary.
type MoodExportCmd struct {
	From   string `required:"" help:"First date (YYYY-MM-DD)."`
	To     string `help:"Last date (YYYY-MM-DD). Defaults to today."`
	Format string `short:"f" help:"Output format (csv|json)."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

func (c *MoodExportCmd) Run(app *cli.Context, ctx context.Context) error {
	format, err := resolveFormat(c.Format, c.Output, constants.FormatCSV)
	if err != nil {
		return err
	}
	start, err := app.Date(c.From)
	if err != nil {
		return err
	}
	end, err := app.Date(c.To)
	if err != nil {
		return err
	}

	entries, err := app.Journal.MoodEntries(ctx, start, end)
	if err != nil {
		return err
	}
	data, err := transfer.ExportMoodHistory(entries, start, end, format, app.Location())
	if err != nil {
		return err
	}
	if err := write(app, c.Output, data); err != nil {
		return err
	}
	if c.Output != "" {
		app.Printf("✓ Exported %d mood ratings to %s\n", len(entries), c.Output)
	}
	return nil
}
