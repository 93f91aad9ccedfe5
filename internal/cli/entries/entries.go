// Package entries holds the commands that read and write daily entries.
package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/content"
	"github.com/julianstephens/rindful/internal/models"
)

type EntryShowCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today or yesterday). Defaults to today."`
}

func (c *EntryShowCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	entry, err := app.Journal.GetEntry(ctx, date)
	if err != nil {
		return err
	}
	if entry == nil {
		app.Printf("No entry for %s.\n", date)
		return nil
	}
	PrintEntry(app, *entry)
	return nil
}

// PrintEntry writes a full entry in reading form.
func PrintEntry(app *cli.Context, e models.DailyEntry) {
	app.Printf("%s\n", e.Date)
	app.Printf("  Mood:   %s\n", models.RatingMood.Label(e.Mood))
	app.Printf("  Energy: %s\n", models.RatingEnergy.Label(e.Energy))
	app.Printf("  Words:  %d\n", e.WordCount)
	if e.HasContent() {
		app.Println()
		app.Println(content.StripHTML(e.Content))
	}
	if len(e.Tasks) > 0 {
		app.Println()
		app.Printf("Tasks (%d/%d done):\n", models.CountCompleted(e.Tasks), len(e.Tasks))
		for _, t := range models.SortTasksForDisplay(e.Tasks) {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			app.Printf("  %s %s  (%s)\n", mark, t.Title, t.ID)
		}
	}
}

type EntryListCmd struct {
	From  string `help:"First date (YYYY-MM-DD)."`
	To    string `help:"Last date (YYYY-MM-DD). Defaults to today."`
	Limit int    `short:"n" help:"Show at most this many entries." default:"0"`
}

func (c *EntryListCmd) Run(app *cli.Context, ctx context.Context) error {
	var entries []models.DailyEntry
	var err error
	if c.From == "" && c.To == "" {
		entries, err = app.Journal.ListAll(ctx)
	} else {
		to, derr := app.Date(c.To)
		if derr != nil {
			return derr
		}
		from := c.From
		if from == "" {
			from = to
		}
		entries, err = app.Journal.GetEntriesInRange(ctx, from, to)
	}
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	if len(entries) == 0 {
		app.Println("No entries found.")
		return nil
	}

	app.Printf("%-10s  %-10s  %-14s  %5s  %5s  %s\n", "DATE", "MOOD", "ENERGY", "WORDS", "TASKS", "EXCERPT")
	for _, e := range entries {
		app.Printf("%-10s  %-10s  %-14s  %5d  %5s  %s\n",
			e.Date,
			models.RatingMood.Label(e.Mood),
			models.RatingEnergy.Label(e.Energy),
			e.WordCount,
			fmt.Sprintf("%d/%d", models.CountCompleted(e.Tasks), len(e.Tasks)),
			content.Excerpt(e.Content, 8),
		)
	}
	return nil
}

type EntryDeleteCmd struct {
	Date string `arg:"" help:"Date of the entry to delete (YYYY-MM-DD)."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *EntryDeleteCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	ok, err := app.Confirm(fmt.Sprintf("Delete the entry for %s?", date), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("delete cancelled")
	}
	if err := app.Journal.DeleteEntry(ctx, date); err != nil {
		return err
	}
	app.Printf("✓ Deleted entry for %s\n", date)
	return nil
}

// ratingArg parses a rating argument; "clear" and "N/A" remove the rating.
func ratingArg(kind models.RatingKind, s string) (*int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "clear") {
		return nil, nil
	}
	return kind.ParseRating(s)
}

type MoodCmd struct {
	Rating string `arg:"" help:"Mood 1-5 or a label (Very Low, Low, Neutral, Good, Great). 'clear' removes it."`
	Date   string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *MoodCmd) Run(app *cli.Context, ctx context.Context) error {
	return setRating(ctx, app, models.RatingMood, c.Rating, c.Date)
}

type EnergyCmd struct {
	Rating string `arg:"" help:"Energy 1-5 or a label (Exhausted, Low Energy, Okay, Energetic, Very Energized). 'clear' removes it."`
	Date   string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *EnergyCmd) Run(app *cli.Context, ctx context.Context) error {
	return setRating(ctx, app, models.RatingEnergy, c.Rating, c.Date)
}

func setRating(ctx context.Context, app *cli.Context, kind models.RatingKind, raw, rawDate string) error {
	date, err := app.Date(rawDate)
	if err != nil {
		return err
	}
	rating, err := ratingArg(kind, raw)
	if err != nil {
		return err
	}

	var entry *models.DailyEntry
	if kind == models.RatingEnergy {
		entry, err = app.Journal.UpdateEnergy(ctx, date, rating)
	} else {
		entry, err = app.Journal.UpdateMood(ctx, date, rating)
	}
	if err != nil {
		return err
	}

	value := entry.Mood
	if kind == models.RatingEnergy {
		value = entry.Energy
	}
	app.Printf("✓ %s for %s: %s\n", strings.ToUpper(string(kind[:1]))+string(kind[1:]), date, kind.Label(value))
	return nil
}
