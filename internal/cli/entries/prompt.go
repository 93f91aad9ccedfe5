package entries

import (
	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/content"
)

// PromptCmd prints a reflection prompt to start the day's entry.
type PromptCmd struct {
	Date   string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Random bool   `short:"r" help:"Pick a random prompt instead of the day's prompt."`
}

func (c *PromptCmd) Run(app *cli.Context) error {
	if c.Random {
		app.Println(content.RandomPrompt())
		return nil
	}
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	app.Println(content.DailyPrompt(date))
	return nil
}
