// Package stats holds the streak and statistics commands.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/utils"
)

func fmtValue(v interface{}) string {
	switch v := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(v)
	}
}

func printJSON(app *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	app.Println(string(data))
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// weekRow renders the tracked week as one marker per day, Sunday first.
func weekRow(days [7]bool) string {
	cells := make([]string, 0, 7)
	for i, on := range days {
		if on {
			cells = append(cells, dayOnStyle.Render(weekdayLetters[i]+"●"))
		} else {
			cells = append(cells, dayOffStyle.Render(weekdayLetters[i]+"○"))
		}
	}
	return strings.Join(cells, " ")
}

// StatsCmd shows the cached streak state and recent task progress.
type StatsCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *StatsCmd) Run(app *cli.Context, ctx context.Context) error {
	stats, err := app.Journal.GetStats(ctx)
	if err != nil {
		return err
	}
	done, avg, err := app.Journal.TaskProgress(ctx)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(app, struct {
			models.UserStats
			WeeklyCount     int     `json:"weeklyCount"`
			TasksCompleted  int     `json:"tasksCompleted7d"`
			TasksPerDayMean float64 `json:"tasksPerDay7d"`
		}{stats, stats.WeeklyCount(), done, avg})
	}

	badge := badgeStyle.Render("🔥 " + plural(stats.CurrentStreak, "day") + " streak")
	lines := []string{
		badge,
		"",
		row("Longest streak", plural(stats.LongestStreak, "day")),
		row("Last check-in", orNone(stats.LastCheckInDate)),
		row("This week", fmt.Sprintf("%d/7", stats.WeeklyCount())),
		labelStyle.Render("") + weekRow(stats.WeeklyDays),
		row("Tasks done (7 days)", done),
		row("Tasks per day", avg),
	}
	app.Println(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "never"
	}
	return s
}

// StreakCmd recomputes the streak summary from the full history.
type StreakCmd struct {
	JSON bool `help:"Print as JSON."`
}

func (c *StreakCmd) Run(app *cli.Context, ctx context.Context) error {
	summary, err := app.Journal.GetStreakSummary(ctx)
	if err != nil {
		return err
	}
	if c.JSON {
		summary.CheckinsByDate = nil
		return printJSON(app, summary)
	}

	app.Println(lipgloss.JoinVertical(lipgloss.Left,
		badgeStyle.Render("🔥 "+plural(summary.CurrentStreak, "day")+" streak"),
		"",
		row("Longest streak", plural(summary.LongestStreak, "day")),
		row("Days checked in", summary.TotalDaysChecked),
		row("Journal days", summary.TotalJournalDays),
		row("Mood days", summary.TotalMoodDays),
		row("Energy days", summary.TotalEnergyDays),
		row("This week", fmt.Sprintf("%d/7", summary.CurrentWeekCount)),
		row("Full weeks", summary.CompletedFullWeeks),
	))
	return nil
}

// RebuildStatsCmd recomputes the stats cache from entry history.
type RebuildStatsCmd struct{}

func (c *RebuildStatsCmd) Run(app *cli.Context, ctx context.Context) error {
	stats, err := app.Journal.RebuildStats(ctx)
	if err != nil {
		return err
	}
	app.Printf("✓ Stats rebuilt: current streak %s, longest %s\n",
		plural(stats.CurrentStreak, "day"), plural(stats.LongestStreak, "day"))
	return nil
}

// rangeOrLast resolves --from/--to, defaulting to the last days days
// ending today.
func rangeOrLast(app *cli.Context, from, to string, days int) (string, string, error) {
	end, err := app.Date(to)
	if err != nil {
		return "", "", err
	}
	if from == "" {
		start, err := utils.AddDays(end, -(days - 1))
		return start, end, err
	}
	start, err := app.Date(from)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// TaskStatsCmd shows per-day task completion.
type TaskStatsCmd struct {
	From string `help:"First date (YYYY-MM-DD). Defaults to six days before --to."`
	To   string `help:"Last date (YYYY-MM-DD). Defaults to today."`
}

func (c *TaskStatsCmd) Run(app *cli.Context, ctx context.Context) error {
	start, end, err := rangeOrLast(app, c.From, c.To, 7)
	if err != nil {
		return err
	}
	byDate, err := app.Journal.TaskStats(ctx, start, end)
	if err != nil {
		return err
	}
	if len(byDate) == 0 {
		app.Printf("No tasks between %s and %s.\n", start, end)
		return nil
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	app.Printf("%-10s  %5s  %5s  %6s\n", "DATE", "DONE", "TOTAL", "RATE")
	total, done := 0, 0
	for _, d := range dates {
		s := byDate[d]
		total += s.Total
		done += s.Done
		app.Printf("%-10s  %5d  %5d  %5.0f%%\n", d, s.Done, s.Total, s.Rate)
	}
	app.Printf("%-10s  %5d  %5d\n", "TOTAL", done, total)
	return nil
}

// MoodSummaryCmd aggregates mood ratings over a range.
type MoodSummaryCmd struct {
	From string `help:"First date (YYYY-MM-DD). Defaults to 29 days before --to."`
	To   string `help:"Last date (YYYY-MM-DD). Defaults to today."`
	JSON bool   `help:"Print as JSON."`
}

func (c *MoodSummaryCmd) Run(app *cli.Context, ctx context.Context) error {
	start, end, err := rangeOrLast(app, c.From, c.To, 30)
	if err != nil {
		return err
	}
	summary, err := app.Journal.MoodSummary(ctx, start, end)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(app, summary)
	}
	if summary.TotalEntries == 0 {
		app.Printf("No mood ratings between %s and %s.\n", start, end)
		return nil
	}

	app.Printf("Mood %s to %s\n", start, end)
	app.Println(row("Days rated", summary.DaysWithData))
	app.Println(row("Average mood", summary.AverageMood))
	for _, label := range models.RatingMood.Labels() {
		n := summary.Distribution[label]
		app.Println(row("  "+label, fmt.Sprintf("%-3d %s", n, strings.Repeat("█", n))))
	}
	return nil
}
