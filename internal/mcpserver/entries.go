package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/rindful/internal/content"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/journal"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/validation"
)

func dateArg(req mcp.CallToolRequest, j Journal) (string, error) {
	date := strings.TrimSpace(req.GetString("date", ""))
	if date == "" {
		return j.Today(), nil
	}
	if err := validation.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// ratingArg reads a rating given as a number, a label or null. An absent
// argument leaves the rating unset.
func ratingArg(req mcp.CallToolRequest, kind models.RatingKind, name string) (models.Optional[*int], error) {
	args := req.GetArguments()
	raw, ok := args[name]
	if !ok {
		return models.Optional[*int]{}, nil
	}
	switch v := raw.(type) {
	case nil:
		return models.Some[*int](nil), nil
	case float64:
		if v != float64(int(v)) {
			return models.Optional[*int]{}, fmt.Errorf("%s rating must be a whole number", kind)
		}
		n := int(v)
		if err := validation.ValidateRating(kind, &n); err != nil {
			return models.Optional[*int]{}, err
		}
		return models.Some(&n), nil
	case string:
		r, err := kind.ParseRating(v)
		if err != nil {
			return models.Optional[*int]{}, err
		}
		return models.Some(r), nil
	default:
		return models.Optional[*int]{}, fmt.Errorf("%s rating must be a number or label", kind)
	}
}

// failure reports bad input back to the client as a tool error and
// anything else as a protocol error.
func failure(op string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, rerrors.ErrMalformedInput) || errors.Is(err, journal.ErrTaskNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

type getEntryTool struct {
	journal Journal
}

func (t *getEntryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_entry",
		mcp.WithDescription("Get the journal entry for a date: body text, mood, energy and tasks."),
		mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
	)
}

func (t *getEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := dateArg(req, t.journal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, err := t.journal.GetEntry(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	if entry == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No entry for %s.", date)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", entry.Date)
	fmt.Fprintf(&b, "**Mood:** %s\n", models.RatingMood.Label(entry.Mood))
	fmt.Fprintf(&b, "**Energy:** %s\n", models.RatingEnergy.Label(entry.Energy))
	fmt.Fprintf(&b, "**Words:** %d\n\n", entry.WordCount)
	if entry.HasContent() {
		b.WriteString(content.StripHTML(entry.Content))
		b.WriteString("\n")
	}
	if len(entry.Tasks) > 0 {
		b.WriteString("\n## Tasks\n\n")
		for _, task := range models.SortTasksForDisplay(entry.Tasks) {
			mark := " "
			if task.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s (id: %s)\n", mark, task.Title, task.ID)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

type listEntriesTool struct {
	journal Journal
}

func (t *listEntriesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_entries",
		mcp.WithDescription("List entries between two dates (inclusive), newest first, with a short excerpt."),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("end", mcp.Required(), mcp.Description("End date (YYYY-MM-DD)")),
	)
}

func (t *listEntriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := req.GetString("start", "")
	end := req.GetString("end", "")
	if err := validation.ValidateRange(start, end); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := t.journal.GetEntriesInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No entries between %s and %s.", start, end)), nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s | mood: %s | energy: %s | tasks: %d/%d",
			e.Date, models.RatingMood.Label(e.Mood), models.RatingEnergy.Label(e.Energy),
			models.CountCompleted(e.Tasks), len(e.Tasks))
		if e.HasContent() {
			fmt.Fprintf(&b, " | %s", content.Excerpt(e.Content, 12))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

type writeJournalTool struct {
	journal Journal
}

func (t *writeJournalTool) Definition() mcp.Tool {
	return mcp.NewTool("write_journal",
		mcp.WithDescription("Write the journal body for a date. The text is Markdown and replaces the existing body."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Journal text in Markdown")),
		mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
	)
}

func (t *writeJournalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := dateArg(req, t.journal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	body, err := content.MarkdownToHTML(text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body = content.CleanHTML(body)
	entry, err := t.journal.MergeWrite(ctx, date, models.EntryPatch{
		Content:   models.Some(body),
		WordCount: models.Some(content.WordCount(body)),
	})
	if err != nil {
		return failure("writing entry", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d words for %s.", entry.WordCount, entry.Date)), nil
}

type setRatingTool struct {
	journal Journal
	kind    models.RatingKind
}

func (t *setRatingTool) Definition() mcp.Tool {
	labels := strings.Join(t.kind.Labels(), ", ")
	return mcp.NewTool("set_"+string(t.kind),
		mcp.WithDescription(fmt.Sprintf("Record the %s rating for a date. Ratings are 1-5 (%s). Pass an empty string or N/A to clear it.", t.kind, labels)),
		mcp.WithString("rating", mcp.Required(), mcp.Description("Rating 1-5 or a label")),
		mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
	)
}

func (t *setRatingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := dateArg(req, t.journal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rating, err := ratingArg(req, t.kind, "rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !rating.Set {
		return mcp.NewToolResultError("'rating' is required"), nil
	}

	patch := models.EntryPatch{Mood: rating}
	if t.kind == models.RatingEnergy {
		patch = models.EntryPatch{Energy: rating}
	}
	if _, err := t.journal.MergeWrite(ctx, date, patch); err != nil {
		return failure("writing "+string(t.kind), err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s for %s: %s", t.kind, date, t.kind.Label(rating.Value))), nil
}

type promptTool struct {
	journal Journal
}

func (t *promptTool) Definition() mcp.Tool {
	return mcp.NewTool("get_prompt",
		mcp.WithDescription("Get a reflection prompt to start a journal entry. The prompt is the same all day unless random is set."),
		mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
		mcp.WithBoolean("random", mcp.Description("Pick a random prompt instead of the day's prompt (default: false)")),
	)
}

func (t *promptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if req.GetBool("random", false) {
		return mcp.NewToolResultText(content.RandomPrompt()), nil
	}
	date, err := dateArg(req, t.journal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content.DailyPrompt(date)), nil
}
