package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/rindful/internal/transfer"
	"github.com/julianstephens/rindful/internal/validation"
)

type getStatsTool struct {
	journal Journal
}

func (t *getStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_stats",
		mcp.WithDescription("Get the cached streak stats: current and longest streak, and this week's check-in days."),
	)
}

func (t *getStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.journal.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	return jsonResult(map[string]any{
		"currentStreak":   stats.CurrentStreak,
		"longestStreak":   stats.LongestStreak,
		"lastCheckInDate": stats.LastCheckInDate,
		"weekStart":       stats.WeekStart,
		"weeklyDays":      stats.WeeklyDays,
		"weeklyCount":     stats.WeeklyCount(),
	})
}

type streakSummaryTool struct {
	journal Journal
}

func (t *streakSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("get_streak_summary",
		mcp.WithDescription("Compute streak and check-in totals from the full entry history."),
	)
}

func (t *streakSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := t.journal.GetStreakSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing summary: %w", err)
	}
	summary.CheckinsByDate = nil
	return jsonResult(summary)
}

type exportTool struct {
	journal Journal
}

func (t *exportTool) Definition() mcp.Tool {
	return mcp.NewTool("export_json",
		mcp.WithDescription("Export entries as JSON. Without a range, every entry is exported."),
		mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD)")),
	)
}

func (t *exportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := req.GetString("start", "")
	end := req.GetString("end", "")

	var err error
	var data []byte
	if start == "" && end == "" {
		entries, lerr := t.journal.ListAll(ctx)
		if lerr != nil {
			return nil, fmt.Errorf("listing entries: %w", lerr)
		}
		data, err = transfer.ExportJSON(entries)
	} else {
		if verr := validation.ValidateRange(start, end); verr != nil {
			return mcp.NewToolResultError(verr.Error()), nil
		}
		entries, lerr := t.journal.GetEntriesInRange(ctx, start, end)
		if lerr != nil {
			return nil, fmt.Errorf("listing entries: %w", lerr)
		}
		data, err = transfer.ExportJSON(entries)
	}
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
