package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

type addTaskTool struct {
	journal Journal
}

func (t *addTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Add a task to the day's checklist."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
	)
}

func (t *addTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := dateArg(req, t.journal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := strings.TrimSpace(req.GetString("title", ""))
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	task, err := t.journal.AddTask(ctx, date, title)
	if err != nil {
		return failure("adding task", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added task %q (id: %s) for %s.", task.Title, task.ID, date)), nil
}

type completeTaskTool struct {
	journal Journal
}

func (t *completeTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task done, or not done with completed=false."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id as shown by get_entry")),
		mcp.WithString("date", mcp.Description("Date (YYYY-MM-DD). Defaults to today.")),
		mcp.WithBoolean("completed", mcp.Description("Completion state. Defaults to true.")),
	)
}

func (t *completeTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := dateArg(req, t.journal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := strings.TrimSpace(req.GetString("id", ""))
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	completed := req.GetBool("completed", true)

	task, err := t.journal.SetTaskCompleted(ctx, date, id, completed)
	if err != nil {
		return failure("updating task", err)
	}
	state := "done"
	if !task.Completed {
		state = "not done"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %q marked %s.", task.Title, state)), nil
}
