// Package mcpserver exposes the journal to MCP clients over stdio.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/journal"
	"github.com/julianstephens/rindful/internal/models"
)

// Journal is the subset of the journal service the tools need.
type Journal interface {
	Today() string
	GetEntry(ctx context.Context, date string) (*models.DailyEntry, error)
	GetEntriesInRange(ctx context.Context, start, end string) ([]models.DailyEntry, error)
	ListAll(ctx context.Context) ([]models.DailyEntry, error)
	MergeWrite(ctx context.Context, date string, patch models.EntryPatch, opts ...journal.WriteOption) (*models.DailyEntry, error)
	AddTask(ctx context.Context, date, title string) (*models.Task, error)
	SetTaskCompleted(ctx context.Context, date, id string, completed bool) (*models.Task, error)
	GetStats(ctx context.Context) (models.UserStats, error)
	GetStreakSummary(ctx context.Context) (models.StreakSummary, error)
}

// tool is one registered MCP tool.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func tools(j Journal) []tool {
	return []tool{
		&getEntryTool{journal: j},
		&listEntriesTool{journal: j},
		&writeJournalTool{journal: j},
		&promptTool{journal: j},
		&setRatingTool{journal: j, kind: models.RatingMood},
		&setRatingTool{journal: j, kind: models.RatingEnergy},
		&addTaskTool{journal: j},
		&completeTaskTool{journal: j},
		&getStatsTool{journal: j},
		&streakSummaryTool{journal: j},
		&exportTool{journal: j},
	}
}

// New creates the MCP server with every journal tool registered.
func New(j Journal) *server.MCPServer {
	s := server.NewMCPServer(
		constants.AppName,
		constants.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Tools for reading and writing a personal wellness journal. "+
			"Dates are YYYY-MM-DD and default to today. Ratings are 1-5 or a label."),
	)
	for _, t := range tools(j) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
