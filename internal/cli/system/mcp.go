package system

import (
	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/mcpserver"
)

// McpCmd serves the journal to an MCP client over stdio. Logs go to the log
// file only; stdout carries the protocol.
type McpCmd struct{}

func (c *McpCmd) Run(app *cli.Context) error {
	logger.Info("Starting MCP server")
	return mcpserver.Serve(mcpserver.New(app.Journal))
}
