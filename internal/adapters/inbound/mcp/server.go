package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewPyreviewMCPServer creates a new MCP server with all pyreview tools
// registered. The projectPath is the directory whose config, history, and
// git metadata apply to incoming submissions.
func NewPyreviewMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"pyreview",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)

	return s
}
