// Package mcpserver exposes augur's analyzers as MCP tools over stdio,
// so coding agents can pre-screen a repository before reading files.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all augur analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all augur tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "augur",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all augur analyzer tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_boundaries",
		Description: describeBoundaries(),
	}, handleAnalyzeBoundaries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_smells",
		Description: describeSmells(),
	}, handleAnalyzeSmells)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_patterns",
		Description: describePatterns(),
	}, handleAnalyzePatterns)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_structure",
		Description: describeStructure(),
	}, handleAnalyzeStructure)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "repo_report",
		Description: describeReport(),
	}, handleRepoReport)
}
