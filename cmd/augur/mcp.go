package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/relicara/augur/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Description: `Starts a Model Context Protocol server exposing the analyzers as
tools: analyze_boundaries, analyze_smells, analyze_patterns,
analyze_structure, and repo_report. Intended to be spawned by an MCP
client, not run interactively.`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	return mcpserver.NewServer(version).Run(context.Background())
}
