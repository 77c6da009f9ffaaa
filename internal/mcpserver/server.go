// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes resttools capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/resttools"
)

const serverInstructions = `resttools MCP server: checks declarative REST pipeline configurations, previews content negotiation, and validates message part values.

Tools:
- check_config: build a pipeline configuration (resources, operations, part schemas, producer lists) and report every configuration error.
- negotiate: route a method+path against a configuration and report which serializer/parser a given Accept/Content-Type header pair would select.
- validate_part: build a single part schema from its declarative source and validate a raw value against it.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "resttools", Version: resttools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_config",
		Description: "Build a resttools pipeline configuration and report configuration errors. Accepts inline YAML via config or a path via file. Returns resource and operation counts when the configuration is valid.",
	}, handleCheckConfig)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "negotiate",
		Description: "Preview content negotiation for one request: route method+path against a configuration, then report the serializer selected for the Accept header and, when content_type is given, the parser selected for it. Failures include the supported media types.",
	}, handleNegotiate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_part",
		Description: "Build one part schema from its declarative YAML source and validate a raw value against it. Reports the coerced value and every constraint violation. Use values for repeated (multi) occurrences.",
	}, handleValidatePart)
}

// errResult wraps an error as a failed tool call.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
