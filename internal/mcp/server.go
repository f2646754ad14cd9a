// Package mcp bridges the tool registry onto the mcp-go server so the
// same tools are callable over stdio and streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/mcp-probe/internal/common"
	"github.com/bobmcallan/mcp-probe/internal/tools"
)

// NewServer creates an MCPServer advertising every tool in the registry.
// The registry is the single source of truth: tools/list and tools/call
// always see the same set.
func NewServer(name, version string, registry *tools.Registry, logger *common.Logger) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		name,
		version,
		mcpserver.WithToolCapabilities(true),
	)

	descriptors := registry.List()
	for _, desc := range descriptors {
		handler, err := registry.Handler(desc.Name)
		if err != nil {
			// List and Handler share one mapping; this cannot happen.
			continue
		}
		srv.AddTool(BuildTool(desc), adaptHandler(desc.Name, handler))
	}

	logger.Info().
		Int("tools", len(descriptors)).
		Str("server", name).
		Msg("MCP server initialized")

	return srv
}

// adaptHandler wraps a registry handler as an mcp-go ToolHandlerFunc.
// The handler's result map is returned as JSON text content; categorized
// failures become IsError results rather than protocol faults.
func adaptHandler(name string, h tools.Handler) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, r mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		args := r.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := h(ctx, args)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		payload, merr := json.Marshal(result)
		if merr != nil {
			return errorResult("failed to encode result for " + name + ": " + merr.Error()), nil
		}
		return textResult(string(payload)), nil
	}
}

func textResult(text string) *mcpgo.CallToolResult {
	return &mcpgo.CallToolResult{
		Content: []mcpgo.Content{
			mcpgo.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcpgo.CallToolResult {
	return &mcpgo.CallToolResult{
		Content: []mcpgo.Content{
			mcpgo.NewTextContent(message),
		},
		IsError: true,
	}
}
