package mcp

import (
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/mcp-probe/internal/tools"
)

// BuildTool converts a registry descriptor into an mcp.Tool with the
// appropriate schema options.
func BuildTool(desc tools.Descriptor) mcpgo.Tool {
	opts := []mcpgo.ToolOption{mcpgo.WithDescription(desc.Description)}
	for _, p := range desc.Params {
		opts = append(opts, paramOption(p))
	}
	return mcpgo.NewTool(desc.Name, opts...)
}

// paramOption maps a descriptor param to the matching mcp-go tool option.
func paramOption(p tools.Param) mcpgo.ToolOption {
	var opts []mcpgo.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcpgo.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcpgo.Required())
	}

	switch p.Type {
	case "number":
		return mcpgo.WithNumber(p.Name, opts...)
	case "boolean":
		return mcpgo.WithBoolean(p.Name, opts...)
	default:
		// string or unknown, passed as string
		return mcpgo.WithString(p.Name, opts...)
	}
}
