// Package dispatch translates method/params requests into result/error
// responses backed by a tool registry.
package dispatch

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bobmcallan/mcp-probe/internal/common"
	"github.com/bobmcallan/mcp-probe/internal/tools"
)

// ProtocolVersion is the MCP protocol revision answered by initialize.
const ProtocolVersion = "2024-11-05"

// Request is a single method/params call. One-shot, never persisted.
type Request struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

// ErrorPayload is the failure half of a Response.
type ErrorPayload struct {
	Code    tools.Category `json:"code"`
	Message string         `json:"message"`
}

// Response carries either a result or an error, never both.
type Response struct {
	Result map[string]any `json:"result,omitempty"`
	Err    *ErrorPayload  `json:"error,omitempty"`
}

// OK builds a success response.
func OK(result map[string]any) Response {
	return Response{Result: result}
}

// Fail builds an error response.
func Fail(code tools.Category, message string) Response {
	return Response{Err: &ErrorPayload{Code: code, Message: message}}
}

// Dispatcher is the single entry point for requests. Each call runs to
// completion before returning; there is no queueing and no retry.
type Dispatcher struct {
	registry *tools.Registry
	name     string
	version  string
	logger   *common.Logger
}

// New creates a Dispatcher over a registry. The name and version are
// reported by initialize.
func New(registry *tools.Registry, name, version string, logger *common.Logger) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Dispatcher{
		registry: registry,
		name:     name,
		version:  version,
		logger:   logger,
	}
}

// Handle routes a request and shapes the response. Every failure is
// converted into an error payload; nothing propagates as a fault.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	log := d.logger.WithCorrelationId(uuid.NewString())
	log.Debug().Str("method", req.Method).Msg("handling request")

	switch req.Method {
	case "tools/list":
		return OK(map[string]any{"tools": d.registry.List()})
	case "tools/call":
		return d.callTool(ctx, log, req.Params)
	case "initialize":
		return OK(map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    d.name,
				"version": d.version,
			},
		})
	default:
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return Fail(tools.CategoryUnknownMethod, "method not found: "+req.Method)
	}
}

// callTool validates the tools/call params, looks up the handler, and
// maps handler failures onto their categories.
func (d *Dispatcher) callTool(ctx context.Context, log *common.Logger, params map[string]any) Response {
	name, ok := params["name"].(string)
	if !ok || name == "" {
		return Fail(tools.CategoryInvalidRequest, "tools/call requires params.name (string)")
	}

	rawArgs, present := params["arguments"]
	if !present {
		return Fail(tools.CategoryInvalidRequest, "tools/call requires params.arguments (object)")
	}
	args, ok := rawArgs.(map[string]any)
	if !ok {
		return Fail(tools.CategoryInvalidRequest, "tools/call params.arguments must be an object")
	}

	handler, err := d.registry.Handler(name)
	if err != nil {
		log.Warn().Str("tool", name).Msg("unknown tool")
		return failFromError(err)
	}

	result, err := handler(ctx, args)
	if err != nil {
		log.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool call failed")
		return failFromError(err)
	}

	log.Debug().Str("tool", name).Msg("tool call completed")
	return OK(result)
}

// failFromError maps a handler/registry error onto the error payload.
// Only *tools.Error values keep their category; anything else is a
// tool execution failure.
func failFromError(err error) Response {
	var te *tools.Error
	if errors.As(err, &te) {
		return Fail(te.Category, te.Message)
	}
	return Fail(tools.CategoryExecution, err.Error())
}
