// Package validation discovers a server's tools and checks them for
// schema quality, protocol compliance, and runtime behavior.
package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/mcp-probe/internal/dispatch"
	"github.com/bobmcallan/mcp-probe/internal/tools"
)

// Caller is the transport-independent view of an MCP server. The
// dispatcher satisfies it directly.
type Caller interface {
	Handle(ctx context.Context, req dispatch.Request) dispatch.Response
}

// Discovery catalogs the tools a server advertises via tools/list.
type Discovery struct {
	caller Caller

	mu       sync.Mutex
	cache    []tools.Descriptor
	cachedAt time.Time
}

// NewDiscovery creates a Discovery over a caller.
func NewDiscovery(caller Caller) *Discovery {
	return &Discovery{caller: caller}
}

// Discover returns the advertised tools, from cache when available and
// useCache is set.
func (d *Discovery) Discover(ctx context.Context, useCache bool) ([]tools.Descriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if useCache && d.cache != nil {
		return append([]tools.Descriptor(nil), d.cache...), nil
	}

	resp := d.caller.Handle(ctx, dispatch.Request{
		Method: "tools/list",
		Params: map[string]any{},
	})
	if resp.Err != nil {
		return nil, fmt.Errorf("tool discovery failed: %s: %s", resp.Err.Code, resp.Err.Message)
	}

	descriptors, ok := resp.Result["tools"].([]tools.Descriptor)
	if !ok {
		return nil, fmt.Errorf("tools/list result has unexpected shape: %T", resp.Result["tools"])
	}

	d.cache = append([]tools.Descriptor(nil), descriptors...)
	d.cachedAt = time.Now()
	return append([]tools.Descriptor(nil), descriptors...), nil
}

// ToolDetails returns the descriptor for a specific tool name.
func (d *Discovery) ToolDetails(ctx context.Context, name string) (tools.Descriptor, bool, error) {
	descriptors, err := d.Discover(ctx, true)
	if err != nil {
		return tools.Descriptor{}, false, err
	}
	for _, desc := range descriptors {
		if desc.Name == name {
			return desc, true, nil
		}
	}
	return tools.Descriptor{}, false, nil
}

// Tool categories recognized by Categorize.
const (
	CategoryFileOperations = "file_operations"
	CategoryDataProcessing = "data_processing"
	CategoryCommunication  = "communication"
	CategorySystemTools    = "system_tools"
	CategoryUtility        = "utility"
	CategoryUnknown        = "unknown"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryFileOperations, []string{"file", "read", "write", "list", "directory"}},
	{CategoryDataProcessing, []string{"process", "transform", "parse", "convert"}},
	{CategoryCommunication, []string{"send", "receive", "message", "email", "http"}},
	{CategorySystemTools, []string{"system", "execute", "run", "command"}},
	{CategoryUtility, []string{"echo", "test", "validate", "check"}},
}

// Categorize groups tools by functionality keywords in their name and
// description. The first matching category wins.
func (d *Discovery) Categorize(ctx context.Context) (map[string][]tools.Descriptor, error) {
	descriptors, err := d.Discover(ctx, true)
	if err != nil {
		return nil, err
	}

	categories := map[string][]tools.Descriptor{
		CategoryFileOperations: {},
		CategoryDataProcessing: {},
		CategoryCommunication:  {},
		CategorySystemTools:    {},
		CategoryUtility:        {},
		CategoryUnknown:        {},
	}

	for _, desc := range descriptors {
		category := categorize(desc)
		categories[category] = append(categories[category], desc)
	}
	return categories, nil
}

func categorize(desc tools.Descriptor) string {
	name := strings.ToLower(desc.Name)
	description := strings.ToLower(desc.Description)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(name, kw) || strings.Contains(description, kw) {
				return c.category
			}
		}
	}
	return CategoryUnknown
}

// Complexity summarizes a tool's schema complexity.
type Complexity struct {
	ParamCount     int     `json:"parameter_count"`
	RequiredParams int     `json:"required_parameters"`
	Score          float64 `json:"complexity_score"`
	Level          string  `json:"complexity_level"` // simple, moderate, complex
}

// AnalyzeComplexity scores each tool by its parameter surface.
func (d *Discovery) AnalyzeComplexity(ctx context.Context) (map[string]Complexity, error) {
	descriptors, err := d.Discover(ctx, true)
	if err != nil {
		return nil, err
	}

	analysis := make(map[string]Complexity, len(descriptors))
	for _, desc := range descriptors {
		score := 0.0
		for range desc.Params {
			score += 0.5
		}

		level := "simple"
		switch {
		case score > 5:
			level = "complex"
		case score > 2:
			level = "moderate"
		}

		analysis[desc.Name] = Complexity{
			ParamCount:     len(desc.Params),
			RequiredParams: len(desc.RequiredParams()),
			Score:          score,
			Level:          level,
		}
	}
	return analysis, nil
}

// ToolInfo is one entry in the combined registry summary.
type ToolInfo struct {
	Descriptor      tools.Descriptor `json:"definition"`
	Category        string           `json:"category"`
	Complexity      Complexity       `json:"complexity"`
	ValidationReady bool             `json:"validation_ready"`
}

// Summary combines discovery, categorization, and complexity analysis.
type Summary struct {
	TotalTools   int                 `json:"total_tools"`
	DiscoveredAt time.Time           `json:"discovered_at"`
	Categories   map[string]int      `json:"categories"`
	Tools        map[string]ToolInfo `json:"tools"`
}

// Summarize builds the combined tool registry summary.
func (d *Discovery) Summarize(ctx context.Context) (Summary, error) {
	descriptors, err := d.Discover(ctx, true)
	if err != nil {
		return Summary{}, err
	}
	complexity, err := d.AnalyzeComplexity(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalTools:   len(descriptors),
		DiscoveredAt: d.cachedAt,
		Categories:   map[string]int{},
		Tools:        map[string]ToolInfo{},
	}

	for _, desc := range descriptors {
		category := categorize(desc)
		summary.Categories[category]++
		summary.Tools[desc.Name] = ToolInfo{
			Descriptor:      desc,
			Category:        category,
			Complexity:      complexity[desc.Name],
			ValidationReady: desc.Name != "" && desc.Description != "",
		}
	}
	return summary, nil
}

// Refresh discards the cache and re-discovers.
func (d *Discovery) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.cache = nil
	d.cachedAt = time.Time{}
	d.mu.Unlock()

	_, err := d.Discover(ctx, false)
	return err
}

// CacheInfo describes the current discovery cache.
type CacheInfo struct {
	CachedTools int
	CachedAt    time.Time
	Age         time.Duration
}

// CacheInfo returns the cache state.
func (d *Discovery) CacheInfo() CacheInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	info := CacheInfo{CachedTools: len(d.cache), CachedAt: d.cachedAt}
	if !d.cachedAt.IsZero() {
		info.Age = time.Since(d.cachedAt)
	}
	return info
}
