package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/mcp-probe/internal/common"
	"github.com/bobmcallan/mcp-probe/internal/config"
	"github.com/bobmcallan/mcp-probe/internal/mcp"
	"github.com/bobmcallan/mcp-probe/internal/tools"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop)")
	configFile := flag.String("config", "probe.toml", "Path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	host := flag.String("host", "", "HTTP host (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *port, *host)

	common.LoadVersionFromFile()

	logger := common.NewLoggerFromConfig(cfg.Logging)

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("Failed to build tool registry")
		os.Exit(1)
	}

	logger.Info().
		Str("name", cfg.Server.Name).
		Str("version", common.GetVersion()).
		Int("tools", registry.Len()).
		Msg("Starting MCP server")

	srv := mcp.NewServer(cfg.Server.Name, common.GetVersion(), registry, logger)

	if *stdio {
		// Stdio transport reads stdin, writes stdout
		if err := mcpserver.ServeStdio(srv); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := mcp.NewRouter(srv, cfg.Server.Name)

	logger.Info().Str("addr", addr).Msg("Listening on streamable HTTP")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on %s\n", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

// buildRegistry registers the builtin tools enabled in config. Unknown
// names are logged and skipped.
func buildRegistry(cfg *config.Config, logger *common.Logger) (*tools.Registry, error) {
	toolset := tools.NewToolset(cfg.Tools.Root)

	available := map[string]tools.Builtin{}
	for _, b := range toolset.Builtins() {
		available[b.Descriptor.Name] = b
	}

	registry := tools.NewRegistry()
	for _, name := range cfg.Tools.Enabled {
		b, ok := available[name]
		if !ok {
			logger.Warn().Str("tool", name).Msg("Unknown tool in config, skipping")
			continue
		}
		if err := registry.Register(b.Descriptor, b.Handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
