package mcp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/mcp-probe/internal/common"
)

// NewRouter mounts the MCP streamable HTTP endpoint on a chi router
// with health and version endpoints alongside it.
func NewRouter(srv *mcpserver.MCPServer, name string) http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(srv,
		mcpserver.WithStateLess(true),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":    name,
			"version": common.GetVersion(),
			"build":   common.GetBuild(),
			"commit":  common.GetGitCommit(),
		})
	})

	r.Mount("/mcp", streamable)

	return r
}
