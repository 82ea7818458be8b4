// Package mcp exposes read-only tools over the workout data to MCP clients:
// catalog listing, per-exercise history and progress stats, and the weight
// recommendations.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/ironlog/internal/catalog"
	"github.com/meltforce/ironlog/internal/history"
)

// New creates an MCP server with all tools registered.
func New(cat *catalog.Repository, hist *history.Engine, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronLog", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("IronLog workout tracker. Query the exercise catalog, completed workout history, per-exercise progress stats, and progressive-overload weight recommendations."),
	)

	h := &handlers{catalog: cat, history: hist, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetProgressStats, Handler: h.getProgressStats},
		server.ServerTool{Tool: toolGetRecommendation, Handler: h.getRecommendation},
		server.ServerTool{Tool: toolGetCompletedWorkouts, Handler: h.getCompletedWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	catalog *catalog.Repository
	history *history.Engine
	log     *slog.Logger
}
