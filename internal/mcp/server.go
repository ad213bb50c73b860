package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepSight", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepSight training analytics server. Query per-exercise training series (volume, max weight, set position, percent changes and running-average deviations), session frequencies, daily and weekly sleep totals, and the enriched join of all three."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetWorkoutSets, Handler: h.getWorkoutSets},
		server.ServerTool{Tool: toolGetExerciseSeries, Handler: h.getExerciseSeries},
		server.ServerTool{Tool: toolGetEnrichedRows, Handler: h.getEnrichedRows},
		server.ServerTool{Tool: toolGetSleepSummary, Handler: h.getSleepSummary},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTrainingSummary, Handler: h.trainingSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resTrainingSummary = mcp.NewResource(
	"repsight://training_summary",
	"Training Summary",
	mcp.WithResourceDescription("Stored-data statistics plus the per-exercise session frequency table"),
	mcp.WithMIMEType("application/json"),
)
