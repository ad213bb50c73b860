package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) trainingSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := h.ds.GetDataStats(ctx)
	if err != nil {
		return nil, err
	}

	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Warn("training_summary: exercise list failed", "error", err)
	}

	summary := map[string]any{
		"stats":     stats,
		"exercises": exercises,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
