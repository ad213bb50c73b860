package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// openTimeRange parses optional start/end strings. Both empty means the full
// stored history, which is what analysis questions usually want.
func openTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else if startStr != "" {
		end = time.Now()
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all logged exercises with their session frequency (distinct training days with at least one weighted set). Assisted variants count as zero."),
)

var toolGetWorkoutSets = mcp.NewTool("get_workout_sets",
	mcp.WithDescription("Raw logged sets in original log order: exercise, date, weight and reps per set. This is the unaggregated source the series and frequencies are computed from."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the full history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now when start is set.")),
)

var toolGetExerciseSeries = mcp.NewTool("get_exercise_series",
	mcp.WithDescription("Per-session training series for one exercise: volume, max weight, volume per set, set position within the day, gaps between sessions, percent changes vs the previous session, and deviations from the trailing running average. First-session and zero-baseline fields are omitted rather than zero."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise name as logged (e.g. 'Bench Press')")),
)

var toolGetEnrichedRows = mcp.NewTool("get_enriched_rows",
	mcp.WithDescription("The full joined analysis table: one row per exercise session with training metrics plus same-day and same-week sleep hours. Exercises with no weighted session appear as stub rows."),
	mcp.WithString("exercise", mcp.Description("Filter to one exercise (exact name)")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the full history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now when start is set.")),
)

var toolGetSleepSummary = mcp.NewTool("get_sleep_summary",
	mcp.WithDescription("Daily sleep totals and Monday-anchored weekly means from the health export. Days over the plausibility cutoff were excluded at ingest."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to the full history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now when start is set.")),
)

var toolGetDataStats = mcp.NewTool("get_data_stats",
	mcp.WithDescription("Aggregate statistics about the stored data: set counts, exercise count, sleep coverage, enriched row count, date range, and the last analysis run."),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	freqs, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(freqs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := openTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sets, err := h.ds.QueryWorkoutSets(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_workout_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	series, err := h.ds.QuerySeries(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_exercise_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(series.Points) == 0 {
		return mcp.NewToolResultError("no sessions for exercise: " + exercise), nil
	}

	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getEnrichedRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := openTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.QueryEnriched(ctx, req.GetString("exercise", ""), start, end)
	if err != nil {
		h.log.Error("mcp get_enriched_rows", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSleepSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := openTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	daily, err := h.ds.QuerySleepDays(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sleep_summary daily", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	weekly, err := h.ds.QuerySleepWeeks(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sleep_summary weekly", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"daily":  daily,
		"weekly": weekly,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDataStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetDataStats(ctx)
	if err != nil {
		h.log.Error("mcp get_data_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
