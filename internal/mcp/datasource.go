package mcp

import (
	"context"
	"time"

	"github.com/meltforce/repsight/internal/analysis"
	"github.com/meltforce/repsight/internal/models"
	"github.com/meltforce/repsight/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListExercises(ctx context.Context) ([]analysis.ExerciseFrequency, error)
	QueryWorkoutSets(ctx context.Context, start, end time.Time) ([]models.SetRecord, error)
	QuerySeries(ctx context.Context, exercise string) (analysis.ExerciseSeries, error)
	QueryEnriched(ctx context.Context, exercise string, start, end time.Time) ([]analysis.EnrichedRow, error)
	QuerySleepDays(ctx context.Context, start, end time.Time) ([]models.DailySleep, error)
	QuerySleepWeeks(ctx context.Context, start, end time.Time) ([]models.WeeklySleep, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
