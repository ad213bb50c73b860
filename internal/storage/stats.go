package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalSets      int64      `json:"total_sets"`
	TotalExercises int64      `json:"total_exercises"`
	TotalSleepDays int64      `json:"total_sleep_days"`
	SleepWeeks     int64      `json:"sleep_weeks"`
	EnrichedRows   int64      `json:"enriched_rows"`
	EarliestSet    *time.Time `json:"earliest_set"`
	LatestSet      *time.Time `json:"latest_set"`
	LastRun        *time.Time `json:"last_run"`
}

// GetDataStats returns aggregate statistics across the raw and derived tables.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT exercise), MIN(session_date), MAX(session_date)
		 FROM workout_sets`,
	).Scan(&stats.TotalSets, &stats.TotalExercises, &stats.EarliestSet, &stats.LatestSet)
	if err != nil {
		return nil, fmt.Errorf("counting workout sets: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sleep_days`).Scan(&stats.TotalSleepDays)
	if err != nil {
		return nil, fmt.Errorf("counting sleep days: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sleep_weeks`).Scan(&stats.SleepWeeks)
	if err != nil {
		return nil, fmt.Errorf("counting sleep weeks: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercise_sessions`).Scan(&stats.EnrichedRows)
	if err != nil {
		return nil, fmt.Errorf("counting exercise sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT MAX(created_at) FROM analysis_runs`).Scan(&stats.LastRun)
	if err != nil {
		return nil, fmt.Errorf("querying last run: %w", err)
	}

	return stats, nil
}
