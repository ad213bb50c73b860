package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisRun records one full pipeline execution's outcome.
type AnalysisRun struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	SetsStored       int64     `json:"sets_stored"`
	RowsSkipped      int       `json:"rows_skipped"`
	SleepDaysStored  int64     `json:"sleep_days_stored"`
	SleepWeeksStored int64     `json:"sleep_weeks_stored"`
	EnrichedRows     int64     `json:"enriched_rows"`
	DurationMs       *int      `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
}

// NewAnalysisRun starts a run record in the "running" state.
func NewAnalysisRun(source string) AnalysisRun {
	return AnalysisRun{
		ID:     uuid.NewString(),
		Source: source,
		Status: "running",
	}
}

// Succeed marks the run finished with the given wall-clock duration.
func (r *AnalysisRun) Succeed(durationMs int) {
	r.Status = "success"
	r.DurationMs = &durationMs
}

// Fail marks the run failed, keeping the error text for the run log.
func (r *AnalysisRun) Fail(err error, durationMs int) {
	msg := err.Error()
	r.Status = "error"
	r.ErrorMessage = &msg
	r.DurationMs = &durationMs
}

// InsertAnalysisRun creates a new run entry.
func (db *DB) InsertAnalysisRun(ctx context.Context, run AnalysisRun) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, source, status, sets_stored, rows_skipped,
		 sleep_days_stored, sleep_weeks_stored, enriched_rows, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		run.ID, run.Source, run.Status, run.SetsStored, run.RowsSkipped,
		run.SleepDaysStored, run.SleepWeeksStored, run.EnrichedRows,
		run.DurationMs, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("inserting analysis run: %w", err)
	}
	return nil
}

// UpdateAnalysisRun updates an existing run entry, typically from "running"
// to "success" or "error".
func (db *DB) UpdateAnalysisRun(ctx context.Context, run AnalysisRun) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE analysis_runs SET
		 status = $2, sets_stored = $3, rows_skipped = $4, sleep_days_stored = $5,
		 sleep_weeks_stored = $6, enriched_rows = $7, duration_ms = $8, error_message = $9
		 WHERE id = $1`,
		run.ID, run.Status, run.SetsStored, run.RowsSkipped, run.SleepDaysStored,
		run.SleepWeeksStored, run.EnrichedRows, run.DurationMs, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("updating analysis run %s: %w", run.ID, err)
	}
	return nil
}

// QueryAnalysisRuns returns the most recent runs.
func (db *DB) QueryAnalysisRuns(ctx context.Context, limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, status, sets_stored, rows_skipped,
		 sleep_days_stored, sleep_weeks_stored, enriched_rows, duration_ms, error_message
		 FROM analysis_runs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying analysis runs: %w", err)
	}
	defer rows.Close()

	var result []AnalysisRun
	for rows.Next() {
		var r AnalysisRun
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Source, &r.Status, &r.SetsStored,
			&r.RowsSkipped, &r.SleepDaysStored, &r.SleepWeeksStored, &r.EnrichedRows,
			&r.DurationMs, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning analysis run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
