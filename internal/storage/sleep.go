package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// ReplaceSleepDays swaps in a fresh copy of the per-day sleep totals.
// Returns count inserted.
func (db *DB) ReplaceSleepDays(ctx context.Context, days []models.DailySleep) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sleep_days`); err != nil {
		return 0, fmt.Errorf("clearing sleep days: %w", err)
	}

	var inserted int64
	for start := 0; start < len(days); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(days) {
			end = len(days)
		}
		batch := days[start:end]

		query := `INSERT INTO sleep_days (day, sleep_hr) VALUES `
		args := make([]any, 0, len(batch)*2)
		valueStrings := make([]string, 0, len(batch))

		for i, d := range batch {
			base := i * 2
			valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d)", base+1, base+2))
			args = append(args, d.Day, d.SleepHr)
		}

		query += strings.Join(valueStrings, ",") + " ON CONFLICT (day) DO NOTHING"

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting sleep days: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing sleep days: %w", err)
	}
	return inserted, nil
}

// ReplaceSleepWeeks swaps in a fresh copy of the weekly sleep means.
// Returns count inserted.
func (db *DB) ReplaceSleepWeeks(ctx context.Context, weeks []models.WeeklySleep) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sleep_weeks`); err != nil {
		return 0, fmt.Errorf("clearing sleep weeks: %w", err)
	}

	var inserted int64
	for start := 0; start < len(weeks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(weeks) {
			end = len(weeks)
		}
		batch := weeks[start:end]

		query := `INSERT INTO sleep_weeks (week_start, sleep_hr) VALUES `
		args := make([]any, 0, len(batch)*2)
		valueStrings := make([]string, 0, len(batch))

		for i, w := range batch {
			base := i * 2
			valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d)", base+1, base+2))
			args = append(args, w.WeekStart, w.SleepHr)
		}

		query += strings.Join(valueStrings, ",") + " ON CONFLICT (week_start) DO NOTHING"

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting sleep weeks: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing sleep weeks: %w", err)
	}
	return inserted, nil
}

// QuerySleepDays retrieves daily sleep totals in [start, end), ascending.
// A zero end means unbounded.
func (db *DB) QuerySleepDays(ctx context.Context, start, end time.Time) ([]models.DailySleep, error) {
	if end.IsZero() {
		end = farFuture
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT day, sleep_hr FROM sleep_days
		 WHERE day >= $1 AND day < $2
		 ORDER BY day ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sleep days: %w", err)
	}
	defer rows.Close()

	var result []models.DailySleep
	for rows.Next() {
		var d models.DailySleep
		if err := rows.Scan(&d.Day, &d.SleepHr); err != nil {
			return nil, fmt.Errorf("scanning sleep day: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// QuerySleepWeeks retrieves weekly sleep means in [start, end), ascending.
// A zero end means unbounded.
func (db *DB) QuerySleepWeeks(ctx context.Context, start, end time.Time) ([]models.WeeklySleep, error) {
	if end.IsZero() {
		end = farFuture
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT week_start, sleep_hr FROM sleep_weeks
		 WHERE week_start >= $1 AND week_start < $2
		 ORDER BY week_start ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sleep weeks: %w", err)
	}
	defer rows.Close()

	var result []models.WeeklySleep
	for rows.Next() {
		var w models.WeeklySleep
		if err := rows.Scan(&w.WeekStart, &w.SleepHr); err != nil {
			return nil, fmt.Errorf("scanning sleep week: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// AllSleepDays retrieves every stored daily total, ascending.
func (db *DB) AllSleepDays(ctx context.Context) ([]models.DailySleep, error) {
	return db.QuerySleepDays(ctx, time.Time{}, time.Time{})
}

// AllSleepWeeks retrieves every stored weekly mean, ascending.
func (db *DB) AllSleepWeeks(ctx context.Context) ([]models.WeeklySleep, error) {
	return db.QuerySleepWeeks(ctx, time.Time{}, time.Time{})
}

var farFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
