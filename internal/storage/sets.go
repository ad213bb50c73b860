package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// ReplaceWorkoutSets swaps in a fresh copy of the workout log. The CSV export
// is always the full history, so each ingest replaces rather than appends.
// Returns count inserted.
func (db *DB) ReplaceWorkoutSets(ctx context.Context, sets []models.SetRecord) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sets`); err != nil {
		return 0, fmt.Errorf("clearing workout sets: %w", err)
	}

	var inserted int64
	for start := 0; start < len(sets); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(sets) {
			end = len(sets)
		}
		batch := sets[start:end]

		query := `INSERT INTO workout_sets (seq, exercise, session_date, weight_kg, reps) VALUES `
		args := make([]any, 0, len(batch)*5)
		valueStrings := make([]string, 0, len(batch))

		for i, s := range batch {
			base := i * 5
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5,
			))
			args = append(args, s.Seq, s.Exercise, s.Date, s.Weight, s.Reps)
		}

		query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting workout sets: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing workout sets: %w", err)
	}
	return inserted, nil
}

// insertBatchSize caps multi-VALUES inserts; pgx limits statements to 65535
// bind parameters.
const insertBatchSize = 1000

// QueryWorkoutSets retrieves the stored set log in raw log order, bounded to
// [start, end). A zero end means unbounded.
func (db *DB) QueryWorkoutSets(ctx context.Context, start, end time.Time) ([]models.SetRecord, error) {
	if end.IsZero() {
		end = farFuture
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT seq, exercise, session_date, weight_kg, reps
		 FROM workout_sets
		 WHERE session_date >= $1 AND session_date < $2
		 ORDER BY seq ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	var result []models.SetRecord
	for rows.Next() {
		var s models.SetRecord
		if err := rows.Scan(&s.Seq, &s.Exercise, &s.Date, &s.Weight, &s.Reps); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// AllWorkoutSets retrieves the complete stored set log in raw log order.
func (db *DB) AllWorkoutSets(ctx context.Context) ([]models.SetRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT seq, exercise, session_date, weight_kg, reps
		 FROM workout_sets
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	var result []models.SetRecord
	for rows.Next() {
		var s models.SetRecord
		if err := rows.Scan(&s.Seq, &s.Exercise, &s.Date, &s.Weight, &s.Reps); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
