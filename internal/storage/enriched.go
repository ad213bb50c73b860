package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/repsight/internal/analysis"
)

// ReplaceEnriched swaps in a fresh copy of the joined analysis table. Stub
// rows for exercises with no positive-weight session are stored with a NULL
// session date. Returns count inserted.
func (db *DB) ReplaceEnriched(ctx context.Context, rows []analysis.EnrichedRow) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exercise_sessions`); err != nil {
		return 0, fmt.Errorf("clearing exercise sessions: %w", err)
	}

	const cols = 17
	var inserted int64
	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		query := `INSERT INTO exercise_sessions (exercise, frequency, session_date,
			volume, max_weight, volume_per_set, set_number, sets, gap_days,
			pct_volume, pct_max_weight, pct_volume_per_set,
			pct_volume_runavg, pct_max_weight_runavg, pct_volume_per_set_runavg,
			sleep_hr, week_sleep_hr) VALUES `
		args := make([]any, 0, len(batch)*cols)
		valueStrings := make([]string, 0, len(batch))

		for i, r := range batch {
			base := i * cols
			ph := make([]string, cols)
			for j := range ph {
				ph[j] = fmt.Sprintf("$%d", base+j+1)
			}
			valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")

			if p := r.Point; p != nil {
				args = append(args, r.Exercise, r.Frequency, p.Date,
					p.Volume, p.MaxWeight, p.VolumePerSet, p.SetNumber, p.Sets, p.GapDays,
					p.PctVolume, p.PctMaxWeight, p.PctVolumePerSet,
					p.PctVolumeRunAvg, p.PctMaxWeightRunAvg, p.PctVolumePerSetRunAvg,
					r.SleepHr, r.WeekSleepHr)
			} else {
				args = append(args, r.Exercise, r.Frequency, nil,
					nil, nil, nil, nil, nil, nil,
					nil, nil, nil,
					nil, nil, nil,
					r.SleepHr, r.WeekSleepHr)
			}
		}

		query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting exercise sessions: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing exercise sessions: %w", err)
	}
	return inserted, nil
}

const enrichedColumns = `exercise, frequency, session_date,
	volume, max_weight, volume_per_set, set_number, sets, gap_days,
	pct_volume, pct_max_weight, pct_volume_per_set,
	pct_volume_runavg, pct_max_weight_runavg, pct_volume_per_set_runavg,
	sleep_hr, week_sleep_hr`

func scanEnriched(scan func(dest ...any) error) (analysis.EnrichedRow, error) {
	var (
		r              analysis.EnrichedRow
		date           *time.Time
		p              analysis.SeriesPoint
		vol, maxW, vps *float64
		setNum, nSets  *int
	)
	err := scan(&r.Exercise, &r.Frequency, &date,
		&vol, &maxW, &vps, &setNum, &nSets, &p.GapDays,
		&p.PctVolume, &p.PctMaxWeight, &p.PctVolumePerSet,
		&p.PctVolumeRunAvg, &p.PctMaxWeightRunAvg, &p.PctVolumePerSetRunAvg,
		&r.SleepHr, &r.WeekSleepHr)
	if err != nil {
		return r, err
	}
	if date != nil {
		p.Exercise = r.Exercise
		p.Date = *date
		p.Volume = *vol
		p.MaxWeight = *maxW
		p.VolumePerSet = *vps
		p.SetNumber = *setNum
		p.Sets = *nSets
		r.Point = &p
	}
	return r, nil
}

// QueryEnriched retrieves enriched rows, optionally filtered by exercise name
// and bounded to session dates in [start, end). Stub rows (no session date)
// are included only when no time bound is given.
func (db *DB) QueryEnriched(ctx context.Context, exercise string, start, end time.Time) ([]analysis.EnrichedRow, error) {
	var (
		conds []string
		args  []any
	)
	if exercise != "" {
		args = append(args, exercise)
		conds = append(conds, fmt.Sprintf("exercise = $%d", len(args)))
	}
	if !start.IsZero() || !end.IsZero() {
		args = append(args, start, end)
		conds = append(conds, fmt.Sprintf("session_date >= $%d AND session_date < $%d", len(args)-1, len(args)))
	}

	query := `SELECT ` + enrichedColumns + ` FROM exercise_sessions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY exercise ASC, session_date ASC NULLS LAST`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sessions: %w", err)
	}
	defer rows.Close()

	var result []analysis.EnrichedRow
	for rows.Next() {
		r, err := scanEnriched(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise session: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QuerySeries retrieves one exercise's date-ordered series points.
func (db *DB) QuerySeries(ctx context.Context, exercise string) (analysis.ExerciseSeries, error) {
	series := analysis.ExerciseSeries{Exercise: exercise}

	enriched, err := db.QueryEnriched(ctx, exercise, time.Time{}, time.Time{})
	if err != nil {
		return series, err
	}
	for _, r := range enriched {
		if r.Point != nil {
			series.Points = append(series.Points, *r.Point)
		}
	}
	return series, nil
}

// ListExercises retrieves the per-exercise session frequencies, sorted by name.
func (db *DB) ListExercises(ctx context.Context) ([]analysis.ExerciseFrequency, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, MAX(frequency)
		 FROM exercise_sessions
		 GROUP BY exercise
		 ORDER BY exercise ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise frequencies: %w", err)
	}
	defer rows.Close()

	var result []analysis.ExerciseFrequency
	for rows.Next() {
		var f analysis.ExerciseFrequency
		if err := rows.Scan(&f.Exercise, &f.Sessions); err != nil {
			return nil, fmt.Errorf("scanning exercise frequency: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}
