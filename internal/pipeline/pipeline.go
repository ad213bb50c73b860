// Package pipeline wires the ingest parsers and the analysis transformer
// into one end-to-end run: exports in, enriched table out.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/repsight/internal/analysis"
	"github.com/meltforce/repsight/internal/ingest/applehealth"
	"github.com/meltforce/repsight/internal/ingest/strongcsv"
	"github.com/meltforce/repsight/internal/models"
	"github.com/meltforce/repsight/internal/storage"
)

// Options selects the input files and analysis knobs for a run.
type Options struct {
	WorkoutCSV   string
	HealthExport string

	RunAvgWindow    int
	MaxDailySleepHr float64
	AssistedMarker  string
}

func (o Options) analysis() analysis.Options {
	return analysis.Options{
		RunAvgWindow:   o.RunAvgWindow,
		AssistedMarker: o.AssistedMarker,
	}
}

func (o Options) maxDailySleep() float64 {
	if o.MaxDailySleepHr <= 0 {
		return applehealth.DefaultMaxDailySleepHr
	}
	return o.MaxDailySleepHr
}

func (o Options) marker() string {
	if o.AssistedMarker == "" {
		return analysis.DefaultAssistedMarker
	}
	return o.AssistedMarker
}

// Result carries everything one run produced, raw and derived.
type Result struct {
	Sets        []models.SetRecord
	RowsSkipped int

	IntervalsSkipped int
	DaysExcluded     int
	Daily            []models.DailySleep
	Weekly           []models.WeeklySleep

	Series      []analysis.ExerciseSeries
	Frequencies []analysis.ExerciseFrequency
	Enriched    []analysis.EnrichedRow
}

// Run executes the full pipeline against local export files. The workout CSV
// is required; the health export is optional and when absent the enriched
// rows simply carry no sleep context.
func Run(opts Options, log *slog.Logger) (*Result, error) {
	res := &Result{}

	f, err := os.Open(opts.WorkoutCSV)
	if err != nil {
		return nil, fmt.Errorf("opening workout export: %w", err)
	}
	res.Sets, res.RowsSkipped, err = strongcsv.Parse(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("parsing workout export: %w", err)
	}
	log.Info("parsed workout export",
		"path", opts.WorkoutCSV, "sets", len(res.Sets), "skipped", res.RowsSkipped)

	if opts.HealthExport != "" {
		h, err := os.Open(opts.HealthExport)
		if err != nil {
			return nil, fmt.Errorf("opening health export: %w", err)
		}
		intervals, skipped, err := applehealth.ParseSleep(h)
		h.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing health export: %w", err)
		}
		res.IntervalsSkipped = skipped

		res.Daily, res.DaysExcluded = applehealth.DailyTotals(intervals, opts.maxDailySleep())
		res.Weekly = applehealth.WeeklyMeans(res.Daily)
		log.Info("parsed health export",
			"path", opts.HealthExport, "intervals", len(intervals), "skipped", skipped,
			"days", len(res.Daily), "excluded_days", res.DaysExcluded)
	}

	res.derive(opts)
	log.Info("analysis complete",
		"exercises", len(res.Frequencies), "enriched_rows", len(res.Enriched))
	return res, nil
}

// derive fills the analysis outputs from the raw inputs already in res.
func (r *Result) derive(opts Options) {
	aggs := analysis.BuildSessions(r.Sets)
	r.Series = analysis.BuildSeries(aggs, opts.analysis())
	r.Frequencies = analysis.Frequencies(r.Sets, opts.marker())
	r.Enriched = analysis.Enrich(r.Series, r.Frequencies, r.Daily, r.Weekly)
}

// RefreshDerived recomputes the enriched table from the raw rows already in
// the database. Called after every ingest so reads always see the joined
// view that matches the stored exports.
func RefreshDerived(ctx context.Context, db *storage.DB, opts Options, log *slog.Logger) (int64, error) {
	sets, err := db.AllWorkoutSets(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading workout sets: %w", err)
	}
	daily, err := db.AllSleepDays(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading sleep days: %w", err)
	}
	weekly, err := db.AllSleepWeeks(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading sleep weeks: %w", err)
	}

	res := &Result{Sets: sets, Daily: daily, Weekly: weekly}
	res.derive(opts)

	n, err := db.ReplaceEnriched(ctx, res.Enriched)
	if err != nil {
		return 0, fmt.Errorf("storing enriched rows: %w", err)
	}
	log.Info("refreshed derived tables", "enriched_rows", n)
	return n, nil
}

// Persist replaces the raw tables with this result's inputs and refreshes
// the derived tables. The run record follows the running → success/error
// lifecycle so partial failures leave a traceable entry in the run log.
func (r *Result) Persist(ctx context.Context, db *storage.DB, log *slog.Logger) (storage.AnalysisRun, error) {
	start := time.Now()
	run := storage.NewAnalysisRun("batch")
	if err := db.InsertAnalysisRun(ctx, run); err != nil {
		return run, err
	}

	fail := func(err error) (storage.AnalysisRun, error) {
		run.Fail(err, int(time.Since(start).Milliseconds()))
		if uerr := db.UpdateAnalysisRun(ctx, run); uerr != nil {
			log.Error("run log update failed", "run_id", run.ID, "error", uerr)
		}
		return run, err
	}

	setsStored, err := db.ReplaceWorkoutSets(ctx, r.Sets)
	if err != nil {
		return fail(err)
	}
	daysStored, err := db.ReplaceSleepDays(ctx, r.Daily)
	if err != nil {
		return fail(err)
	}
	weeksStored, err := db.ReplaceSleepWeeks(ctx, r.Weekly)
	if err != nil {
		return fail(err)
	}
	enriched, err := db.ReplaceEnriched(ctx, r.Enriched)
	if err != nil {
		return fail(err)
	}

	run.SetsStored = setsStored
	run.RowsSkipped = r.RowsSkipped
	run.SleepDaysStored = daysStored
	run.SleepWeeksStored = weeksStored
	run.EnrichedRows = enriched
	run.Succeed(int(time.Since(start).Milliseconds()))
	if err := db.UpdateAnalysisRun(ctx, run); err != nil {
		return run, err
	}
	log.Info("persisted run",
		"run_id", run.ID, "sets", setsStored, "sleep_days", daysStored, "enriched_rows", enriched)
	return run, nil
}
