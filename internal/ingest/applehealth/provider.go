package applehealth

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/repsight/internal/ingest"
	"github.com/meltforce/repsight/internal/storage"
)

// Provider processes Apple Health XML exports.
type Provider struct {
	db         *storage.DB
	log        *slog.Logger
	maxDailyHr float64
}

// NewProvider creates a new health export ingest provider. maxDailyHr is the
// per-day plausibility cutoff; pass 0 for the default.
func NewProvider(db *storage.DB, log *slog.Logger, maxDailyHr float64) *Provider {
	if maxDailyHr <= 0 {
		maxDailyHr = DefaultMaxDailySleepHr
	}
	return &Provider{db: db, log: log, maxDailyHr: maxDailyHr}
}

// Ingest parses a health export, aggregates the sleep records and replaces
// the stored daily and weekly tables.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	intervals, skipped, err := ParseSleep(r)
	if err != nil {
		return nil, fmt.Errorf("parsing health export: %w", err)
	}

	daily, excluded := DailyTotals(intervals, p.maxDailyHr)
	weekly := WeeklyMeans(daily)

	daysStored, err := p.db.ReplaceSleepDays(ctx, daily)
	if err != nil {
		return nil, fmt.Errorf("storing sleep days: %w", err)
	}
	weeksStored, err := p.db.ReplaceSleepWeeks(ctx, weekly)
	if err != nil {
		return nil, fmt.Errorf("storing sleep weeks: %w", err)
	}

	p.log.Info("health ingest",
		"intervals", len(intervals), "skipped", skipped,
		"days", daysStored, "excluded_days", excluded, "weeks", weeksStored)
	res := &ingest.Result{
		IntervalsReceived: len(intervals),
		IntervalsSkipped:  skipped,
		SleepDaysStored:   int(daysStored),
		DaysExcluded:      excluded,
		SleepWeeksStored:  int(weeksStored),
	}
	res.Summarize()
	return res, nil
}
