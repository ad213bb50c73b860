package applehealth

import (
	"strings"
	"testing"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <ExportDate value="2023-02-01 10:00:00 +0100"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" creationDate="2023-01-05 07:30:21 +0100" startDate="2023-01-05 07:30:00 +0100" endDate="2023-01-05 07:30:00 +0100" value="62"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" sourceName="Watch" creationDate="2023-01-05 07:30:21 +0100" startDate="2023-01-04 23:30:00 +0100" endDate="2023-01-05 07:00:00 +0100" value="HKCategoryValueSleepAnalysisAsleepCore"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" sourceName="Watch" creationDate="2023-01-05 07:30:21 +0100" startDate="2023-01-05 07:00:00 +0100" endDate="2023-01-05 07:20:00 +0100" value="HKCategoryValueSleepAnalysisAsleepREM"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" sourceName="Watch" creationDate="2023-01-06 08:00:00 +0100" startDate="2023-01-05 23:00:00 +0100" endDate="2023-01-06 07:00:00 +0100" value="HKCategoryValueSleepAnalysisAsleepUnspecified">
  <MetadataEntry key="HKTimeZone" value="Europe/Berlin"/>
 </Record>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" sourceName="Watch" creationDate="2023-01-07 08:00:00 +0100" startDate="2023-01-06 23:00:00 +0100"/>
</HealthData>
`

// TestParseSleepExtractsRecords verifies that only sleep-analysis records
// are extracted, stages are normalized, and a record missing endDate is
// skipped without failing the parse.
func TestParseSleepExtractsRecords(t *testing.T) {
	intervals, skipped, err := ParseSleep(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(intervals) != 3 {
		t.Fatalf("intervals = %d, want 3", len(intervals))
	}

	first := intervals[0]
	wantDay := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	if !first.CreationDay.Equal(wantDay) {
		t.Errorf("creation day = %s, want %s", first.CreationDay, wantDay)
	}
	if first.Stage != models.SleepStageCore {
		t.Errorf("stage = %q, want %q", first.Stage, models.SleepStageCore)
	}
	if got := first.DurationHr(); got != 7.5 {
		t.Errorf("duration = %v, want 7.5", got)
	}
}

// TestParseSleepStructuralError verifies that broken XML aborts the parse.
func TestParseSleepStructuralError(t *testing.T) {
	_, _, err := ParseSleep(strings.NewReader("<HealthData><Record"))
	if err == nil {
		t.Fatal("expected error for truncated XML")
	}
}

// TestDailyTotalsCutoff verifies the per-day sum and the exclusive-above
// 15-hour cutoff: a day summing to exactly 15.0 is retained, 16 is dropped.
func TestDailyTotalsCutoff(t *testing.T) {
	day1 := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC)
	mk := func(day time.Time, hours float64) models.SleepInterval {
		start := day.Add(-2 * time.Hour)
		return models.SleepInterval{CreationDay: day, Start: start, End: start.Add(time.Duration(hours * float64(time.Hour)))}
	}

	intervals := []models.SleepInterval{
		mk(day1, 8), mk(day1, 7), // sums to exactly 15.0
		mk(day2, 10), mk(day2, 6), // sums to 16 — artifact
	}

	days, excluded := DailyTotals(intervals, DefaultMaxDailySleepHr)
	if excluded != 1 {
		t.Errorf("excluded = %d, want 1", excluded)
	}
	if len(days) != 1 {
		t.Fatalf("days = %d, want 1", len(days))
	}
	if !days[0].Day.Equal(day1) || days[0].SleepHr != 15.0 {
		t.Errorf("day = %s/%v, want %s/15.0", days[0].Day, days[0].SleepHr, day1)
	}
}

// TestWeeklyMeans verifies Monday-anchored bucketing and the per-week mean.
func TestWeeklyMeans(t *testing.T) {
	// 2023-01-02 is a Monday; 2023-01-08 the following Sunday; 2023-01-09 next week.
	days := []models.DailySleep{
		{Day: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), SleepHr: 7},
		{Day: time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC), SleepHr: 9},
		{Day: time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC), SleepHr: 6},
	}

	weeks := WeeklyMeans(days)
	if len(weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(weeks))
	}
	if got := weeks[0].SleepHr; got != 8 {
		t.Errorf("week 1 mean = %v, want 8", got)
	}
	if want := time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC); !weeks[1].WeekStart.Equal(want) {
		t.Errorf("week 2 start = %s, want %s", weeks[1].WeekStart, want)
	}
	if got := weeks[1].SleepHr; got != 6 {
		t.Errorf("week 2 mean = %v, want 6", got)
	}
}
