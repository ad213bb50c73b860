package analysis

import (
	"testing"

	"github.com/meltforce/repsight/internal/models"
)

// TestFrequencies verifies distinct-date counting, the assisted marker, and
// that weight <= 0 sets never accrue counts but keep the exercise visible.
func TestFrequencies(t *testing.T) {
	sets := []models.SetRecord{
		{Seq: 1, Exercise: "Bench Press", Date: day(1), Weight: 100, Reps: 5},
		{Seq: 2, Exercise: "Bench Press", Date: day(1), Weight: 100, Reps: 5}, // same date
		{Seq: 3, Exercise: "Bench Press", Date: day(8), Weight: 100, Reps: 5},
		{Seq: 4, Exercise: "Assisted Pull Up", Date: day(1), Weight: 20, Reps: 8},
		{Seq: 5, Exercise: "Push Up", Date: day(1), Weight: 0, Reps: 20},
	}

	freqs := Frequencies(sets, DefaultAssistedMarker)
	if len(freqs) != 3 {
		t.Fatalf("frequencies = %d, want 3", len(freqs))
	}

	byName := make(map[string]int)
	for _, f := range freqs {
		byName[f.Exercise] = f.Sessions
	}
	if byName["Bench Press"] != 2 {
		t.Errorf("Bench Press = %d, want 2 (distinct dates)", byName["Bench Press"])
	}
	if byName["Assisted Pull Up"] != 0 {
		t.Errorf("Assisted Pull Up = %d, want 0 (marker match)", byName["Assisted Pull Up"])
	}
	if byName["Push Up"] != 0 {
		t.Errorf("Push Up = %d, want 0 (no positive-weight set)", byName["Push Up"])
	}
}

// TestEnrichJoins verifies the date and week-start sleep joins and that a
// date without sleep data stays nil.
func TestEnrichJoins(t *testing.T) {
	sets := []models.SetRecord{
		{Seq: 1, Exercise: "Row", Date: day(2), Weight: 100, Reps: 5}, // Mon 2023-01-02
		{Seq: 2, Exercise: "Row", Date: day(9), Weight: 110, Reps: 5}, // Mon 2023-01-09
	}
	aggs := BuildSessions(sets)
	series := BuildSeries(aggs, Options{})
	freqs := Frequencies(sets, DefaultAssistedMarker)

	daily := []models.DailySleep{{Day: day(2), SleepHr: 7.5}}
	weekly := []models.WeeklySleep{
		{WeekStart: day(2), SleepHr: 7.1},
		{WeekStart: day(9), SleepHr: 6.9},
	}

	rows := Enrich(series, freqs, daily, weekly)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	r0 := rows[0]
	if r0.Point == nil || !r0.Point.Date.Equal(day(2)) {
		t.Fatal("rows[0] should carry the 2023-01-02 point")
	}
	if r0.SleepHr == nil || *r0.SleepHr != 7.5 {
		t.Errorf("rows[0].SleepHr = %v, want 7.5", r0.SleepHr)
	}
	if r0.WeekSleepHr == nil || *r0.WeekSleepHr != 7.1 {
		t.Errorf("rows[0].WeekSleepHr = %v, want 7.1", r0.WeekSleepHr)
	}
	if r0.Frequency != 2 {
		t.Errorf("rows[0].Frequency = %d, want 2", r0.Frequency)
	}

	// No daily sleep recorded for 2023-01-09: absent, not zero.
	r1 := rows[1]
	if r1.SleepHr != nil {
		t.Errorf("rows[1].SleepHr = %v, want nil", *r1.SleepHr)
	}
	if r1.WeekSleepHr == nil || *r1.WeekSleepHr != 6.9 {
		t.Errorf("rows[1].WeekSleepHr = %v, want 6.9", r1.WeekSleepHr)
	}
}

// TestEnrichKeepsFrequencyOnlyExercises verifies the right-join: an exercise
// whose sets were all weight <= 0 still appears, as a stub row.
func TestEnrichKeepsFrequencyOnlyExercises(t *testing.T) {
	sets := []models.SetRecord{
		{Seq: 1, Exercise: "Push Up", Date: day(1), Weight: 0, Reps: 20},
		{Seq: 2, Exercise: "Bench Press", Date: day(1), Weight: 100, Reps: 5},
	}
	aggs := BuildSessions(sets)
	series := BuildSeries(aggs, Options{})
	freqs := Frequencies(sets, DefaultAssistedMarker)

	rows := Enrich(series, freqs, nil, nil)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	var stub *EnrichedRow
	for i := range rows {
		if rows[i].Exercise == "Push Up" {
			stub = &rows[i]
		}
	}
	if stub == nil {
		t.Fatal("Push Up missing from enriched rows")
	}
	if stub.Point != nil {
		t.Error("stub row must have nil point")
	}
	if stub.Frequency != 0 {
		t.Errorf("stub frequency = %d, want 0", stub.Frequency)
	}
}

// TestEnrichExcludedSleepDayAbsent verifies that a day dropped by the sleep
// cutoff never reappears as a zero in the join.
func TestEnrichExcludedSleepDayAbsent(t *testing.T) {
	sets := []models.SetRecord{
		{Seq: 1, Exercise: "Row", Date: day(5), Weight: 100, Reps: 5},
	}
	series := BuildSeries(BuildSessions(sets), Options{})
	freqs := Frequencies(sets, DefaultAssistedMarker)

	// The 16-hour day was filtered upstream; daily arrives without it.
	var daily []models.DailySleep
	rows := Enrich(series, freqs, daily, nil)
	if rows[0].SleepHr != nil {
		t.Errorf("SleepHr = %v, want nil for excluded day", *rows[0].SleepHr)
	}
}
