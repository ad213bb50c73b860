package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const workoutCSV = `Date,Workout Name,Exercise Name,Set Order,Weight,Reps
2023-01-02,Push Day,Row,1,100,5
2023-01-02,Push Day,Push Up,2,0,20
2023-01-09,Push Day,Row,1,110,5
`

const healthXML = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" value="HKCategoryValueSleepAnalysisAsleepCore" creationDate="2023-01-02 08:00:00 +0000" startDate="2023-01-01 23:00:00 +0000" endDate="2023-01-02 07:00:00 +0000"/>
</HealthData>
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestRunEndToEnd drives both parsers and the transformer from files on disk
// and checks the joined output.
func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		WorkoutCSV:   writeInput(t, dir, "strong.csv", workoutCSV),
		HealthExport: writeInput(t, dir, "export.xml", healthXML),
	}

	res, err := Run(opts, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Sets) != 3 {
		t.Errorf("sets = %d, want 3", len(res.Sets))
	}
	if len(res.Daily) != 1 || res.Daily[0].SleepHr != 8 {
		t.Fatalf("daily = %+v, want one 8h day", res.Daily)
	}
	if len(res.Weekly) != 1 {
		t.Fatalf("weekly = %d, want 1", len(res.Weekly))
	}

	// Row (two sessions) plus the Push Up stub.
	if len(res.Enriched) != 3 {
		t.Fatalf("enriched = %d, want 3", len(res.Enriched))
	}

	var found bool
	for _, r := range res.Enriched {
		if r.Exercise != "Row" || r.Point == nil || r.Point.Volume != 500 {
			continue
		}
		found = true
		if r.SleepHr == nil || *r.SleepHr != 8 {
			t.Errorf("SleepHr = %v, want 8", r.SleepHr)
		}
		if r.WeekSleepHr == nil || *r.WeekSleepHr != 8 {
			t.Errorf("WeekSleepHr = %v, want 8", r.WeekSleepHr)
		}
	}
	if !found {
		t.Error("first Row session missing from enriched rows")
	}
}

// TestRunWithoutHealthExport verifies sleep context is simply absent when no
// export is configured.
func TestRunWithoutHealthExport(t *testing.T) {
	dir := t.TempDir()
	opts := Options{WorkoutCSV: writeInput(t, dir, "strong.csv", workoutCSV)}

	res, err := Run(opts, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Daily) != 0 || len(res.Weekly) != 0 {
		t.Error("expected no sleep data")
	}
	for _, r := range res.Enriched {
		if r.SleepHr != nil || r.WeekSleepHr != nil {
			t.Errorf("%s carries sleep context without an export", r.Exercise)
		}
	}
}

// TestRunMissingWorkoutCSV verifies a missing required input errors out.
func TestRunMissingWorkoutCSV(t *testing.T) {
	_, err := Run(Options{WorkoutCSV: filepath.Join(t.TempDir(), "absent.csv")}, discard())
	if err == nil {
		t.Fatal("expected error for missing workout export")
	}
}

// TestStateDB verifies the processed-input cache round trip and that a
// changed file no longer matches.
func TestStateDB(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "strong.csv", workoutCSV)

	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	defer state.Close()

	size, hash, err := InputFingerprint(input)
	if err != nil {
		t.Fatalf("InputFingerprint: %v", err)
	}

	done, err := state.IsProcessed(input, size, hash)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh file reported as processed")
	}

	if err := state.MarkProcessed(input, size, hash); err != nil {
		t.Fatal(err)
	}
	done, err = state.IsProcessed(input, size, hash)
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file not reported as processed")
	}

	// Touching the file content invalidates the cache entry.
	if err := os.WriteFile(input, []byte(workoutCSV+"2023-01-10,Push Day,Row,1,115,5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	size2, hash2, err := InputFingerprint(input)
	if err != nil {
		t.Fatal(err)
	}
	done, err = state.IsProcessed(input, size2, hash2)
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("modified file still reported as processed")
	}
}
