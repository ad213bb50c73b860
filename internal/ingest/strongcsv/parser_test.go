package strongcsv

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Date,Workout Name,Exercise Name,Set Order,Weight,Reps,Notes
2023-01-01 17:30:00,Upper A,Bench Press,1,100,5,
2023-01-01 17:35:00,Upper A,Bench Press,2,100,5,
2023-01-01 17:45:00,Upper A,Row,1,80,8,felt heavy
2023-01-08 17:30:00,Upper A,Bench Press,1,102.5,5,
`

// TestParseCompleteExport verifies the happy path: all rows parsed in file
// order, extra columns ignored, sequence ids assigned 1..n.
func TestParseCompleteExport(t *testing.T) {
	sets, skipped, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(sets) != 4 {
		t.Fatalf("sets = %d, want 4", len(sets))
	}

	for i, s := range sets {
		if s.Seq != i+1 {
			t.Errorf("sets[%d].Seq = %d, want %d", i, s.Seq, i+1)
		}
	}

	first := sets[0]
	if first.Exercise != "Bench Press" {
		t.Errorf("exercise = %q, want %q", first.Exercise, "Bench Press")
	}
	wantDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(wantDate) {
		t.Errorf("date = %s, want %s", first.Date, wantDate)
	}
	if first.Weight != 100 || first.Reps != 5 {
		t.Errorf("weight/reps = %v/%d, want 100/5", first.Weight, first.Reps)
	}

	if sets[3].Weight != 102.5 {
		t.Errorf("sets[3].Weight = %v, want 102.5", sets[3].Weight)
	}
}

// TestParseSemicolonDelimiter verifies delimiter sniffing and European decimals.
func TestParseSemicolonDelimiter(t *testing.T) {
	csv := "Date;Exercise Name;Weight;Reps\n2023-02-01;Squat;122,5;3\n"
	sets, skipped, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if skipped != 0 || len(sets) != 1 {
		t.Fatalf("sets/skipped = %d/%d, want 1/0", len(sets), skipped)
	}
	if sets[0].Weight != 122.5 {
		t.Errorf("weight = %v, want 122.5", sets[0].Weight)
	}
}

// TestParseMissingColumn verifies that an absent required column fails the
// whole load with ErrMissingColumn.
func TestParseMissingColumn(t *testing.T) {
	csv := "Date,Exercise Name,Reps\n2023-01-01,Bench Press,5\n"
	_, _, err := Parse(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("error = %v, want ErrMissingColumn", err)
	}
}

// TestParseMalformedRowsSkipped verifies that individual bad rows are
// skipped without aborting, and that sequence ids stay contiguous over the
// retained rows.
func TestParseMalformedRowsSkipped(t *testing.T) {
	csv := `Date,Exercise Name,Weight,Reps
2023-01-01,Bench Press,100,5
not-a-date,Bench Press,100,5
2023-01-01,Row,eighty,8
2023-01-01,,80,8
2023-01-01,Deadlift,140,3
`
	sets, skipped, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	if sets[0].Seq != 1 || sets[1].Seq != 2 {
		t.Errorf("seqs = %d,%d, want 1,2", sets[0].Seq, sets[1].Seq)
	}
	if sets[1].Exercise != "Deadlift" {
		t.Errorf("sets[1].Exercise = %q, want %q", sets[1].Exercise, "Deadlift")
	}
}
