package models

import "time"

// SetRecord is one logged exercise set from the workout export.
//
// Seq is assigned at load time, in file order, and is the only ordering
// carried through the pipeline: set numbering depends on the original row
// order within a day, so it must never be reconstructed from slice order.
type SetRecord struct {
	Seq      int       `json:"seq"`
	Exercise string    `json:"exercise"`
	Date     time.Time `json:"date"`
	Weight   float64   `json:"weight"`
	Reps     int       `json:"reps"`
}

// DateOf truncates a timestamp to its calendar day (midnight UTC).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the week containing the given day.
// Weekly sleep buckets are anchored to Monday.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}
