package ingest

import "fmt"

// Result holds the outcome of an ingest operation.
type Result struct {
	SetsReceived int   `json:"sets_received,omitempty"`
	SetsStored   int64 `json:"sets_stored,omitempty"`
	RowsSkipped  int   `json:"rows_skipped,omitempty"`

	IntervalsReceived int `json:"intervals_received,omitempty"`
	IntervalsSkipped  int `json:"intervals_skipped,omitempty"`
	SleepDaysStored   int `json:"sleep_days_stored,omitempty"`
	DaysExcluded      int `json:"days_excluded,omitempty"`
	SleepWeeksStored  int `json:"sleep_weeks_stored,omitempty"`

	EnrichedRows int `json:"enriched_rows,omitempty"`

	Message string `json:"message,omitempty"`
}

// Summarize fills Message with a one-line account of what the ingest stored,
// picking the workout or sleep wording from the populated counters.
func (r *Result) Summarize() {
	if r.IntervalsReceived > 0 || r.SleepDaysStored > 0 {
		r.Message = fmt.Sprintf("stored %d sleep days and %d weeks from %d intervals (%d skipped, %d days excluded)",
			r.SleepDaysStored, r.SleepWeeksStored, r.IntervalsReceived, r.IntervalsSkipped, r.DaysExcluded)
		return
	}
	r.Message = fmt.Sprintf("stored %d of %d sets (%d rows skipped)",
		r.SetsStored, r.SetsReceived, r.RowsSkipped)
}
