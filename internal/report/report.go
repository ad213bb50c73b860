// Package report renders pipeline output for downstream consumption: a flat
// CSV matching the enriched table and a JSON dump of the full result.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/meltforce/repsight/internal/analysis"
)

var enrichedHeader = []string{
	"exercise", "frequency", "date",
	"volume", "max_weight", "volume_per_set", "set_number", "sets", "gap_days",
	"pct_volume", "pct_max_weight", "pct_volume_per_set",
	"pct_volume_runavg", "pct_max_weight_runavg", "pct_volume_per_set_runavg",
	"sleep_hr", "week_sleep_hr",
}

// WriteEnrichedCSV writes the enriched rows as CSV. Absent values become
// empty cells, never zeros.
func WriteEnrichedCSV(w io.Writer, rows []analysis.EnrichedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(enrichedHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		rec := make([]string, 0, len(enrichedHeader))
		rec = append(rec, r.Exercise, strconv.Itoa(r.Frequency))

		if p := r.Point; p != nil {
			rec = append(rec,
				p.Date.Format("2006-01-02"),
				formatFloat(p.Volume),
				formatFloat(p.MaxWeight),
				formatFloat(p.VolumePerSet),
				strconv.Itoa(p.SetNumber),
				strconv.Itoa(p.Sets),
				intCell(p.GapDays),
				floatCell(p.PctVolume),
				floatCell(p.PctMaxWeight),
				floatCell(p.PctVolumePerSet),
				floatCell(p.PctVolumeRunAvg),
				floatCell(p.PctMaxWeightRunAvg),
				floatCell(p.PctVolumePerSetRunAvg),
			)
		} else {
			for i := 0; i < 13; i++ {
				rec = append(rec, "")
			}
		}

		rec = append(rec, floatCell(r.SleepHr), floatCell(r.WeekSleepHr))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteEnrichedJSON writes the enriched rows as an indented JSON array.
func WriteEnrichedJSON(w io.Writer, rows []analysis.EnrichedRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteSeriesJSON writes the per-exercise series as an indented JSON array.
func WriteSeriesJSON(w io.Writer, series []analysis.ExerciseSeries) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(series)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func intCell(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
