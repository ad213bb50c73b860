package analysis

import (
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// Enrich right-joins the frequency table onto the per-exercise series (every
// logged exercise appears, stubbed when it has no positive-weight sessions),
// then left-joins daily sleep by exact date and weekly sleep by the date's
// week start. Absent sleep values stay nil.
func Enrich(series []ExerciseSeries, freqs []ExerciseFrequency, daily []models.DailySleep, weekly []models.WeeklySleep) []EnrichedRow {
	byExercise := make(map[string]ExerciseSeries, len(series))
	for _, s := range series {
		byExercise[s.Exercise] = s
	}

	sleepByDay := make(map[time.Time]float64, len(daily))
	for _, d := range daily {
		sleepByDay[d.Day] = d.SleepHr
	}
	sleepByWeek := make(map[time.Time]float64, len(weekly))
	for _, w := range weekly {
		sleepByWeek[w.WeekStart] = w.SleepHr
	}

	var rows []EnrichedRow
	for _, f := range freqs {
		s, ok := byExercise[f.Exercise]
		if !ok {
			// No positive-weight session ever — keep the exercise visible.
			rows = append(rows, EnrichedRow{Exercise: f.Exercise, Frequency: f.Sessions})
			continue
		}
		for i := range s.Points {
			p := s.Points[i]
			row := EnrichedRow{
				Exercise:  f.Exercise,
				Frequency: f.Sessions,
				Point:     &p,
			}
			if hr, ok := sleepByDay[p.Date]; ok {
				row.SleepHr = &hr
			}
			if hr, ok := sleepByWeek[models.WeekStart(p.Date)]; ok {
				row.WeekSleepHr = &hr
			}
			rows = append(rows, row)
		}
	}
	return rows
}
