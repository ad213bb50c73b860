package applehealth

import (
	"sort"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// DefaultMaxDailySleepHr is the sanity cutoff for a single day's summed
// sleep. Days above it are data-entry artifacts (duplicated or overlapping
// intervals), not real values. The boundary is exclusive-above: exactly 15.0
// hours is retained.
const DefaultMaxDailySleepHr = 15.0

// DailyTotals sums interval durations per creation day, then drops days
// whose total exceeds maxHr. Returns the retained days sorted ascending and
// the number of days excluded.
func DailyTotals(intervals []models.SleepInterval, maxHr float64) ([]models.DailySleep, int) {
	totals := make(map[time.Time]float64)
	for _, iv := range intervals {
		totals[iv.CreationDay] += iv.DurationHr()
	}

	var days []models.DailySleep
	var excluded int
	for day, hr := range totals {
		if hr > maxHr {
			excluded++
			continue
		}
		days = append(days, models.DailySleep{Day: day, SleepHr: hr})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
	return days, excluded
}

// WeeklyMeans buckets the (already filtered) daily values by Monday-anchored
// week start and takes the arithmetic mean per week, sorted ascending.
func WeeklyMeans(days []models.DailySleep) []models.WeeklySleep {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, d := range days {
		ws := models.WeekStart(d.Day)
		sums[ws] += d.SleepHr
		counts[ws]++
	}

	var weeks []models.WeeklySleep
	for ws, sum := range sums {
		weeks = append(weeks, models.WeeklySleep{WeekStart: ws, SleepHr: sum / float64(counts[ws])})
	}

	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart.Before(weeks[j].WeekStart) })
	return weeks
}
