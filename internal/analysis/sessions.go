package analysis

import (
	"sort"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// BuildSessions aggregates positive-weight sets into one SessionAggregate
// per (exercise, date). Sets with weight <= 0 (bodyweight/assisted markers)
// are dropped before set numbering, so they never count toward the fatigue
// position of the sets that follow them.
func BuildSessions(sets []models.SetRecord) []SessionAggregate {
	retained := make([]models.SetRecord, 0, len(sets))
	for _, s := range sets {
		if s.Weight > 0 {
			retained = append(retained, s)
		}
	}
	// Load order is the source of truth for set numbering.
	sort.SliceStable(retained, func(i, j int) bool { return retained[i].Seq < retained[j].Seq })

	type sessionKey struct {
		exercise string
		date     time.Time
	}

	rankByDay := make(map[time.Time]int)
	aggs := make(map[sessionKey]*SessionAggregate)

	for _, s := range retained {
		rankByDay[s.Date]++
		rank := rankByDay[s.Date]

		k := sessionKey{s.Exercise, s.Date}
		a, ok := aggs[k]
		if !ok {
			// First set of this exercise today carries the minimum rank.
			a = &SessionAggregate{Exercise: s.Exercise, Date: s.Date, SetNumber: rank}
			aggs[k] = a
		}
		a.Volume += s.Weight * float64(s.Reps)
		if s.Weight > a.MaxWeight {
			a.MaxWeight = s.Weight
		}
		a.Sets++
	}

	out := make([]SessionAggregate, 0, len(aggs))
	for _, a := range aggs {
		a.VolumePerSet = a.Volume / float64(a.Sets)
		out = append(out, *a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Exercise != out[j].Exercise {
			return out[i].Exercise < out[j].Exercise
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
