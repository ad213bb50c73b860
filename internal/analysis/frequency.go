package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// Frequencies returns one row per exercise name appearing anywhere in the
// raw log, sorted by name. The count is the number of distinct dates with at
// least one positive-weight set; exercises whose name matches the assisted
// marker keep a row but never accrue a count.
func Frequencies(sets []models.SetRecord, marker string) []ExerciseFrequency {
	marker = strings.ToLower(marker)

	days := make(map[string]map[time.Time]bool)
	var names []string
	for _, s := range sets {
		if _, ok := days[s.Exercise]; !ok {
			days[s.Exercise] = make(map[time.Time]bool)
			names = append(names, s.Exercise)
		}
		if s.Weight <= 0 {
			continue
		}
		if marker != "" && strings.Contains(strings.ToLower(s.Exercise), marker) {
			continue
		}
		days[s.Exercise][s.Date] = true
	}

	sort.Strings(names)
	out := make([]ExerciseFrequency, 0, len(names))
	for _, name := range names {
		out = append(out, ExerciseFrequency{Exercise: name, Sessions: len(days[name])})
	}
	return out
}
