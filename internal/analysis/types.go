package analysis

import "time"

// Defaults for the transformer knobs. Both can be overridden via config.
const (
	DefaultRunAvgWindow   = 5
	DefaultAssistedMarker = "assisted"
)

// Options configures the per-exercise metrics transformer.
type Options struct {
	// RunAvgWindow bounds the trailing window for running-average deviation
	// fields: at most this many prior sessions feed each mean.
	RunAvgWindow int
	// AssistedMarker excludes matching exercise names (case-insensitive
	// substring) from frequency counting.
	AssistedMarker string
}

func (o Options) withDefaults() Options {
	if o.RunAvgWindow <= 0 {
		o.RunAvgWindow = DefaultRunAvgWindow
	}
	if o.AssistedMarker == "" {
		o.AssistedMarker = DefaultAssistedMarker
	}
	return o
}

// SessionAggregate is one exercise's aggregate for one training day.
type SessionAggregate struct {
	Exercise     string    `json:"exercise"`
	Date         time.Time `json:"date"`
	Volume       float64   `json:"volume"`
	MaxWeight    float64   `json:"max_weight"`
	VolumePerSet float64   `json:"volume_per_set"`
	// SetNumber is the 1-based position of this exercise's first set within
	// the whole day's retained sets, a proxy for fatigue accumulated before
	// the exercise was started.
	SetNumber int `json:"set_number"`
	Sets      int `json:"sets"`
}

// SeriesPoint is a SessionAggregate with its derived time-series fields.
// Derived fields are nil on the first session of an exercise (no
// predecessor) and whenever a denominator would be zero.
type SeriesPoint struct {
	SessionAggregate

	GapDays         *int     `json:"gap_days,omitempty"`
	PctVolume       *float64 `json:"pct_volume,omitempty"`
	PctMaxWeight    *float64 `json:"pct_max_weight,omitempty"`
	PctVolumePerSet *float64 `json:"pct_volume_per_set,omitempty"`

	PctVolumeRunAvg       *float64 `json:"pct_volume_runavg,omitempty"`
	PctMaxWeightRunAvg    *float64 `json:"pct_max_weight_runavg,omitempty"`
	PctVolumePerSetRunAvg *float64 `json:"pct_volume_per_set_runavg,omitempty"`
}

// ExerciseSeries is one exercise's date-ordered sequence of series points.
type ExerciseSeries struct {
	Exercise string        `json:"exercise"`
	Points   []SeriesPoint `json:"points"`
}

// ExerciseFrequency is the number of distinct qualifying training days for
// one exercise name.
type ExerciseFrequency struct {
	Exercise string `json:"exercise"`
	Sessions int    `json:"sessions"`
}

// EnrichedRow is the terminal joined record: a series point (nil for
// exercises that never had a positive-weight session) plus frequency and
// sleep context. Missing sleep stays nil, never zero.
type EnrichedRow struct {
	Exercise    string       `json:"exercise"`
	Frequency   int          `json:"frequency"`
	Point       *SeriesPoint `json:"point,omitempty"`
	SleepHr     *float64     `json:"sleep_hr,omitempty"`
	WeekSleepHr *float64     `json:"week_sleep_hr,omitempty"`
}
