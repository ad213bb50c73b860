package models

import (
	"fmt"
	"time"
)

// HealthTimeLayout is the timestamp format used by Apple Health exports:
// "2023-01-05 07:30:21 +0100".
const HealthTimeLayout = "2006-01-02 15:04:05 -0700"

// ParseHealthTime parses an Apple Health export timestamp.
func ParseHealthTime(s string) (time.Time, error) {
	t, err := time.Parse(HealthTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse health time %q: %w", s, err)
	}
	return t, nil
}

// SleepInterval is one recorded sleep episode from the health export.
type SleepInterval struct {
	CreationDay time.Time `json:"creation_day"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Stage       string    `json:"stage,omitempty"`
}

// DurationHr is the wall-clock hours between end and start. Negative or zero
// values are preserved as recorded; the daily sanity cutoff handles artifacts.
func (s SleepInterval) DurationHr() float64 {
	return s.End.Sub(s.Start).Hours()
}

// DailySleep is total sleep hours for one calendar day.
type DailySleep struct {
	Day     time.Time `json:"day"`
	SleepHr float64   `json:"sleep_hr"`
}

// WeeklySleep is the mean of daily sleep values within one Monday-anchored week.
type WeeklySleep struct {
	WeekStart time.Time `json:"week_start"`
	SleepHr   float64   `json:"sleep_hr"`
}
