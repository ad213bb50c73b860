package models

import "strings"

// Canonical sleep stage names.
const (
	SleepStageCore   = "Core"
	SleepStageDeep   = "Deep"
	SleepStageREM    = "REM"
	SleepStageAwake  = "Awake"
	SleepStageInBed  = "In Bed"
	SleepStageAsleep = "Asleep"
)

// stageSuffixMap maps the suffix of an HKCategoryValueSleepAnalysis* constant
// to its canonical stage name. Older exports use plain "Asleep"/"InBed"
// without the stage breakdown.
var stageSuffixMap = map[string]string{
	"asleepcore":        SleepStageCore,
	"asleepdeep":        SleepStageDeep,
	"asleeprem":         SleepStageREM,
	"asleepunspecified": SleepStageAsleep,
	"asleep":            SleepStageAsleep,
	"awake":             SleepStageAwake,
	"inbed":             SleepStageInBed,
}

const hkSleepValuePrefix = "hkcategoryvaluesleepanalysis"

// NormalizeSleepStage maps an Apple Health sleep value constant to its
// canonical stage name. Returns the canonical name and true if recognized,
// or the original string and false if unknown.
func NormalizeSleepStage(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	lower = strings.TrimPrefix(lower, hkSleepValuePrefix)
	if canonical, ok := stageSuffixMap[lower]; ok {
		return canonical, true
	}
	return raw, false
}
