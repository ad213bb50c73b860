package applehealth

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/meltforce/repsight/internal/models"
)

// ParseSleep streams an Apple Health export.xml and extracts the sleep
// analysis records. A record missing any of creationDate, startDate or
// endDate (or with an unparseable timestamp) is skipped and counted; a
// structural XML error aborts the parse.
//
// The decoder streams element-by-element: a full export can run to hundreds
// of megabytes and must not be read into memory at once.
func ParseSleep(r io.Reader) ([]models.SleepInterval, int, error) {
	dec := xml.NewDecoder(r)

	var intervals []models.SleepInterval
	var skipped int

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("reading export: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Record" {
			continue
		}

		var recType, creation, start, end, value string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "type":
				recType = a.Value
			case "creationDate":
				creation = a.Value
			case "startDate":
				start = a.Value
			case "endDate":
				end = a.Value
			case "value":
				value = a.Value
			}
		}

		if !strings.Contains(recType, "SleepAnalysis") {
			continue
		}

		interval, err := buildInterval(creation, start, end, value)
		if err != nil {
			skipped++
			continue
		}
		intervals = append(intervals, interval)
	}

	return intervals, skipped, nil
}

func buildInterval(creation, start, end, value string) (models.SleepInterval, error) {
	if creation == "" || start == "" || end == "" {
		return models.SleepInterval{}, fmt.Errorf("record missing required attribute")
	}

	creationTime, err := models.ParseHealthTime(creation)
	if err != nil {
		return models.SleepInterval{}, err
	}
	startTime, err := models.ParseHealthTime(start)
	if err != nil {
		return models.SleepInterval{}, err
	}
	endTime, err := models.ParseHealthTime(end)
	if err != nil {
		return models.SleepInterval{}, err
	}

	stage, _ := models.NormalizeSleepStage(value)

	return models.SleepInterval{
		// The creation day is taken in the record's own timezone offset,
		// matching how the exporting device assigned the night to a date.
		CreationDay: models.DateOf(creationTime),
		Start:       startTime,
		End:         endTime,
		Stage:       stage,
	}, nil
}
