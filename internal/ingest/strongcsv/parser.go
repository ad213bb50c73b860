package strongcsv

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/repsight/internal/models"
)

// ErrMissingColumn is returned when a required column is absent from the
// header row. This aborts the whole load: without the column mapping no row
// can be interpreted.
var ErrMissingColumn = errors.New("missing required column")

// Aliases accepted for each required column, lowercased. Strong exports use
// "Exercise Name"/"Date"/"Weight"/"Reps"; other apps vary slightly.
var columnAliases = map[string][]string{
	"exercise": {"exercise name", "exercise"},
	"date":     {"date", "workout date"},
	"weight":   {"weight", "weight (kg)", "kg"},
	"reps":     {"reps", "rep count", "repetitions"},
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse reads a workout log CSV export and returns the set records in file
// order, each carrying a 1-based load sequence id. Rows with malformed cells
// are skipped and counted; a header missing a required column fails the load.
func Parse(r io.Reader) ([]models.SetRecord, int, error) {
	br := bufio.NewReader(r)

	// Sniff the delimiter from the header line. Some exports use ';'.
	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	delim := byte(',')
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		delim = ';'
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.Comma = rune(delim)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var sets []models.SetRecord
	var skipped int
	seq := 0

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row (bad quoting etc.) — skip it, keep the batch going.
			skipped++
			continue
		}

		set, err := parseRow(rec, cols)
		if err != nil {
			skipped++
			continue
		}

		seq++
		set.Seq = seq
		sets = append(sets, set)
	}

	return sets, skipped, nil
}

// columnIndexes holds the resolved position of each required column.
type columnIndexes struct {
	exercise int
	date     int
	weight   int
	reps     int
}

func resolveColumns(header []string) (columnIndexes, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	find := func(key string) (int, error) {
		for _, alias := range columnAliases[key] {
			if i, ok := byName[alias]; ok {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, key)
	}

	var cols columnIndexes
	var err error
	if cols.exercise, err = find("exercise"); err != nil {
		return cols, err
	}
	if cols.date, err = find("date"); err != nil {
		return cols, err
	}
	if cols.weight, err = find("weight"); err != nil {
		return cols, err
	}
	if cols.reps, err = find("reps"); err != nil {
		return cols, err
	}
	return cols, nil
}

func parseRow(rec []string, cols columnIndexes) (models.SetRecord, error) {
	max := cols.exercise
	for _, i := range []int{cols.date, cols.weight, cols.reps} {
		if i > max {
			max = i
		}
	}
	if len(rec) <= max {
		return models.SetRecord{}, fmt.Errorf("row has %d fields, need %d", len(rec), max+1)
	}

	exercise := strings.TrimSpace(rec[cols.exercise])
	if exercise == "" {
		return models.SetRecord{}, errors.New("empty exercise name")
	}

	date, err := parseDate(rec[cols.date])
	if err != nil {
		return models.SetRecord{}, err
	}

	weight, err := parseDecimal(rec[cols.weight])
	if err != nil {
		return models.SetRecord{}, err
	}

	reps, err := strconv.Atoi(strings.TrimSpace(rec[cols.reps]))
	if err != nil {
		return models.SetRecord{}, fmt.Errorf("parsing reps %q: %w", rec[cols.reps], err)
	}

	return models.SetRecord{
		Exercise: exercise,
		Date:     models.DateOf(date),
		Weight:   weight,
		Reps:     reps,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseDecimal accepts both "102.5" and the European "102,5".
func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing weight %q: %w", s, err)
	}
	return f, nil
}
