package analysis

import "sort"

// BuildSeries groups session aggregates into one date-ordered series per
// exercise and computes the derived fields.
//
// Derived fields exist only for sessions with a predecessor. The running
// averages use a bounded window of up to Options.RunAvgWindow prior sessions:
// the window is consulted before the current value is pushed in, and the mean
// divides by the actual window length, so early sessions with fewer than W
// predecessors get a correctly scaled baseline.
func BuildSeries(aggs []SessionAggregate, opts Options) []ExerciseSeries {
	opts = opts.withDefaults()

	byExercise := make(map[string][]SessionAggregate)
	var names []string
	for _, a := range aggs {
		if _, ok := byExercise[a.Exercise]; !ok {
			names = append(names, a.Exercise)
		}
		byExercise[a.Exercise] = append(byExercise[a.Exercise], a)
	}
	sort.Strings(names)

	series := make([]ExerciseSeries, 0, len(names))
	for _, name := range names {
		rows := byExercise[name]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

		volWin := newRunWindow(opts.RunAvgWindow)
		maxWin := newRunWindow(opts.RunAvgWindow)
		vpsWin := newRunWindow(opts.RunAvgWindow)

		points := make([]SeriesPoint, len(rows))
		for i, agg := range rows {
			p := SeriesPoint{SessionAggregate: agg}

			if i > 0 {
				prev := rows[i-1]
				gap := int(agg.Date.Sub(prev.Date).Hours() / 24)
				p.GapDays = &gap
				p.PctVolume = pctChange(agg.Volume, prev.Volume)
				p.PctMaxWeight = pctChange(agg.MaxWeight, prev.MaxWeight)
				p.PctVolumePerSet = pctChange(agg.VolumePerSet, prev.VolumePerSet)

				p.PctVolumeRunAvg = pctDeviation(agg.Volume, volWin)
				p.PctMaxWeightRunAvg = pctDeviation(agg.MaxWeight, maxWin)
				p.PctVolumePerSetRunAvg = pctDeviation(agg.VolumePerSet, vpsWin)
			}

			volWin.push(agg.Volume)
			maxWin.push(agg.MaxWeight)
			vpsWin.push(agg.VolumePerSet)

			points[i] = p
		}

		series = append(series, ExerciseSeries{Exercise: name, Points: points})
	}
	return series
}

// pctChange returns (cur-prev)/prev, or nil when the baseline is zero.
func pctChange(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	v := (cur - prev) / prev
	return &v
}

// pctDeviation returns the percent deviation of cur from the window mean,
// or nil when the window is empty or its mean is zero.
func pctDeviation(cur float64, w *runWindow) *float64 {
	mean, ok := w.mean()
	if !ok || mean == 0 {
		return nil
	}
	v := (cur - mean) / mean
	return &v
}

// runWindow is a bounded FIFO of the most recent values.
type runWindow struct {
	cap  int
	vals []float64
}

func newRunWindow(capacity int) *runWindow {
	return &runWindow{cap: capacity, vals: make([]float64, 0, capacity)}
}

func (w *runWindow) push(v float64) {
	if len(w.vals) == w.cap {
		copy(w.vals, w.vals[1:])
		w.vals = w.vals[:w.cap-1]
	}
	w.vals = append(w.vals, v)
}

// mean averages over the values actually held, not the window capacity.
func (w *runWindow) mean() (float64, bool) {
	if len(w.vals) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range w.vals {
		sum += v
	}
	return sum / float64(len(w.vals)), true
}
