package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repsight/internal/ingest"
	"github.com/meltforce/repsight/internal/pipeline"
	"github.com/meltforce/repsight/internal/storage"
)

func (s *Server) handleWorkoutIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.workout.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("workout ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.finishIngest(r.Context(), w, "api:workouts", result)
}

func (s *Server) handleHealthIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("health ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.finishIngest(r.Context(), w, "api:health", result)
}

// finishIngest rebuilds the derived tables after a raw ingest and records the
// outcome in the run log. The run row is inserted up front in the running
// state and updated to success or error, so a failed refresh still shows up
// in /api/v1/runs with its error text.
func (s *Server) finishIngest(ctx context.Context, w http.ResponseWriter, source string, result *ingest.Result) {
	start := time.Now()
	run := storage.NewAnalysisRun(source)
	if err := s.db.InsertAnalysisRun(ctx, run); err != nil {
		s.log.Error("run log error", "error", err)
	}

	n, err := pipeline.RefreshDerived(ctx, s.db, s.opts, s.log)
	if err != nil {
		s.log.Error("derived refresh error", "error", err)
		run.Fail(err, int(time.Since(start).Milliseconds()))
		if uerr := s.db.UpdateAnalysisRun(ctx, run); uerr != nil {
			s.log.Error("run log error", "error", uerr)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	result.EnrichedRows = int(n)

	run.SetsStored = result.SetsStored
	run.RowsSkipped = result.RowsSkipped
	run.SleepDaysStored = int64(result.SleepDaysStored)
	run.SleepWeeksStored = int64(result.SleepWeeksStored)
	run.EnrichedRows = n
	run.Succeed(int(time.Since(start).Milliseconds()))
	if err := s.db.UpdateAnalysisRun(ctx, run); err != nil {
		s.log.Error("run log error", "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuerySets(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sets, err := s.db.QueryWorkoutSets(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	freqs, err := s.db.ListExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, freqs)
}

func (s *Server) handleExerciseSeries(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return
	}

	series, err := s.db.QuerySeries(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(series.Points) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleQueryEnriched(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.QueryEnriched(r.Context(), r.URL.Query().Get("exercise"), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleDailySleep(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	days, err := s.db.QuerySleepDays(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleWeeklySleep(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	weeks, err := s.db.QuerySleepWeeks(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.db.QueryAnalysisRuns(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseTimeRange reads optional start/end query params. With neither set the
// range is unbounded: analysis reads usually want the full history.
func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" && endStr == "" {
		return time.Time{}, time.Time{}, nil
	}

	if startStr != "" {
		start, err = parseTimeParam(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = parseTimeParam(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(endStr) == len("2006-01-02") {
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}

func parseTimeParam(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	return t, err
}
