package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/repsight/internal/analysis"
	"github.com/meltforce/repsight/internal/models"
	"github.com/meltforce/repsight/internal/storage"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestListExercises verifies the exercises endpoint returns a flat array.
func TestListExercises(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []analysis.ExerciseFrequency{
				{Exercise: "Bench Press", Sessions: 42},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	freqs, err := client.ListExercises(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(freqs) != 1 {
		t.Fatalf("got %d exercises, want 1", len(freqs))
	}
	if freqs[0].Exercise != "Bench Press" || freqs[0].Sessions != 42 {
		t.Errorf("freqs[0] = %+v", freqs[0])
	}
}

// TestQueryWorkoutSets verifies the raw-set endpoint path, that only non-zero
// bounds are sent, and that the rows decode in log order.
func TestQueryWorkoutSets(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sets": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}
			if r.URL.Query().Has("end") {
				t.Errorf("zero end should be omitted, got %q", r.URL.RawQuery)
			}
			writeTestJSON(t, w, []models.SetRecord{
				{Seq: 1, Exercise: "Row", Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Weight: 100, Reps: 5},
				{Seq: 2, Exercise: "Row", Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Weight: 100, Reps: 5},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	sets, err := client.QueryWorkoutSets(context.Background(), start, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if sets[0].Seq != 1 || sets[0].Exercise != "Row" || sets[0].Weight != 100 {
		t.Errorf("sets[0] = %+v", sets[0])
	}
}

// TestQuerySeries verifies the exercise name is path-escaped and the series
// parses back with its optional fields.
func TestQuerySeries(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises/Bench Press/series": func(w http.ResponseWriter, r *http.Request) {
			pct := 0.1
			writeTestJSON(t, w, analysis.ExerciseSeries{
				Exercise: "Bench Press",
				Points: []analysis.SeriesPoint{
					{SessionAggregate: analysis.SessionAggregate{Exercise: "Bench Press", Volume: 500}},
					{SessionAggregate: analysis.SessionAggregate{Exercise: "Bench Press", Volume: 550}, PctVolume: &pct},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	series, err := client.QuerySeries(context.Background(), "Bench Press")
	if err != nil {
		t.Fatal(err)
	}
	if len(series.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(series.Points))
	}
	if series.Points[0].PctVolume != nil {
		t.Error("first point should have nil pct_volume")
	}
	if series.Points[1].PctVolume == nil || *series.Points[1].PctVolume != 0.1 {
		t.Errorf("pct_volume = %v, want 0.1", series.Points[1].PctVolume)
	}
}

// TestQueryEnriched verifies query params and decoding of nested points.
func TestQueryEnriched(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/enriched": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise"); got != "Row" {
				t.Errorf("exercise=%q, want Row", got)
			}
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}
			sleep := 7.5
			writeTestJSON(t, w, []analysis.EnrichedRow{
				{Exercise: "Row", Frequency: 3, SleepHr: &sleep},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	rows, err := client.QueryEnriched(context.Background(), "Row", start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].SleepHr == nil || *rows[0].SleepHr != 7.5 {
		t.Errorf("sleep_hr = %v, want 7.5", rows[0].SleepHr)
	}
}

// TestQuerySleepDaysOpenRange verifies zero bounds are omitted from the query.
func TestQuerySleepDaysOpenRange(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sleep/daily": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Has("start") || r.URL.Query().Has("end") {
				t.Errorf("open range should send no bounds, got %q", r.URL.RawQuery)
			}
			writeTestJSON(t, w, []models.DailySleep{
				{Day: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), SleepHr: 8},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	days, err := client.QuerySleepDays(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 || days[0].SleepHr != 8 {
		t.Errorf("days = %+v", days)
	}
}

// TestGetDataStats verifies the stats endpoint parses a single struct.
func TestGetDataStats(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, storage.DataStats{TotalSets: 1234, TotalExercises: 25})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	stats, err := client.GetDataStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSets != 1234 {
		t.Errorf("total_sets=%d, want 1234", stats.TotalSets)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-200 responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.ListExercises(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
