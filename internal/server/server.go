package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repsight/internal/ingest/applehealth"
	"github.com/meltforce/repsight/internal/ingest/strongcsv"
	"github.com/meltforce/repsight/internal/pipeline"
	"github.com/meltforce/repsight/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	workout *strongcsv.Provider
	health  *applehealth.Provider
	opts    pipeline.Options
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, opts pipeline.Options, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		workout: strongcsv.NewProvider(db, log),
		health:  applehealth.NewProvider(db, log, opts.MaxDailySleepHr),
		opts:    opts,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/workouts", s.handleWorkoutIngest)
		r.Post("/health", s.handleHealthIngest)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/sets", s.handleQuerySets)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{name}/series", s.handleExerciseSeries)
	s.router.Get("/api/v1/enriched", s.handleQueryEnriched)
	s.router.Get("/api/v1/sleep/daily", s.handleDailySleep)
	s.router.Get("/api/v1/sleep/weekly", s.handleWeeklySleep)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/runs", s.handleRuns)
}
