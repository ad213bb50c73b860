package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meltforce/repsight/internal/config"
	"github.com/meltforce/repsight/internal/pipeline"
	"github.com/meltforce/repsight/internal/report"
	"github.com/meltforce/repsight/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	workoutCSV := flag.String("workouts", "", "path to workout log CSV export")
	healthExport := flag.String("health", "", "path to Apple Health export.xml")
	outPath := flag.String("out", "", "write the enriched table to this file (default stdout)")
	format := flag.String("format", "csv", "output format: csv or json")
	seriesOut := flag.String("series-out", "", "also write the per-exercise series as JSON to this file")
	force := flag.Bool("force", false, "run even if the inputs are unchanged since the last run")
	dryRun := flag.Bool("dry-run", false, "analyze but skip the database and the state cache")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repsight-run", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var cfg *config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = &config.Config{}
	}

	opts := pipeline.Options{
		WorkoutCSV:      cfg.Inputs.WorkoutCSV,
		HealthExport:    cfg.Inputs.HealthExport,
		RunAvgWindow:    cfg.Analysis.RunAvgWindow,
		MaxDailySleepHr: cfg.Analysis.MaxDailySleepHr,
		AssistedMarker:  cfg.Analysis.AssistedMarker,
	}
	if *workoutCSV != "" {
		opts.WorkoutCSV = *workoutCSV
	}
	if *healthExport != "" {
		opts.HealthExport = *healthExport
	}

	if opts.WorkoutCSV == "" {
		fmt.Fprintf(os.Stderr, "Usage: repsight-run -workouts strong.csv [-health export.xml] [-out enriched.csv] [-format csv|json]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Skip unchanged inputs unless forced. The cache lives beside the other
	// local state so repeated cron runs stay cheap.
	var state *pipeline.StateDB
	if !*dryRun {
		state = openState(cfg, log)
		if state != nil {
			defer state.Close()
			if !*force && allProcessed(state, log, opts.WorkoutCSV, opts.HealthExport) {
				log.Info("inputs unchanged since last run, nothing to do (use -force to rerun)")
				return
			}
		}
	}

	res, err := pipeline.Run(opts, log)
	if err != nil {
		log.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	if err := writeOutput(res, *outPath, *format); err != nil {
		log.Error("writing output failed", "error", err)
		os.Exit(1)
	}

	if *seriesOut != "" {
		if err := writeSeries(res, *seriesOut); err != nil {
			log.Error("writing series failed", "error", err)
			os.Exit(1)
		}
	}

	if !*dryRun && cfg.Database.Configured() {
		persist(cfg, res, log)
	}

	if state != nil {
		markProcessed(state, log, opts.WorkoutCSV, opts.HealthExport)
	}

	log.Info("run complete",
		"sets", len(res.Sets), "rows_skipped", res.RowsSkipped,
		"sleep_days", len(res.Daily), "days_excluded", res.DaysExcluded,
		"enriched_rows", len(res.Enriched))
}

func openState(cfg *config.Config, log *slog.Logger) *pipeline.StateDB {
	dir := cfg.Inputs.CacheDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn("no home directory, state cache disabled", "error", err)
			return nil
		}
		dir = filepath.Join(home, ".repsight")
	}
	state, err := pipeline.OpenStateDB(dir)
	if err != nil {
		log.Warn("state cache unavailable", "error", err)
		return nil
	}
	return state
}

func allProcessed(state *pipeline.StateDB, log *slog.Logger, paths ...string) bool {
	for _, p := range paths {
		if p == "" {
			continue
		}
		size, hash, err := pipeline.InputFingerprint(p)
		if err != nil {
			return false
		}
		done, err := state.IsProcessed(p, size, hash)
		if err != nil {
			log.Warn("state cache read failed", "error", err)
			return false
		}
		if !done {
			return false
		}
	}
	return true
}

func markProcessed(state *pipeline.StateDB, log *slog.Logger, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		size, hash, err := pipeline.InputFingerprint(p)
		if err != nil {
			continue
		}
		if err := state.MarkProcessed(p, size, hash); err != nil {
			log.Warn("state cache write failed", "path", p, "error", err)
		}
	}
}

func writeOutput(res *pipeline.Result, outPath, format string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return report.WriteEnrichedJSON(out, res.Enriched)
	case "csv":
		return report.WriteEnrichedCSV(out, res.Enriched)
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}
}

func writeSeries(res *pipeline.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating series file: %w", err)
	}
	defer f.Close()
	return report.WriteSeriesJSON(f, res.Series)
}

func persist(cfg *config.Config, res *pipeline.Result, log *slog.Logger) {
	ctx := context.Background()
	dsn := cfg.Database.DSN()

	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		return
	}

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		return
	}
	defer db.Close()

	if _, err := res.Persist(ctx, db, log); err != nil {
		log.Error("persisting run failed", "error", err)
	}
}
