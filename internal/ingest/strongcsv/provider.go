package strongcsv

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/repsight/internal/ingest"
	"github.com/meltforce/repsight/internal/storage"
)

// Provider processes workout log CSV exports.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new workout CSV ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a CSV export and replaces the stored set log. The export is
// always the full history, so a re-import reflects exactly the latest file.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sets, skipped, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	stored, err := p.db.ReplaceWorkoutSets(ctx, sets)
	if err != nil {
		return nil, fmt.Errorf("storing sets: %w", err)
	}

	p.log.Info("workout ingest", "received", len(sets), "stored", stored, "skipped", skipped)
	res := &ingest.Result{
		SetsReceived: len(sets),
		SetsStored:   stored,
		RowsSkipped:  skipped,
	}
	res.Summarize()
	return res, nil
}
