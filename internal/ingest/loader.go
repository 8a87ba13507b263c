package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"athletepulse/internal/dataprocessing"
	apperrors "athletepulse/internal/errors"
)

// Tables are the three raw inputs of the pipeline.
type Tables struct {
	Global    dataprocessing.Table
	Physical  dataprocessing.Table
	AfterGame dataprocessing.Table
}

// Loader materializes the three sources concurrently.
type Loader struct {
	global, physical, afterGame Source
	logger                      *slog.Logger
}

// NewLoader creates a loader over the three sources.
func NewLoader(global, physical, afterGame Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		global:    global,
		physical:  physical,
		afterGame: afterGame,
		logger:    logger.With(slog.String("component", "ingest")),
	}
}

// LoadAll loads all three sources and checks their headers. The first failure
// cancels the others and is returned as an ingestion AppError.
func (l *Loader) LoadAll(ctx context.Context) (Tables, error) {
	var out Tables
	g, gctx := errgroup.WithContext(ctx)

	load := func(src Source, dst *dataprocessing.Table) {
		g.Go(func() error {
			start := time.Now()
			t, err := src.Load(gctx)
			if err != nil {
				l.logger.ErrorContext(gctx, "failed to load source",
					slog.String("source", src.Name()),
					slog.String("error", err.Error()))
				return apperrors.NewIngestError(src.Name(), err)
			}
			t.Name = src.Name()
			if err := CheckColumns(t); err != nil {
				l.logger.ErrorContext(gctx, "source has unexpected headers",
					slog.String("source", src.Name()),
					slog.String("error", err.Error()))
				return apperrors.NewIngestError(src.Name(), err)
			}
			*dst = t
			l.logger.InfoContext(gctx, "source loaded",
				slog.String("source", src.Name()),
				slog.Int("rows", t.Len()),
				slog.Int("columns", len(t.Columns)),
				slog.Duration("duration", time.Since(start)))
			return nil
		})
	}
	load(l.global, &out.Global)
	load(l.physical, &out.Physical)
	load(l.afterGame, &out.AfterGame)

	if err := g.Wait(); err != nil {
		return Tables{}, err
	}
	return out, nil
}

// LoadAll is a convenience wrapper around Loader.LoadAll.
func LoadAll(ctx context.Context, global, physical, afterGame Source) (Tables, error) {
	return NewLoader(global, physical, afterGame, nil).LoadAll(ctx)
}
