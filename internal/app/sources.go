package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"athletepulse/internal/config"
	"athletepulse/internal/dataprocessing"
	"athletepulse/internal/ingest"
	"athletepulse/internal/services"
)

// NewTableLoader returns the loader for the configured source kind. Excel
// workbooks are discovered on every load, so files dropped into the data
// directory are picked up by the next reload.
func NewTableLoader(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (services.TableLoader, error) {
	src := cfg.Sources
	timeout := src.LoadTimeout

	var load func(ctx context.Context) (ingest.Tables, error)
	switch src.Kind {
	case config.SourceSheets:
		sheet := func(table, rng string) ingest.SheetsSource {
			return ingest.SheetsSource{
				Table:           table,
				SpreadsheetID:   src.SpreadsheetID,
				Range:           rng,
				APIKey:          src.APIKey,
				CredentialsFile: src.CredentialsFile,
			}
		}
		loader := ingest.NewLoader(
			sheet(dataprocessing.TableGlobal, src.GlobalRange),
			sheet(dataprocessing.TablePhysical, src.PhysicalRange),
			sheet(dataprocessing.TableAfterGame, src.AfterGameRange),
			logger,
		)
		load = loader.LoadAll
	case config.SourceExcel, "":
		fixed := ingest.Workbooks{
			Global:    resolve(paths.BaseDir, src.GlobalPath),
			Physical:  resolve(paths.BaseDir, src.PhysicalPath),
			AfterGame: resolve(paths.BaseDir, src.AfterGamePath),
		}
		load = func(ctx context.Context) (ingest.Tables, error) {
			books, err := ingest.Discover(paths.DataDir, fixed)
			if err != nil {
				return ingest.Tables{}, fmt.Errorf("failed to discover workbooks: %w", err)
			}
			g, p, a := books.Sources()
			return ingest.NewLoader(g, p, a, logger).LoadAll(ctx)
		}
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
	}

	return services.TableLoaderFunc(func(ctx context.Context) (ingest.Tables, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return load(ctx)
	}), nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}
