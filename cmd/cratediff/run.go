package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/sydlexius/cratediff/internal/config"
	"github.com/sydlexius/cratediff/internal/discogs"
	"github.com/sydlexius/cratediff/internal/logging"
	"github.com/sydlexius/cratediff/internal/ratelimit"
	"github.com/sydlexius/cratediff/internal/reconcile"
	"github.com/sydlexius/cratediff/internal/report"
	"github.com/sydlexius/cratediff/internal/sheets"
)

type runOptions struct {
	configPath  string
	sheetFilter string
	logLevel    string
}

// run executes one full reconciliation: for every configured sheet/folder
// pair, build both indices, diff them, and print the report. Pairs are
// processed strictly sequentially; the first fatal error aborts the run.
func run(ctx context.Context, opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		if !logging.ValidLevel(opts.logLevel) {
			return fmt.Errorf("invalid log level %q", opts.logLevel)
		}
		cfg.Logging.Level = opts.logLevel
	}

	logManager, logger := logging.NewManager(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.File,
	})
	defer logManager.Close() //nolint:errcheck
	logger = logger.With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	tokenSource, err := sheets.TokenSource(ctx, cfg.Google.CredentialsPath, cfg.Google.TokenPath)
	if err != nil {
		return err
	}
	sheetService, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID: cfg.Google.SpreadsheetID,
		ReleaseRange:  cfg.Google.ReleaseRange,
		URLRange:      cfg.Google.URLRange,
	}, tokenSource, logger)
	if err != nil {
		return err
	}

	limiter := ratelimit.NewDefault(logger)
	catalog := discogs.New(discogs.Config{
		BaseURL:  cfg.Discogs.BaseURL,
		Username: cfg.Discogs.Username,
		Token:    cfg.Discogs.Token,
		Timeout:  cfg.Discogs.Timeout(),
	}, limiter, logger)

	reporter := report.New(os.Stdout)

	var summaries []report.PairSummary
	for _, pair := range cfg.Pairs {
		if opts.sheetFilter != "" && pair.Sheet != opts.sheetFilter {
			continue
		}
		logger.Info("comparing pair",
			slog.String("sheet", pair.Sheet),
			slog.Int("folder_id", pair.FolderID))

		sheetIdx, skipped, err := sheetService.ReleaseIndex(ctx, pair.Sheet, pair.SheetGID)
		if err != nil {
			return err
		}
		catalogIdx, err := catalog.CollectionIndex(ctx, pair.FolderID)
		if err != nil {
			return err
		}

		diff := reconcile.Compare(sheetIdx, catalogIdx)
		reporter.Pair(pair.Name(), diff, sheetIdx, catalogIdx)

		summaries = append(summaries, report.PairSummary{
			Pair:            pair.Name(),
			SheetRows:       len(sheetIdx),
			CatalogReleases: len(catalogIdx),
			YearMismatches:  len(diff.YearMismatch),
			SheetOnly:       len(diff.OnlyInA),
			CatalogOnly:     len(diff.OnlyInB),
			SkippedRows:     skipped,
		})
	}

	if opts.sheetFilter != "" && len(summaries) == 0 {
		return fmt.Errorf("no configured pair has sheet %q", opts.sheetFilter)
	}

	reporter.Summary(summaries)
	return nil
}
