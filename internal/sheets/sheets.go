// Package sheets builds a keyed release index from the user-maintained
// Google Sheets record collection. Its output has the same shape as the
// Discogs collection index so the reconciler can treat both sides alike.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/sydlexius/cratediff/internal/release"
)

// Rows are aligned from row 2; row 1 holds column headers.
const firstDataRow = 2

// Config holds the spreadsheet settings.
type Config struct {
	SpreadsheetID string

	// ReleaseRange covers the artist/title/year columns, e.g. "A2:C".
	ReleaseRange string

	// URLRange covers the Discogs URL column, e.g. "D2:D". It must be
	// row-aligned with ReleaseRange.
	URLRange string
}

// Service reads release rows from the spreadsheet.
type Service struct {
	svc           *sheets.Service
	spreadsheetID string
	releaseRange  string
	urlRange      string
	logger        *slog.Logger
}

// New creates a Service authenticated by the given token source.
func New(ctx context.Context, cfg Config, ts oauth2.TokenSource, logger *slog.Logger) (*Service, error) {
	return NewWithOptions(ctx, cfg, logger, option.WithTokenSource(ts))
}

// NewWithOptions creates a Service with explicit client options (for
// testing against a local server).
func NewWithOptions(ctx context.Context, cfg Config, logger *slog.Logger, opts ...option.ClientOption) (*Service, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	return &Service{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		releaseRange:  cfg.ReleaseRange,
		urlRange:      cfg.URLRange,
		logger:        logger.With(slog.String("source", "sheet")),
	}, nil
}

// ReleaseIndex fetches the two parallel column ranges of one sheet tab
// and builds a keyed index. Rows without a parseable Discogs URL are
// logged and skipped rather than failing the run; the count of skipped
// rows is returned for the summary.
func (s *Service) ReleaseIndex(ctx context.Context, sheetName string, gid int64) (release.Index, int, error) {
	ranges := []string{
		fmt.Sprintf("'%s'!%s", sheetName, s.releaseRange),
		fmt.Sprintf("'%s'!%s", sheetName, s.urlRange),
	}
	resp, err := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("fetching sheet %q: %w", sheetName, err)
	}
	if len(resp.ValueRanges) != 2 {
		return nil, 0, fmt.Errorf("sheet %q: expected 2 value ranges, got %d", sheetName, len(resp.ValueRanges))
	}

	idx, skipped := s.buildIndex(sheetName, gid, resp.ValueRanges[0].Values, resp.ValueRanges[1].Values)
	s.logger.Debug("built sheet index",
		slog.String("sheet", sheetName),
		slog.Int("releases", len(idx)),
		slog.Int("skipped", skipped))
	return idx, skipped, nil
}

// buildIndex zips the release rows with their URL rows. A release row
// with no matching URL cell is treated the same as an empty URL.
func (s *Service) buildIndex(sheetName string, gid int64, releaseRows, urlRows [][]any) (release.Index, int) {
	idx := make(release.Index)
	skipped := 0
	for i, row := range releaseRows {
		rowNum := firstDataRow + i
		artist := cell(row, 0)
		title := cell(row, 1)
		year := cell(row, 2)

		var url string
		if i < len(urlRows) {
			url = cell(urlRows[i], 0)
		}
		if url == "" {
			s.logger.Warn("row has no Discogs URL, skipping",
				slog.String("sheet", sheetName),
				slog.Int("row", rowNum),
				slog.String("artist", artist),
				slog.String("title", title))
			skipped++
			continue
		}

		id, err := release.ParseID(url)
		if err != nil {
			s.logger.Warn("row has a malformed Discogs URL, skipping",
				slog.String("sheet", sheetName),
				slog.Int("row", rowNum),
				slog.String("artist", artist),
				slog.String("title", title),
				slog.String("url", url))
			skipped++
			continue
		}

		if prev, ok := idx[id]; ok {
			s.logger.Warn("duplicate release ID in sheet, keeping later row",
				slog.String("sheet", sheetName),
				slog.Int("id", id),
				slog.String("previous", prev.Location))
		}
		idx[id] = release.Entry{
			Release: release.Release{
				ID:     id,
				Artist: artist,
				Title:  title,
				Year:   release.ParseYear(year),
			},
			Location: cellURL(s.spreadsheetID, gid, rowNum),
		}
	}
	return idx, skipped
}

// cell returns the trimmed string value of column col, or "" when the
// row is shorter than col+1 (the API omits trailing empty cells).
func cell(row []any, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[col]))
}

// cellURL deep-links to the first cell of a row in a sheet tab.
func cellURL(spreadsheetID string, gid int64, row int) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d&range=A%d", spreadsheetID, gid, row)
}
