// Package report renders reconciliation results as human-readable text
// with deep links back to both sources.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sydlexius/cratediff/internal/reconcile"
	"github.com/sydlexius/cratediff/internal/release"
)

// Reporter writes formatted reconciliation output to a single stream.
type Reporter struct {
	w io.Writer
}

// New creates a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// PairSummary holds the per-pair counts for the end-of-run table.
type PairSummary struct {
	Pair            string
	SheetRows       int
	CatalogReleases int
	YearMismatches  int
	SheetOnly       int
	CatalogOnly     int
	SkippedRows     int
}

// Pair renders the diff for one sheet/folder pair. Sections appear in a
// fixed order: year mismatches, sheet-only, catalog-only. Formatting
// only; the diff is computed elsewhere.
func (r *Reporter) Pair(name string, d reconcile.Diff, sheetIdx, catalogIdx release.Index) {
	fmt.Fprintf(r.w, "\n%s -------------------------\n", name)

	if len(d.YearMismatch) > 0 {
		fmt.Fprintf(r.w, "\nDifferent release years:\n\n")
		for _, id := range d.YearMismatch {
			sheet := sheetIdx[id]
			catalog := catalogIdx[id]
			r.entryHeader(sheet.Release)
			r.links(sheet.Location, catalog.Location)
			fmt.Fprintf(r.w, "%d -> %d\n\n", sheet.Release.Year, catalog.Release.Year)
		}
	}

	if len(d.OnlyInA) > 0 {
		fmt.Fprintf(r.w, "\nIn sheet but not Discogs:\n\n")
		for _, id := range d.OnlyInA {
			sheet := sheetIdx[id]
			r.entryHeader(sheet.Release)
			r.links(sheet.Location, release.URL(id))
			fmt.Fprintln(r.w)
		}
	}

	if len(d.OnlyInB) > 0 {
		fmt.Fprintf(r.w, "\nIn Discogs but not sheet:\n\n")
		for _, id := range d.OnlyInB {
			catalog := catalogIdx[id]
			r.entryHeader(catalog.Release)
			r.links(catalog.Location)
			fmt.Fprintln(r.w)
		}
	}

	if d.Empty() {
		fmt.Fprintf(r.w, "\nNo differences.\n")
	}
}

// Summary renders the per-pair counts as a table after all pairs have
// been compared.
func (r *Reporter) Summary(rows []PairSummary) {
	if len(rows) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(r.w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Pair", "Sheet", "Discogs", "Year diff", "Sheet only", "Discogs only", "Skipped"})
	for _, s := range rows {
		tw.AppendRow(table.Row{
			s.Pair, s.SheetRows, s.CatalogReleases,
			s.YearMismatches, s.SheetOnly, s.CatalogOnly, s.SkippedRows,
		})
	}
	configs := make([]table.ColumnConfig, 0, 7)
	for i := 2; i <= 7; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	fmt.Fprintln(r.w)
	tw.Render()
}

func (r *Reporter) entryHeader(rel release.Release) {
	fmt.Fprintf(r.w, "%s - %s\n", rel.Artist, rel.Title)
}

func (r *Reporter) links(locations ...string) {
	for _, loc := range locations {
		if loc != "" {
			fmt.Fprintln(r.w, loc)
		}
	}
}
