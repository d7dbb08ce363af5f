// Package report renders aggregated review results as human-readable text,
// JSON, a SARIF 2.1.0 interchange document, or an HTML technical-debt page.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/KuaaMU/codesage/pkg/review"
)

// Output format selectors.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// NormalizeFormat resolves a format selector. Unknown values fall back to
// text; the second return reports whether a fallback happened so the caller
// can warn without failing.
func NormalizeFormat(format string) (string, bool) {
	switch format {
	case FormatText, FormatJSON, FormatSARIF:
		return format, false
	default:
		return FormatText, true
	}
}

// WriteIssues renders issues in the given (already normalized) format.
func WriteIssues(w io.Writer, issues []review.Issue, format string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, issues)
	case FormatSARIF:
		return WriteSARIF(w, issues)
	default:
		return WriteText(w, issues)
	}
}

// WriteText renders a human-readable enumeration of issues. An empty issue
// list reports success.
func WriteText(w io.Writer, issues []review.Issue) error {
	if len(issues) == 0 {
		_, err := fmt.Fprintf(w, "%s No issues found!\n", color.GreenString("✓"))

		return err
	}

	_, err := fmt.Fprintf(w, "%s Found %s issue(s):\n",
		color.YellowString("⚠"), humanize.Comma(int64(len(issues))))
	if err != nil {
		return err
	}

	for i, issue := range issues {
		_, err = fmt.Fprintf(w, "\n%d. [%s] %s\n   Category: %s\n   Location: %s:%d\n   %s\n",
			i+1,
			severityLabel(issue.Severity),
			issue.Message,
			issue.Category,
			issue.Location.FilePath,
			issue.Location.StartLine,
			issue.Explanation,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// severityLabel colors the severity for terminals; color output degrades to
// plain text when disabled globally.
func severityLabel(s review.Severity) string {
	switch s {
	case review.SeverityP0:
		return color.New(color.FgRed, color.Bold).Sprint(s.String())
	case review.SeverityP1:
		return color.YellowString(s.String())
	default:
		return s.String()
	}
}

// Summary describes a finished batch run.
type Summary struct {
	FilesAnalyzed    int
	FilesSkipped     int
	SeverityCounts   [4]int
	TotalDebtMinutes int
}

// NewSummary derives a Summary from batch outputs.
func NewSummary(filesAnalyzed, filesSkipped int, counts [4]int, metrics map[string]review.CodeMetrics) Summary {
	debt := 0
	for _, m := range metrics {
		debt += m.TechnicalDebtMinutes
	}

	return Summary{
		FilesAnalyzed:    filesAnalyzed,
		FilesSkipped:     filesSkipped,
		SeverityCounts:   counts,
		TotalDebtMinutes: debt,
	}
}

// TotalIssues sums the severity buckets.
func (s Summary) TotalIssues() int {
	total := 0
	for _, n := range s.SeverityCounts {
		total += n
	}

	return total
}

// WriteSummary renders the severity-bucketed summary table for batch runs.
func WriteSummary(w io.Writer, s Summary) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Severity", "Count"})
	tbl.AppendRow(table.Row{"P0 (Critical)", s.SeverityCounts[review.SeverityP0]})
	tbl.AppendRow(table.Row{"P1 (High)", s.SeverityCounts[review.SeverityP1]})
	tbl.AppendRow(table.Row{"P2 (Medium)", s.SeverityCounts[review.SeverityP2]})
	tbl.AppendRow(table.Row{"P3 (Low)", s.SeverityCounts[review.SeverityP3]})
	tbl.AppendFooter(table.Row{"Total", s.TotalIssues()})

	_, err := fmt.Fprintf(w, "\nSummary:\n  Files analyzed: %s\n  Files skipped: %s\n  Technical debt: %s minute(s)\n\n",
		humanize.Comma(int64(s.FilesAnalyzed)),
		humanize.Comma(int64(s.FilesSkipped)),
		humanize.Comma(int64(s.TotalDebtMinutes)),
	)
	if err != nil {
		return err
	}

	tbl.Render()

	return nil
}
