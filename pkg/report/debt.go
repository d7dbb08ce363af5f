package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/KuaaMU/codesage/pkg/review"
)

// WriteDebtTable renders per-file technical debt as a table, worst files
// first, followed by the total.
func WriteDebtTable(w io.Writer, metrics map[string]review.CodeMetrics) error {
	files := make([]fileDebt, 0, len(metrics))
	total := 0

	for path, m := range metrics {
		files = append(files, fileDebt{path: path, minutes: m.TechnicalDebtMinutes})
		total += m.TechnicalDebtMinutes
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].minutes != files[j].minutes {
			return files[i].minutes > files[j].minutes
		}

		return files[i].path < files[j].path
	})

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"File", "Debt (min)", "Complexity", "MI"})

	for _, f := range files {
		m := metrics[f.path]
		tbl.AppendRow(table.Row{
			f.path,
			f.minutes,
			m.CyclomaticComplexity,
			fmt.Sprintf("%.1f", m.MaintainabilityIndex),
		})
	}

	tbl.AppendFooter(table.Row{"Total", humanize.Comma(int64(total)), "", ""})
	tbl.Render()

	return nil
}
