package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KuaaMU/codesage/pkg/review"
)

const (
	topFilesLimit = 20
	xAxisRotate   = 45
	chartWidth    = "1100px"
	chartHeight   = "500px"
	pieRadius     = "60%"

	colorGood    = "#91cc75"
	colorWarning = "#fac858"
	colorBad     = "#ee6666"
	colorNeutral = "#5470c6"

	debtYellowLine = 30
	debtRedLine    = 120
)

// WriteDebtHTML renders an HTML page charting technical debt per file and the
// severity distribution of the batch.
func WriteDebtHTML(w io.Writer, metrics map[string]review.CodeMetrics, counts [4]int) error {
	page := components.NewPage()
	page.PageTitle = "CodeSage Technical Debt"

	page.AddCharts(
		debtBarChart(metrics),
		severityPieChart(counts),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render debt page: %w", err)
	}

	return nil
}

type fileDebt struct {
	path    string
	minutes int
}

func debtBarChart(metrics map[string]review.CodeMetrics) *charts.Bar {
	files := make([]fileDebt, 0, len(metrics))
	for path, m := range metrics {
		files = append(files, fileDebt{path: path, minutes: m.TechnicalDebtMinutes})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].minutes != files[j].minutes {
			return files[i].minutes > files[j].minutes
		}

		return files[i].path < files[j].path
	})

	if len(files) > topFilesLimit {
		files = files[:topFilesLimit]
	}

	labels := make([]string, len(files))
	data := make([]opts.BarData, len(files))

	for i, f := range files {
		labels[i] = f.path
		data[i] = opts.BarData{
			Value:     f.minutes,
			ItemStyle: &opts.ItemStyle{Color: debtColor(f.minutes)},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Technical Debt by File",
			Subtitle: "Estimated remediation minutes, worst files first",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{
			Left: "5%", Right: "5%",
			Top: "15%", Bottom: "20%",
			ContainLabel: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Minutes"}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("Debt", data)

	return bar
}

func debtColor(minutes int) string {
	switch {
	case minutes <= debtYellowLine:
		return colorGood
	case minutes <= debtRedLine:
		return colorWarning
	default:
		return colorBad
	}
}

func severityPieChart(counts [4]int) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Issues by Severity",
			Subtitle: "Distribution across priority buckets",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	pieData := []opts.PieData{
		{Name: "P0 (Critical)", Value: counts[review.SeverityP0], ItemStyle: &opts.ItemStyle{Color: colorBad}},
		{Name: "P1 (High)", Value: counts[review.SeverityP1], ItemStyle: &opts.ItemStyle{Color: colorWarning}},
		{Name: "P2 (Medium)", Value: counts[review.SeverityP2], ItemStyle: &opts.ItemStyle{Color: colorNeutral}},
		{Name: "P3 (Low)", Value: counts[review.SeverityP3], ItemStyle: &opts.ItemStyle{Color: colorGood}},
	}

	pie.AddSeries("Severity", pieData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
			}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)

	return pie
}
