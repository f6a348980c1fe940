// Package plot renders the training curves of a run to an HTML page
package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/samuelfneumann/rbfq/experiment/tracker"
)

// Render writes an HTML page with one line chart per training curve
// in the archive: per-episode shaped return, per-evaluation-block
// success rate, per-episode reference-state value, and the smoothed
// per-episode mean TD error.
func Render(archive tracker.Archive, path string) error {
	page := components.NewPage()
	page.AddCharts(
		lineChart("return per episode", archive.Returns),
		lineChart("success rate per evaluation block",
			archive.SuccessRates),
		lineChart("initial state value per episode",
			archive.ReferenceValues),
		lineChart("smoothed mean Bellman error per episode",
			archive.BellmanErrors),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: could not create %v: %v", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render: could not render charts: %v", err)
	}
	return nil
}

// lineChart builds a single line chart for one series
func lineChart(title string, series []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	xAxis := make([]string, len(series))
	items := make([]opts.LineData, len(series))
	for i, value := range series {
		xAxis[i] = fmt.Sprintf("%d", i)
		items[i] = opts.LineData{Value: value}
	}

	line.SetXAxis(xAxis)
	line.AddSeries(title, items)
	return line
}
