package sweep

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/NanayasWorkshop/FT-Sim/internal/units"
)

// WriteChartHTML renders the run as an HTML line chart: one series per
// electrode plus the total, picofarads over row number.
func WriteChartHTML(path string, res *Results) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Capacitance Sweep",
			Subtitle: fmt.Sprintf("rows=%d electrodes=%d", len(res.Rows), len(res.Models)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pF"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "row"}),
	)

	x := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		x[i] = fmt.Sprintf("%d", row.Row+1)
	}
	line.SetXAxis(x)

	for i, m := range res.Models {
		data := make([]opts.LineData, len(res.Rows))
		for j, row := range res.Rows {
			data[j] = opts.LineData{Value: units.FaradsToPicofarads(row.Samples[i].Capacitance)}
		}
		line.AddSeries(m.Short(), data)
	}
	total := make([]opts.LineData, len(res.Rows))
	for j, row := range res.Rows {
		total[j] = opts.LineData{Value: units.FaradsToPicofarads(row.Total)}
	}
	line.AddSeries("Total", total)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := line.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
