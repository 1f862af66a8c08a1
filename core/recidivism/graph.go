package recidivism

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/huangsam/utilstudy/schema"
)

// Series names of the chart.
const (
	UtilTypeSeries   = "Util Type"
	UtilModuleSeries = "Util Module"
	NonTypeSeries    = "Non-Util Type"
	NonModuleSeries  = "Non-Util Module"
)

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}

// BuildChart plots util and non-util rates per window. The x axis follows the
// util series.
func BuildChart(util, non schema.RecidivismRates, project, scale string) *charts.Line {
	labels := make([]string, len(util.Type))
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s Recidivism - %s-Day Scale", project, scale)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Development Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Recidivism Rate"}),
	)
	line.SetXAxis(labels)

	marker := func(symbol string) charts.SeriesOpts {
		return charts.WithLineChartOpts(opts.LineChart{Symbol: symbol, ShowSymbol: opts.Bool(true)})
	}
	line.AddSeries(UtilTypeSeries, lineData(util.Type), marker("circle"))
	line.AddSeries(UtilModuleSeries, lineData(util.Module), marker("rect"))
	line.AddSeries(NonTypeSeries, lineData(non.Type), marker("triangle"))
	line.AddSeries(NonModuleSeries, lineData(non.Module), marker("diamond"))
	return line
}

// RenderChart writes the chart as a standalone HTML page.
func RenderChart(w io.Writer, util, non schema.RecidivismRates, project, scale string) error {
	if err := BuildChart(util, non, project, scale).Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
