package graphing

import (
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ProcReports/pkg/decoding"
	"ProcReports/pkg/exporting"
)

// createLineChart creates a line chart for raw or delta values.
func createLineChart(s *Series, category string, isDelta bool) *charts.Line {
	line := charts.NewLine()

	title := formatName(s.Name)
	if isDelta {
		title += " (Delta)"
	} else {
		title += " (Raw)"
	}

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: category}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	timestamps, values := s.Timestamps, s.Values
	if isDelta {
		timestamps, values = s.Timestamps[1:], s.Deltas
	}

	xLabels := make([]string, 0, len(timestamps))
	for _, ts := range timestamps {
		xLabels = append(xLabels, time.UnixMilli(ts).Format("15:04:05.000"))
	}
	data := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.LineData{Value: v})
	}

	line.SetXAxis(xLabels).AddSeries("", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
	)

	if isDelta {
		line.SetSeriesOptions(charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))
	}

	return line
}

// createTickBar stacks every tick column per CPU line, aggregate first.
func createTickBar(r decoding.CounterReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "CPU Ticks", Subtitle: fmt.Sprintf("%d cores", len(r.PerCoreCPUTicks))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	lines := append([]decoding.Ticks{r.AggregateCPUTicks}, r.PerCoreCPUTicks...)
	xLabels := []string{"all"}
	for i := range r.PerCoreCPUTicks {
		xLabels = append(xLabels, fmt.Sprintf("cpu%d", i))
	}
	bar.SetXAxis(xLabels)

	for col, name := range exporting.TickColumnNames {
		data := make([]opts.BarData, 0, len(lines))
		for _, t := range lines {
			data = append(data, opts.BarData{Value: t.At(col)})
		}
		bar.AddSeries(name, data, charts.WithBarChartOpts(opts.BarChart{Stack: "ticks"}))
	}
	return bar
}

// memoryBreakdown lists the labels shown in the memory chart.
var memoryBreakdown = []string{
	"MemTotal", "MemFree", "MemAvailable", "Buffers", "Cached", "SwapCached",
	"Active", "Inactive", "AnonPages", "Mapped", "Shmem", "Slab",
	"SReclaimable", "SUnreclaim", "KernelStack", "PageTables", "SwapTotal", "SwapFree",
	"Dirty", "Writeback", "Committed_AS", "VmallocUsed", "AnonHugePages",
}

// createMemoryBar plots the main meminfo values in MiB.
func createMemoryBar(m decoding.MemoryReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Memory", Subtitle: "MiB"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	fields := make(map[string]decoding.MemoryField, len(decoding.MemoryFields))
	for _, f := range decoding.MemoryFields {
		fields[f.Label] = f
	}

	xLabels := make([]string, 0, len(memoryBreakdown))
	data := make([]opts.BarData, 0, len(memoryBreakdown))
	for _, label := range memoryBreakdown {
		f, ok := fields[label]
		if !ok {
			continue
		}
		xLabels = append(xLabels, label)
		data = append(data, opts.BarData{Value: float64(*f.Get(&m)) / 1024})
	}
	bar.SetXAxis(xLabels).AddSeries("", data)
	return bar
}

// createStatePie shows how many sockets of a table sit in each state.
func createStatePie(table string, counts map[string]int) *charts.Pie {
	pie := charts.NewPie()
	var total int
	data := make([]opts.PieData, 0, len(counts))
	for _, st := range decoding.ConnectionStates() {
		if n := counts[st.String()]; n > 0 {
			data = append(data, opts.PieData{Name: st.String(), Value: n})
			total += n
		}
	}

	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: table + " Socket States", Subtitle: fmt.Sprintf("Total: %d", total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)
	pie.AddSeries(table, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}
