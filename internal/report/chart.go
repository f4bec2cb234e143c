package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/sensor"
)

// MaxChartRows caps the number of rows a single chart may show.
const MaxChartRows = 2000

// echartsAssetsPrefix is where the rendered page loads echarts from.
const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// RowStats is one bar of a row chart.
type RowStats struct {
	Row     int `json:"row"`
	Covered int `json:"covered"` // covered cells, occupied ones included
	Empty   int `json:"empty"`   // covered cells holding no sensor or beacon
	Gaps    int `json:"gaps"`    // uncovered stretches between merged ranges
}

// CollectRowStats computes RowStats for every row in rows.
func CollectRowStats(sensors *sensor.Set, rows coverage.Bounds) ([]RowStats, error) {
	if err := rows.Validate(); err != nil {
		return nil, err
	}
	if n := rows.Max - rows.Min + 1; n > MaxChartRows || n <= 0 {
		return nil, fmt.Errorf("row window %s exceeds %d rows", rows, MaxChartRows)
	}

	stats := make([]RowStats, 0, rows.Max-rows.Min+1)
	var buf []coverage.Range
	for y := rows.Min; y <= rows.Max; y++ {
		buf = coverage.AppendRow(buf, sensors, y)
		gaps := 0
		if len(buf) > 1 {
			gaps = len(buf) - 1
		}
		stats = append(stats, RowStats{
			Row:     y,
			Covered: coverage.Total(buf),
			Empty:   coverage.CountCovered(sensors, y),
			Gaps:    gaps,
		})
	}
	return stats, nil
}

// RenderRowChart writes an HTML bar chart of per-row coverage for rows.
func RenderRowChart(w io.Writer, sensors *sensor.Set, rows coverage.Bounds) error {
	stats, err := CollectRowStats(sensors, rows)
	if err != nil {
		return err
	}

	labels := make([]string, len(stats))
	covered := make([]opts.BarData, len(stats))
	empty := make([]opts.BarData, len(stats))
	gaps := make([]opts.BarData, len(stats))
	for i, s := range stats {
		labels[i] = strconv.Itoa(s.Row)
		covered[i] = opts.BarData{Value: s.Covered}
		empty[i] = opts.BarData{Value: s.Empty}
		gaps[i] = opts.BarData{Value: s.Gaps}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sensor Row Coverage", Width: "100%", Height: "720px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Row Coverage", Subtitle: fmt.Sprintf("sensors=%d rows=%s", sensors.Len(), rows)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "row"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cells"}),
	)
	bar.SetXAxis(labels).
		AddSeries("covered", covered).
		AddSeries("empty", empty).
		AddSeries("gaps", gaps)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
