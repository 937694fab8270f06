// Package report renders an HTML summary of a ring-map run: the per-channel
// noise estimate and a sky-map slice, as a self-contained echarts page.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cygnus-data/ringmap.report/internal/dataset"
)

// Render writes the run report for rm to w. The map heat map shows the first
// frequency and time sample of the polarization with the most signal (XX by
// convention when all are populated).
func Render(rm *dataset.RingMap, w io.Writer) error {
	if len(rm.FreqMHz) == 0 || len(rm.RA) == 0 {
		return fmt.Errorf("report: ring map has no data to render")
	}

	page := components.NewPage()
	page.PageTitle = "ring-map run report"
	page.AddCharts(rmsChart(rm), mapHeatmap(rm))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteFile renders the run report to an HTML file.
func WriteFile(rm *dataset.RingMap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file %s: %w", path, err)
	}
	defer f.Close()
	return Render(rm, f)
}

// rmsChart plots the RMS noise estimate per frequency channel, one series
// per polarization, averaged over time and elevation.
func rmsChart(rm *dataset.RingMap) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "RMS noise estimate",
			Subtitle: "per frequency channel, averaged over RA and elevation",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "freq [MHz]"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "rms"}),
	)

	labels := make([]string, len(rm.FreqMHz))
	for f, fr := range rm.FreqMHz {
		labels[f] = fmt.Sprintf("%.1f", fr)
	}
	line.SetXAxis(labels)

	for p, pol := range rm.Pol {
		series := make([]opts.LineData, len(rm.FreqMHz))
		for f := range rm.FreqMHz {
			sum, n := 0.0, 0
			for t := range rm.RMS[f][p] {
				for _, v := range rm.RMS[f][p][t] {
					sum += v
					n++
				}
			}
			if n > 0 {
				sum /= float64(n)
			}
			series[f] = opts.LineData{Value: sum}
		}
		line.AddSeries(pol, series)
	}
	return line
}

// mapHeatmap shows the synthesized intensity over (beam, elevation) for the
// first frequency, first polarization and first time sample.
func mapHeatmap(rm *dataset.RingMap) components.Charter {
	hm := charts.NewHeatMap()

	slice := rm.Map[0][0][0]
	min, max := slice[0][0], slice[0][0]
	data := make([]opts.HeatMapData, 0, rm.NBeam*len(rm.El))
	for b := 0; b < rm.NBeam; b++ {
		for x := range rm.El {
			v := slice[b][x]
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{b, x, v}})
		}
	}
	if max == min {
		max = min + 1
	}

	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "sky map",
			Subtitle: fmt.Sprintf("freq %.1f MHz, pol %s, RA %.2f", rm.FreqMHz[0], rm.Pol[0], rm.RA[0]),
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "beam"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "el pixel"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:        float32(min),
			Max:        float32(max),
			Calculable: opts.Bool(true),
		}),
	)
	hm.AddSeries("intensity", data)
	return hm
}
