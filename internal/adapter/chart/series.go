package chart

import (
	"fmt"
	"image/color"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	countLineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	avgLineColor   = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// Trace names shown in the legend.
const (
	TraceCalls   = "No of Calls"
	TraceAverage = "7-Day Moving Average"
)

// DailyLines draws per-day counts as a line and the moving average as a line
// with point markers. Days without an average are left out of the second
// trace.
func DailyLines(days []domain.DayCount, size Size) ([]byte, error) {
	p := newPlot(TitleDays)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Number of Calls"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true

	counts := make(plotter.XYs, len(days))
	var avgs plotter.XYs
	for i, d := range days {
		x := float64(d.Date.Unix())
		counts[i] = plotter.XY{X: x, Y: float64(d.Count)}
		if d.HasAvg {
			avgs = append(avgs, plotter.XY{X: x, Y: d.Avg})
		}
	}

	if len(counts) > 0 {
		line, err := plotter.NewLine(counts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TraceCalls, err)
		}
		line.Color = countLineColor
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(TraceCalls, line)
	}

	if len(avgs) > 0 {
		line, points, err := plotter.NewLinePoints(avgs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TraceAverage, err)
		}
		line.Color = avgLineColor
		line.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = avgLineColor
		points.Radius = vg.Points(1)
		p.Add(line, points)
		p.Legend.Add(TraceAverage, line, points)
	}

	return encodeSVG(p, size)
}
