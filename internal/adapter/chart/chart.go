// Package chart renders dashboard aggregates to SVG with gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart titles as shown on the page.
const (
	TitleDispos     = "FINAL_DISPO Categories"
	TitlePriorities = "PRIORITY Pie Chart"
	TitleMonths     = "Month Wise Distribution of Calls"
	TitleDays       = "San Jose Progression of Calls"
	TitleHours      = "Hour-wise Distribution"
)

// CallTypesTitle titles the call type chart for a top-n cut.
func CallTypesTitle(n int) string {
	return fmt.Sprintf("Top %d CALL_TYPE Categories", n)
}

// Size is the rendered chart size.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize fits a single page column.
var DefaultSize = Size{Width: 10 * vg.Inch, Height: 6 * vg.Inch}

var barOutline = draw.LineStyle{Width: 0}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	return p
}

func encodeSVG(p *plot.Plot, size Size) ([]byte, error) {
	wt, err := p.WriterTo(size.Width, size.Height, "svg")
	if err != nil {
		return nil, fmt.Errorf("create svg canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return buf.Bytes(), nil
}

// countLabels places the count of each bar just past its end.
func countLabels(counts []int, horizontal bool) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		if horizontal {
			xys[i] = plotter.XY{X: float64(c), Y: float64(i)}
		} else {
			xys[i] = plotter.XY{X: float64(i), Y: float64(c)}
		}
		labels[i] = fmt.Sprint(c)
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("count labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(8)
		if horizontal {
			l.TextStyle[i].YAlign = draw.YCenter
		} else {
			l.TextStyle[i].XAlign = draw.XCenter
		}
	}
	if horizontal {
		l.Offset = vg.Point{X: vg.Points(3)}
	} else {
		l.Offset = vg.Point{Y: vg.Points(3)}
	}
	return l, nil
}

// singleBar draws one bar at position i so each bar can carry its own color.
func singleBar(i int, value float64, width vg.Length, c color.Color, horizontal bool) (*plotter.BarChart, error) {
	b, err := plotter.NewBarChart(plotter.Values{value}, width)
	if err != nil {
		return nil, err
	}
	b.XMin = float64(i)
	b.Color = c
	b.LineStyle = barOutline
	b.Horizontal = horizontal
	return b, nil
}
