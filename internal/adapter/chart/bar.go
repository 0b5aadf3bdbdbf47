package chart

import (
	"fmt"
	"image/color"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var barColor = color.RGBA{R: 0x63, G: 0x6e, B: 0xfa, A: 0xff}

// HorizontalBar draws one bar per category with the largest at the top.
// rows are expected in descending count order.
func HorizontalBar(title string, rows []domain.CategoryCount, size Size) ([]byte, error) {
	p := newPlot(title)
	p.X.Label.Text = "Count"

	n := len(rows)
	if n > 0 {
		names := make([]string, n)
		counts := make([]int, n)
		values := make(plotter.Values, n)
		for k, r := range rows {
			i := n - 1 - k
			names[i] = r.Label
			counts[i] = r.Count
			values[i] = float64(r.Count)
		}

		bars, err := plotter.NewBarChart(values, barWidth(size.Height, n))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", title, err)
		}
		bars.Horizontal = true
		bars.Color = barColor
		bars.LineStyle = barOutline

		labels, err := countLabels(counts, true)
		if err != nil {
			return nil, err
		}
		p.Add(bars, labels)
		p.NominalY(names...)
		p.X.Min = 0
	}
	return encodeSVG(p, size)
}

// MonthBars draws the twelve month counts, one color per month.
func MonthBars(months []domain.MonthCount, size Size) ([]byte, error) {
	p := newPlot(TitleMonths)
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Number of Calls"

	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Set3", 12)
	if err != nil {
		return nil, fmt.Errorf("month palette: %w", err)
	}
	colors := pal.Colors()

	names := make([]string, len(months))
	counts := make([]int, len(months))
	for i, m := range months {
		names[i] = m.Label()
		counts[i] = m.Count
		b, err := singleBar(i, float64(m.Count), barWidth(size.Width, len(months)), colors[i%len(colors)], false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TitleMonths, err)
		}
		p.Add(b)
	}
	if err := addVerticalLabels(p, names, counts); err != nil {
		return nil, err
	}
	return encodeSVG(p, size)
}

// HourBars draws the 24 hour counts on a continuous blue-red scale by hour.
func HourBars(hours domain.HourSeries, size Size) ([]byte, error) {
	p := newPlot(TitleHours)
	p.X.Label.Text = "Hour"
	p.Y.Label.Text = "Count"

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(0)
	cmap.SetMax(23)

	names := make([]string, len(hours.Rows))
	counts := make([]int, len(hours.Rows))
	for i, h := range hours.Rows {
		names[i] = fmt.Sprint(h.Hour)
		counts[i] = h.Count
		c, err := cmap.At(float64(h.Hour))
		if err != nil {
			c = plotutil.Color(i)
		}
		b, err := singleBar(i, float64(h.Count), barWidth(size.Width, len(hours.Rows)), c, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", TitleHours, err)
		}
		p.Add(b)
	}
	if err := addVerticalLabels(p, names, counts); err != nil {
		return nil, err
	}
	return encodeSVG(p, size)
}

func addVerticalLabels(p *plot.Plot, names []string, counts []int) error {
	if len(names) == 0 {
		return nil
	}
	labels, err := countLabels(counts, false)
	if err != nil {
		return err
	}
	p.Add(labels)
	p.NominalX(names...)
	p.Y.Min = 0
	return nil
}

// barWidth spreads n bars over most of the available length.
func barWidth(span vg.Length, n int) vg.Length {
	if n < 1 {
		n = 1
	}
	w := span * 0.6 / vg.Length(n)
	if w < vg.Points(2) {
		w = vg.Points(2)
	}
	return w
}
