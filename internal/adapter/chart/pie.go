package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DonutHole is the inner radius as a fraction of the outer radius.
const DonutHole = 0.3

// Donut draws a pie with a hole, labelling each wedge with its category and
// share of the total.
func Donut(title string, rows []domain.CategoryCount, size Size) ([]byte, error) {
	p := newPlot(title)
	p.HideAxes()

	d := newDonut(rows)
	p.Add(d)
	for i, r := range rows {
		p.Legend.Add(r.Label, swatch{color: d.colors[i]})
	}
	p.Legend.Top = true
	return encodeSVG(p, size)
}

// donut implements plot.Plotter.
type donut struct {
	labels []string
	shares []float64
	colors []color.Color
	hole   float64
}

func newDonut(rows []domain.CategoryCount) *donut {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	d := &donut{hole: DonutHole}
	for i, r := range rows {
		share := 0.0
		if total > 0 {
			share = float64(r.Count) / float64(total)
		}
		d.labels = append(d.labels, r.Label)
		d.shares = append(d.shares, share)
		d.colors = append(d.colors, plotutil.Color(i))
	}
	return d
}

// Plot draws wedges clockwise from twelve o'clock.
func (d *donut) Plot(c draw.Canvas, _ *plot.Plot) {
	center := c.Center()
	outer := vg.Length(math.Min(float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y))) / 2 * 0.9
	inner := outer * vg.Length(d.hole)

	sty := draw.TextStyle{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, 9),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	start := math.Pi / 2
	for i, share := range d.shares {
		if share <= 0 {
			continue
		}
		sweep := 2 * math.Pi * share

		var path vg.Path
		path.Move(polar(center, outer, start))
		path.Arc(center, outer, start, -sweep)
		path.Arc(center, inner, start-sweep, sweep)
		path.Close()
		c.SetColor(d.colors[i])
		c.Fill(path)

		mid := start - sweep/2
		c.FillText(sty, polar(center, (outer+inner)/2, mid), wedgeLabel(d.labels[i], share))

		start -= sweep
	}
}

func wedgeLabel(label string, share float64) string {
	return fmt.Sprintf("%s\n%.1f%%", label, share*100)
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	sin, cos := math.Sincos(angle)
	return vg.Point{X: center.X + r*vg.Length(cos), Y: center.Y + r*vg.Length(sin)}
}

// swatch is a legend thumbnail filled with one color.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, pts)
}
