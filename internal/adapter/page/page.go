// Package page renders a [domain.Dashboard] as a single HTML document with
// inline SVG charts and a clustered Leaflet map.
package page

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/adapter/chart"
	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Page text shown above each section.
const (
	Title           = "San Jose Police Calls Data Analysis"
	HeadingOverview = "Dataset Overview"
	HeadingDispos   = "FINAL_DISPO Categories"
	HeadingPriority = "PRIORITY Distribution"
	HeadingMonths   = "Month-wise Distribution of Calls"
	HeadingHours    = "Hour-wise Distribution of Calls"
	HeadingMap      = "Police Calls Map"
)

const (
	headingDaysBase  = "Day-wise Progression of Calls"
	stampLayout      = "2006-01-02 15:04:05 MST"
	svgDataURLPrefix = "data:image/svg+xml;base64,"
)

//go:embed templates/dashboard.html
var templates embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// Renderer turns dashboards into HTML. It is safe for concurrent use.
type Renderer struct {
	size    chart.Size
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer drawing charts at the given size.
func NewRenderer(size chart.Size, metrics *observability.Metrics) *Renderer {
	return &Renderer{size: size, metrics: metrics}
}

// Section is one chart on the page.
type Section struct {
	Heading string
	Image   template.URL
}

type view struct {
	Title           string
	Generated       string
	OverviewHeading string
	Overview        domain.Overview
	Sections        []Section
	Map             domain.MapView
	MapHeading      string
	MarkersJSON     template.JS
}

type job struct {
	name    string
	heading string
	draw    func() ([]byte, error)
}

// Render draws every chart concurrently and writes the complete page to w.
// Nothing is written if any chart fails.
func (r *Renderer) Render(ctx context.Context, w io.Writer, dash domain.Dashboard) error {
	sections, err := r.renderCharts(ctx, dash)
	if err != nil {
		return err
	}

	markers := dash.Map.Markers
	if markers == nil {
		markers = []domain.Marker{}
	}
	payload, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("encode markers: %w", err)
	}

	v := view{
		Title:           Title,
		Generated:       dash.GeneratedAt.Format(stampLayout),
		OverviewHeading: HeadingOverview,
		Overview:        dash.Overview,
		Sections:        sections,
		Map:             dash.Map,
		MapHeading:      HeadingMap,
		MarkersJSON:     template.JS(payload),
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, v); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) renderCharts(ctx context.Context, dash domain.Dashboard) ([]Section, error) {
	jobs := r.jobs(dash)
	sections := make([]Section, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			svg, err := j.draw()
			if err != nil {
				return fmt.Errorf("render %s chart: %w", j.name, err)
			}
			r.metrics.ChartRenderDuration.WithLabelValues(j.name).Observe(time.Since(start).Seconds())
			sections[i] = Section{Heading: j.heading, Image: svgDataURL(svg)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sections, nil
}

// jobs lists the charts in page order.
func (r *Renderer) jobs(dash domain.Dashboard) []job {
	callTypesTitle := chart.CallTypesTitle(dash.TopN)
	return []job{
		{"call_types", callTypesTitle, func() ([]byte, error) {
			return chart.HorizontalBar(callTypesTitle, dash.CallTypes, r.size)
		}},
		{"final_dispo", HeadingDispos, func() ([]byte, error) {
			return chart.HorizontalBar(chart.TitleDispos, dash.Dispos, r.size)
		}},
		{"priority", HeadingPriority, func() ([]byte, error) {
			return chart.Donut(chart.TitlePriorities, dash.Priorities, r.size)
		}},
		{"months", HeadingMonths, func() ([]byte, error) {
			return chart.MonthBars(dash.Months, r.size)
		}},
		{"days", DaysHeading(dash.Days), func() ([]byte, error) {
			return chart.DailyLines(dash.Days, r.size)
		}},
		{"hours", HeadingHours, func() ([]byte, error) {
			return chart.HourBars(dash.Hours, r.size)
		}},
	}
}

// DaysHeading names the daily series with the years it covers.
func DaysHeading(days []domain.DayCount) string {
	if len(days) == 0 {
		return headingDaysBase
	}
	first, last := days[0].Date.Year(), days[len(days)-1].Date.Year()
	if first == last {
		return fmt.Sprintf("%s (%d)", headingDaysBase, first)
	}
	return fmt.Sprintf("%s (%d-%d)", headingDaysBase, first, last)
}

func svgDataURL(svg []byte) template.URL {
	return template.URL(svgDataURLPrefix + base64.StdEncoding.EncodeToString(svg))
}
