package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/observability"
	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// TableSource opens one input file as a table.
type TableSource interface {
	ReadTable(ctx context.Context, path string) (*table.Table, error)
}

// Options configures which files are read and how they are aggregated.
type Options struct {
	CallsPaths    []string
	LocationsPath string

	TopN          int
	RollingWindow int
	Range         domain.DateRange

	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
}

// Pipeline runs load, clean, aggregate and map stages once per call to Run.
type Pipeline struct {
	source  TableSource
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline with the given source, options and observability.
func New(src TableSource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  src,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil if every configured input file exists.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	paths := append(append([]string{}, p.opts.CallsPaths...), p.opts.LocationsPath)
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input not available: %w", err)
		}
	}
	return nil
}

// Run loads every input file and builds the dashboard. Any error except
// missing coordinate columns is fatal for the run.
func (p *Pipeline) Run(ctx context.Context) (domain.Dashboard, error) {
	start := time.Now()
	dash, err := p.run(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		p.logger.Error("dashboard run failed", "error", err)
		return domain.Dashboard{}, err
	}
	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("dashboard run complete",
		"rows", dash.Overview.Raw.Rows,
		"markers", len(dash.Map.Markers),
		"duration", time.Since(start),
	)
	return dash, nil
}

func (p *Pipeline) run(ctx context.Context) (domain.Dashboard, error) {
	calls, err := p.loadCalls(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	defer calls.Release()

	locations, err := p.load(ctx, "locations", p.opts.LocationsPath)
	if err != nil {
		return domain.Dashboard{}, err
	}
	defer locations.Release()

	cleaned, dropped := domain.Prune(calls)
	defer cleaned.Release()
	p.logger.Debug("pruned columns", "dropped", dropped, "shape", cleaned.Shape().String())

	dash := domain.Dashboard{
		GeneratedAt: domain.Now(),
		Overview: domain.Overview{
			Raw:     calls.Shape(),
			Cleaned: cleaned.Shape(),
			Dropped: dropped,
			Kinds:   cleaned.Kinds(),
		},
	}

	if err := p.aggregate(cleaned, &dash); err != nil {
		return domain.Dashboard{}, err
	}

	mv, err := p.mapView(locations)
	if err != nil {
		return domain.Dashboard{}, err
	}
	dash.Map = mv
	return dash, nil
}

// loadCalls reads the yearly files in order and stacks them.
func (p *Pipeline) loadCalls(ctx context.Context) (*table.Table, error) {
	parts := make([]*table.Table, 0, len(p.opts.CallsPaths))
	defer func() {
		for _, t := range parts {
			t.Release()
		}
	}()

	for _, path := range p.opts.CallsPaths {
		t, err := p.load(ctx, "calls", path)
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
	}

	combined, err := table.Concat(parts...)
	if err != nil {
		return nil, fmt.Errorf("combine call tables: %w", err)
	}
	return combined, nil
}

func (p *Pipeline) load(ctx context.Context, source, path string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := p.source.ReadTable(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}
	p.metrics.RowsLoaded.WithLabelValues(source).Add(float64(t.NumRows()))
	p.logger.Debug("loaded table", "source", source, "path", path, "shape", t.Shape().String())
	return t, nil
}

func (p *Pipeline) aggregate(t *table.Table, dash *domain.Dashboard) error {
	dates, err := domain.ParseOffenseDates(t)
	if err != nil {
		return fmt.Errorf("parse offense dates: %w", err)
	}
	dash.DatesSkipped = dates.Skipped
	p.skipped("offense_date", dates.Skipped)

	dash.TopN = p.opts.TopN
	if dash.CallTypes, err = domain.TopN(t, domain.ColCallType, p.opts.TopN); err != nil {
		return fmt.Errorf("call types: %w", err)
	}
	if dash.Dispos, err = domain.TopN(t, domain.ColFinalDispo, 0); err != nil {
		return fmt.Errorf("final dispositions: %w", err)
	}
	if dash.Priorities, err = domain.TopN(t, domain.ColPriority, 0); err != nil {
		return fmt.Errorf("priorities: %w", err)
	}

	dash.Months = domain.MonthDistribution(dates.Values)
	dash.Days = domain.DailyDensity(dates.Values, p.opts.Range, p.opts.RollingWindow)

	if dash.Hours, err = domain.HourDistribution(t); err != nil {
		return fmt.Errorf("hours: %w", err)
	}
	p.skipped("offense_time", dash.Hours.Skipped)
	return nil
}

// mapView builds markers from the location table. Missing coordinate columns
// are reported on the page instead of failing the run.
func (p *Pipeline) mapView(locations *table.Table) (domain.MapView, error) {
	mv := domain.MapView{
		CenterLat: p.opts.MapCenterLat,
		CenterLon: p.opts.MapCenterLon,
		Zoom:      p.opts.MapZoom,
	}

	set, err := domain.BuildMarkers(locations)
	if errors.Is(err, domain.ErrMissingCoordinates) {
		p.logger.Warn("map unavailable", "error", err)
		p.metrics.MapUnavailable.Inc()
		p.metrics.MapMarkers.Set(0)
		mv.Message = domain.MissingCoordinatesMessage
		return mv, nil
	}
	if err != nil {
		return domain.MapView{}, fmt.Errorf("map markers: %w", err)
	}

	mv.Available = true
	mv.Markers = set.Markers
	mv.Skipped = set.Skipped
	p.metrics.MapMarkers.Set(float64(len(set.Markers)))
	p.skipped("coordinates", set.Skipped)
	return mv, nil
}

func (p *Pipeline) skipped(field string, n int) {
	if n == 0 {
		return
	}
	p.metrics.ValuesSkipped.WithLabelValues(field).Add(float64(n))
	p.logger.Debug("skipped empty values", "field", field, "count", n)
}
