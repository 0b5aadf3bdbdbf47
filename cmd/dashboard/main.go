package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/police-calls-dashboard/internal/adapter/chart"
	httpadapter "github.com/couchcryptid/police-calls-dashboard/internal/adapter/http"
	"github.com/couchcryptid/police-calls-dashboard/internal/adapter/page"
	"github.com/couchcryptid/police-calls-dashboard/internal/config"
	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/observability"
	"github.com/couchcryptid/police-calls-dashboard/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/docopt/docopt.go"
)

const usage = `San Jose police calls dashboard.

Usage:
  dashboard serve [--addr=<addr>]
  dashboard render [--out=<path>]
  dashboard (-h | --help)

Options:
  -h --help       Show this screen.
  --addr=<addr>   Listen address, overrides HTTP_ADDR.
  --out=<path>    Output file for the rendered page [default: dashboard.html].
`

func main() {
	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse arguments: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if addr, err := arguments.String("--addr"); err == nil && addr != "" {
		cfg.HTTPAddr = addr
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	p := pipeline.New(pipeline.FileSource{}, options(cfg), logger, metrics)
	renderer := page.NewRenderer(chart.DefaultSize, metrics)

	if render, _ := arguments.Bool("render"); render {
		out, _ := arguments.String("--out")
		if err := renderOnce(p, renderer, out); err != nil {
			logger.Error("render failed", "error", err)
			os.Exit(1)
		}
		logger.Info("dashboard written", "path", out)
		return
	}

	serve(cfg, p, renderer, logger)
}

func options(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		CallsPaths:    cfg.CallsPaths(),
		LocationsPath: cfg.LocationsPath(),
		TopN:          cfg.TopN,
		RollingWindow: cfg.RollingWindow,
		Range:         domain.DateRange{Start: cfg.RangeStart, End: cfg.RangeEnd},
		MapCenterLat:  cfg.MapCenterLat,
		MapCenterLon:  cfg.MapCenterLon,
		MapZoom:       cfg.MapZoom,
	}
}

func renderOnce(p *pipeline.Pipeline, renderer *page.Renderer, out string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dash, err := p.Run(ctx)
	if err != nil {
		return err
	}
	return writePage(ctx, renderer, dash, out)
}

type pageRenderer interface {
	Render(ctx context.Context, w io.Writer, dash domain.Dashboard) error
}

// writePage renders into memory and only creates out once the page is
// complete.
func writePage(ctx context.Context, renderer pageRenderer, dash domain.Dashboard, out string) error {
	var buf bytes.Buffer
	if err := renderer.Render(ctx, &buf, dash); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

func serve(cfg *config.Config, p *pipeline.Pipeline, renderer *page.Renderer, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, renderer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.CheckReadiness(ctx); err != nil {
		logger.Warn("inputs not ready", "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
