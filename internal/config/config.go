package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const dateLayout = "2006-01-02"

// Config holds all dashboard settings, populated from environment variables.
type Config struct {
	DataDir       string
	CallsFiles    []string
	LocationsFile string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	TopN          int
	RollingWindow int
	RangeStart    time.Time
	RangeEnd      time.Time

	// Map view.
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	topN, err := parsePositiveInt("TOP_N", "20")
	if err != nil {
		return nil, err
	}
	window, err := parsePositiveInt("ROLLING_WINDOW", "7")
	if err != nil {
		return nil, err
	}
	zoom, err := parsePositiveInt("MAP_ZOOM", "12")
	if err != nil {
		return nil, err
	}

	start, err := parseDate("RANGE_START", "2020-01-01")
	if err != nil {
		return nil, err
	}
	end, err := parseDate("RANGE_END", "2023-12-31")
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("MAP_CENTER_LAT", "37.3382")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("MAP_CENTER_LON", "-121.8863")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:         sharedcfg.EnvOrDefault("DATA_DIR", "."),
		CallsFiles:      splitList(sharedcfg.EnvOrDefault("CALLS_FILES", "policecalls2020.csv,policecalls2021.csv,policecalls2022.csv,policecalls2023.csv")),
		LocationsFile:   sharedcfg.EnvOrDefault("LOCATIONS_FILE", "updated_sampled_arrestData.csv"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		TopN:            topN,
		RollingWindow:   window,
		RangeStart:      start,
		RangeEnd:        end,
		MapCenterLat:    lat,
		MapCenterLon:    lon,
		MapZoom:         zoom,
	}

	if len(cfg.CallsFiles) == 0 {
		return nil, errors.New("CALLS_FILES is required")
	}
	if cfg.LocationsFile == "" {
		return nil, errors.New("LOCATIONS_FILE is required")
	}
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("RANGE_END is before RANGE_START")
	}
	if cfg.MapCenterLat < -90 || cfg.MapCenterLat > 90 {
		return nil, errors.New("invalid MAP_CENTER_LAT")
	}
	if cfg.MapCenterLon < -180 || cfg.MapCenterLon > 180 {
		return nil, errors.New("invalid MAP_CENTER_LON")
	}

	return cfg, nil
}

// CallsPaths returns the yearly call files resolved against DataDir.
func (c *Config) CallsPaths() []string {
	out := make([]string, len(c.CallsFiles))
	for i, f := range c.CallsFiles {
		out[i] = c.resolve(f)
	}
	return out
}

// LocationsPath returns the location file resolved against DataDir.
func (c *Config) LocationsPath() string {
	return c.resolve(c.LocationsFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositiveInt(key, fallback string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key, fallback string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, fallback), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseDate(key, fallback string) (time.Time, error) {
	t, err := time.Parse(dateLayout, sharedcfg.EnvOrDefault(key, fallback))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s", key)
	}
	return t, nil
}
