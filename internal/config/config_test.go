package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, []string{"policecalls2020.csv", "policecalls2021.csv", "policecalls2022.csv", "policecalls2023.csv"}, cfg.CallsFiles)
	assert.Equal(t, "updated_sampled_arrestData.csv", cfg.LocationsFile)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, 7, cfg.RollingWindow)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), cfg.RangeStart)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), cfg.RangeEnd)
	assert.InDelta(t, 37.3382, cfg.MapCenterLat, 1e-9)
	assert.InDelta(t, -121.8863, cfg.MapCenterLon, 1e-9)
	assert.Equal(t, 12, cfg.MapZoom)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/data")
	t.Setenv("CALLS_FILES", " a.csv, b.xlsx ,")
	t.Setenv("LOCATIONS_FILE", "/abs/locations.csv")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("TOP_N", "5")
	t.Setenv("ROLLING_WINDOW", "14")
	t.Setenv("RANGE_START", "2021-06-01")
	t.Setenv("RANGE_END", "2021-06-30")
	t.Setenv("MAP_CENTER_LAT", "37.5")
	t.Setenv("MAP_CENTER_LON", "-122")
	t.Setenv("MAP_ZOOM", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"a.csv", "b.xlsx"}, cfg.CallsFiles)
	assert.Equal(t, []string{filepath.Join("/data", "a.csv"), filepath.Join("/data", "b.xlsx")}, cfg.CallsPaths())
	assert.Equal(t, "/abs/locations.csv", cfg.LocationsPath())
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 14, cfg.RollingWindow)
	assert.Equal(t, time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC), cfg.RangeEnd)
	assert.InDelta(t, -122.0, cfg.MapCenterLon, 1e-9)
	assert.Equal(t, 10, cfg.MapZoom)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"TOP_N", "0"},
		{"TOP_N", "many"},
		{"ROLLING_WINDOW", "-7"},
		{"MAP_ZOOM", "x"},
		{"RANGE_START", "01/01/2020"},
		{"RANGE_END", "2023-13-01"},
		{"MAP_CENTER_LAT", "north"},
		{"MAP_CENTER_LAT", "91"},
		{"MAP_CENTER_LON", "-200"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_RangeEndBeforeStart(t *testing.T) {
	t.Setenv("RANGE_START", "2023-01-01")
	t.Setenv("RANGE_END", "2022-01-01")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RANGE_END")
}

func TestLoad_EmptyCallsFiles(t *testing.T) {
	t.Setenv("CALLS_FILES", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALLS_FILES")
}
