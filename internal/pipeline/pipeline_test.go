package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/observability"
	"github.com/couchcryptid/police-calls-dashboard/internal/pipeline"
	"github.com/couchcryptid/police-calls-dashboard/internal/table"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fixtures ---

const callsHeader = "CDTS,EID,START_DATE,CALL_NUMBER,PRIORITY,REPORT_DATE,OFFENSE_DATE,OFFENSE_TIME,CALLTYPE_CODE,CALL_TYPE,FINAL_DISPO_CODE,FINAL_DISPO,ADDRESS,CITY,STATE\n"

func callRow(date, tm, callType, dispo, priority string) string {
	return "x,1,d,c," + priority + ",r," + date + "," + tm + ",cc," + callType + ",fc," + dispo + ",a,SAN JOSE,CA\n"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testOptions(calls []string, locations string) pipeline.Options {
	return pipeline.Options{
		CallsPaths:    calls,
		LocationsPath: locations,
		TopN:          20,
		RollingWindow: 7,
		Range: domain.DateRange{
			Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		MapCenterLat: 37.3382,
		MapCenterLon: -121.8863,
		MapZoom:      12,
	}
}

type fixture struct {
	calls     []string
	locations string
}

func newFixture(t *testing.T, locations string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		calls: []string{
			writeFile(t, dir, "policecalls2020.csv", callsHeader+
				callRow("01/01/2020 12:00:00 AM", "00:10:00", "DISTURBANCE", "N", "2")+
				callRow("01/01/2020 12:00:00 AM", "13:00:00", "ALARM", "N", "3")),
			writeFile(t, dir, "policecalls2021.csv", callsHeader+
				callRow("03/15/2021 12:00:00 AM", "13:45:00", "DISTURBANCE", "A", "2")),
			writeFile(t, dir, "policecalls2022.csv", callsHeader),
			writeFile(t, dir, "policecalls2023.csv", callsHeader+
				callRow("12/31/2023 12:00:00 AM", "23:59:00", "WELFARE CHECK", "N", "1")+
				callRow("", "", "DISTURBANCE", "N", "2")),
		},
	}
	f.locations = writeFile(t, dir, "updated_sampled_arrestData.csv", locations)
	return f
}

const locationsWithCoords = "CALL_TYPE,START_DATE,Latitude,Longitude\nALARM,01/01/2021,37.3,-121.9\nALARM,01/02/2021,,\n"

// --- mocks ---

type failingSource struct {
	failOn string
	inner  pipeline.TableSource
}

func (s failingSource) ReadTable(ctx context.Context, path string) (*table.Table, error) {
	if filepath.Base(path) == s.failOn {
		return nil, errors.New("disk on fire")
	}
	return s.inner.ReadTable(ctx, path)
}

// --- tests ---

func TestPipeline_Run(t *testing.T) {
	frozen := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { domain.SetClock(nil) })

	f := newFixture(t, locationsWithCoords)
	metrics := newTestMetrics()
	p := pipeline.New(pipeline.FileSource{}, testOptions(f.calls, f.locations), slog.Default(), metrics)

	dash, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, frozen, dash.GeneratedAt)
	assert.Equal(t, table.Shape{Rows: 5, Cols: 15}, dash.Overview.Raw)
	assert.Equal(t, table.Shape{Rows: 5, Cols: 5}, dash.Overview.Cleaned)
	assert.Len(t, dash.Overview.Dropped, 10)
	assert.Len(t, dash.Overview.Kinds, 5)

	want := []domain.CategoryCount{{Label: "DISTURBANCE", Count: 3}, {Label: "ALARM", Count: 1}, {Label: "WELFARE CHECK", Count: 1}}
	if diff := cmp.Diff(want, dash.CallTypes); diff != "" {
		t.Errorf("call types mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []domain.CategoryCount{{Label: "N", Count: 4}, {Label: "A", Count: 1}}, dash.Dispos)
	assert.Equal(t, domain.CategoryCount{Label: "2", Count: 3}, dash.Priorities[0])

	require.Len(t, dash.Months, 12)
	assert.Equal(t, 2, dash.Months[0].Count)
	assert.Equal(t, 1, dash.Months[2].Count)
	assert.Equal(t, 1, dash.Months[11].Count)
	assert.Equal(t, 1, dash.DatesSkipped)

	require.Len(t, dash.Days, 1461)
	assert.Equal(t, 2, dash.Days[0].Count)
	assert.Equal(t, 1, dash.Days[1460].Count)

	assert.Equal(t, 2, dash.Hours.Rows[13].Count)
	assert.Equal(t, 1, dash.Hours.Skipped)

	assert.True(t, dash.Map.Available)
	require.Len(t, dash.Map.Markers, 1)
	assert.Equal(t, "Call Type: ALARM<br>Date: 01/01/2021", dash.Map.Markers[0].Popup)
	assert.Equal(t, 1, dash.Map.Skipped)
	assert.Equal(t, 12, dash.Map.Zoom)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 5.0, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("calls")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("locations")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.MapMarkers), 0)
}

func TestPipeline_MissingCoordinatesIsNotFatal(t *testing.T) {
	f := newFixture(t, "CALL_TYPE,START_DATE\nALARM,01/01/2021\n")
	metrics := newTestMetrics()
	p := pipeline.New(pipeline.FileSource{}, testOptions(f.calls, f.locations), slog.Default(), metrics)

	dash, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, dash.Map.Available)
	assert.Empty(t, dash.Map.Markers)
	assert.Equal(t, "The dataset does not contain 'Latitude' and 'Longitude' columns.", dash.Map.Message)
	assert.Len(t, dash.CallTypes, 3)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.MapUnavailable), 0)
}

func TestPipeline_InvalidDateIsFatal(t *testing.T) {
	f := newFixture(t, locationsWithCoords)
	writeFile(t, filepath.Dir(f.calls[1]), "policecalls2021.csv", callsHeader+callRow("2021-03-15", "13:45:00", "X", "N", "2"))
	metrics := newTestMetrics()
	p := pipeline.New(pipeline.FileSource{}, testOptions(f.calls, f.locations), slog.Default(), metrics)

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("error")), 0)
}

func TestPipeline_MissingColumnIsFatal(t *testing.T) {
	dir := t.TempDir()
	calls := writeFile(t, dir, "calls.csv", "OFFENSE_DATE,OFFENSE_TIME,CALL_TYPE,PRIORITY\n01/01/2020 12:00:00 AM,10:00:00,A,1\n")
	locations := writeFile(t, dir, "loc.csv", locationsWithCoords)
	p := pipeline.New(pipeline.FileSource{}, testOptions([]string{calls}, locations), slog.Default(), newTestMetrics())

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrMissingColumn)
	assert.Contains(t, err.Error(), "FINAL_DISPO")
}

func TestPipeline_LoadErrors(t *testing.T) {
	f := newFixture(t, locationsWithCoords)

	t.Run("missing file", func(t *testing.T) {
		opts := testOptions(append([]string{filepath.Join(t.TempDir(), "gone.csv")}, f.calls...), f.locations)
		p := pipeline.New(pipeline.FileSource{}, opts, slog.Default(), newTestMetrics())
		_, err := p.Run(context.Background())
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("source failure", func(t *testing.T) {
		src := failingSource{failOn: "updated_sampled_arrestData.csv", inner: pipeline.FileSource{}}
		p := pipeline.New(src, testOptions(f.calls, f.locations), slog.Default(), newTestMetrics())
		_, err := p.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load locations")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := pipeline.New(pipeline.FileSource{}, testOptions(f.calls, f.locations), slog.Default(), newTestMetrics())
		_, err := p.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestPipeline_CheckReadiness(t *testing.T) {
	f := newFixture(t, locationsWithCoords)

	ready := pipeline.New(pipeline.FileSource{}, testOptions(f.calls, f.locations), slog.Default(), newTestMetrics())
	require.NoError(t, ready.CheckReadiness(context.Background()))

	missing := pipeline.New(pipeline.FileSource{}, testOptions(f.calls, filepath.Join(t.TempDir(), "nope.csv")), slog.Default(), newTestMetrics())
	err := missing.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
