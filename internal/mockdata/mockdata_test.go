package mockdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/mockdata"
	"github.com/couchcryptid/police-calls-dashboard/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions(dir string) mockdata.Options {
	opts := mockdata.DefaultOptions(dir)
	opts.RowsPerYear = 40
	opts.Locations = 30
	return opts
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	paths, err := mockdata.Generate(smallOptions(dir))
	require.NoError(t, err)
	require.Len(t, paths, 5)
	assert.Equal(t, filepath.Join(dir, "policecalls2020.csv"), paths[0])
	assert.Equal(t, filepath.Join(dir, mockdata.LocationsFile), paths[4])

	calls, err := table.ReadFile(paths[1])
	require.NoError(t, err)
	defer calls.Release()
	assert.Equal(t, table.Shape{Rows: 40, Cols: 15}, calls.Shape())
	assert.Equal(t, mockdata.CallsHeader, calls.Columns())

	dates, err := domain.ParseOffenseDates(calls)
	require.NoError(t, err)
	require.Len(t, dates.Values, 40)
	for _, d := range dates.Values {
		assert.Equal(t, 2021, d.Year())
	}

	hours, err := domain.HourDistribution(calls)
	require.NoError(t, err)
	assert.Zero(t, hours.Skipped)

	locations, err := table.ReadFile(paths[4])
	require.NoError(t, err)
	defer locations.Release()
	set, err := domain.BuildMarkers(locations)
	require.NoError(t, err)
	assert.Equal(t, 30, len(set.Markers)+set.Skipped)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := mockdata.Generate(smallOptions(t.TempDir()))
	require.NoError(t, err)
	b, err := mockdata.Generate(smallOptions(t.TempDir()))
	require.NoError(t, err)

	for i := range a {
		x, err := os.ReadFile(a[i])
		require.NoError(t, err)
		y, err := os.ReadFile(b[i])
		require.NoError(t, err)
		assert.Equal(t, string(x), string(y), filepath.Base(a[i]))
	}
}

func TestGenerate_OmitCoordinates(t *testing.T) {
	opts := smallOptions(t.TempDir())
	opts.OmitCoordinates = true
	paths, err := mockdata.Generate(opts)
	require.NoError(t, err)

	locations, err := table.ReadFile(paths[len(paths)-1])
	require.NoError(t, err)
	defer locations.Release()
	_, err = domain.BuildMarkers(locations)
	require.ErrorIs(t, err, domain.ErrMissingCoordinates)
}

func TestGenerate_XLSX(t *testing.T) {
	opts := smallOptions(t.TempDir())
	opts.Years = []int{2022}
	opts.XLSX = true
	paths, err := mockdata.Generate(opts)
	require.NoError(t, err)
	require.Equal(t, ".xlsx", filepath.Ext(paths[0]))

	calls, err := table.ReadFile(paths[0])
	require.NoError(t, err)
	defer calls.Release()
	assert.Equal(t, 40, calls.NumRows())
}

func TestGenerate_InvalidOptions(t *testing.T) {
	opts := smallOptions(t.TempDir())
	opts.Years = nil
	_, err := mockdata.Generate(opts)
	require.Error(t, err)

	opts = smallOptions(t.TempDir())
	opts.RowsPerYear = -1
	_, err = mockdata.Generate(opts)
	require.Error(t, err)
}
