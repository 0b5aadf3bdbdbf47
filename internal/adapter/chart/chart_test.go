package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSize = Size{Width: 400, Height: 300}

func assertSVG(t *testing.T, out []byte, contains ...string) {
	t.Helper()
	s := string(out)
	assert.Contains(t, s, "<svg")
	for _, c := range contains {
		assert.Contains(t, s, c)
	}
}

func TestHorizontalBar(t *testing.T) {
	rows := []domain.CategoryCount{{Label: "DISTURBANCE", Count: 30}, {Label: "ALARM", Count: 12}}

	out, err := HorizontalBar(CallTypesTitle(20), rows, testSize)
	require.NoError(t, err)
	assertSVG(t, out, "Top 20 CALL_TYPE Categories", "DISTURBANCE", "ALARM", "30", "12")
}

func TestHorizontalBar_Empty(t *testing.T) {
	out, err := HorizontalBar(TitleDispos, nil, testSize)
	require.NoError(t, err)
	assertSVG(t, out)
}

func TestDonut(t *testing.T) {
	rows := []domain.CategoryCount{{Label: "2", Count: 3}, {Label: "3", Count: 1}}

	out, err := Donut(TitlePriorities, rows, testSize)
	require.NoError(t, err)
	assertSVG(t, out, "75.0%", "25.0%")
}

func TestDonut_SingleCategory(t *testing.T) {
	out, err := Donut(TitlePriorities, []domain.CategoryCount{{Label: "1", Count: 5}}, testSize)
	require.NoError(t, err)
	assertSVG(t, out, "100.0%")
}

func TestNewDonut_Shares(t *testing.T) {
	d := newDonut([]domain.CategoryCount{{Label: "a", Count: 1}, {Label: "b", Count: 3}})
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, d.shares, 1e-9)
	assert.InDelta(t, 0.3, d.hole, 1e-9)

	empty := newDonut(nil)
	assert.Empty(t, empty.shares)
}

func TestWedgeLabel(t *testing.T) {
	assert.Equal(t, "PRIORITY 2\n33.3%", wedgeLabel("PRIORITY 2", 1.0/3.0))
}

func TestMonthBars(t *testing.T) {
	months := domain.MonthDistribution([]time.Time{time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)})

	out, err := MonthBars(months, testSize)
	require.NoError(t, err)
	assertSVG(t, out, "January", "May", "December")
}

func TestHourBars(t *testing.T) {
	hours := domain.HourSeries{Rows: make([]domain.HourCount, 24)}
	for i := range hours.Rows {
		hours.Rows[i] = domain.HourCount{Hour: i, Count: i * 2}
	}

	out, err := HourBars(hours, testSize)
	require.NoError(t, err)
	assertSVG(t, out, "46")
}

func TestDailyLines(t *testing.T) {
	r := domain.DateRange{
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	days := domain.DailyDensity([]time.Time{time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)}, r, 7)

	out, err := DailyLines(days, testSize)
	require.NoError(t, err)
	assertSVG(t, out, TraceCalls, TraceAverage)
	assert.True(t, strings.Contains(string(out), "2020-0"))
}
