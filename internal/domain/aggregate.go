package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// CategoryCount is one row of a category frequency view.
type CategoryCount struct {
	Label string
	Count int
}

// TopN counts the distinct non-empty values of column and returns the n most
// frequent, largest first. Ties keep the order in which values first appear.
// n <= 0 returns every category.
func TopN(t *table.Table, column string, n int) ([]CategoryCount, error) {
	col, err := requireColumn(t, column)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var counts []CategoryCount
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		v := col.Value(i)
		if j, ok := index[v]; ok {
			counts[j].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, CategoryCount{Label: v, Count: 1})
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}

// MonthCount is the number of calls in one calendar month, summed over all
// years.
type MonthCount struct {
	Month time.Month
	Count int
}

// Label returns the English month name.
func (m MonthCount) Label() string { return m.Month.String() }

// MonthDistribution returns twelve rows, January through December.
func MonthDistribution(dates []time.Time) []MonthCount {
	out := make([]MonthCount, 12)
	for i := range out {
		out[i].Month = time.Month(i + 1)
	}
	for _, d := range dates {
		out[d.Month()-1].Count++
	}
	return out
}

// DayCount is one calendar day of the densified day view. Avg is the
// trailing moving average and is only meaningful when HasAvg is true.
type DayCount struct {
	Date   time.Time
	Count  int
	Avg    float64
	HasAvg bool
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range, counting both ends.
func (r DateRange) Days() int {
	n := dayNumber(r.End) - dayNumber(r.Start) + 1
	if n < 0 {
		return 0
	}
	return int(n)
}

// DailyDensity counts dates per calendar day across r with zero fill, then
// computes a trailing mean over window days. Dates outside r are ignored.
// The first window-1 rows have no average.
func DailyDensity(dates []time.Time, r DateRange, window int) []DayCount {
	if window < 1 {
		window = 1
	}
	n := r.Days()
	start := civil(r.Start)

	out := make([]DayCount, n)
	for i := range out {
		out[i].Date = start.AddDate(0, 0, i)
	}
	first := dayNumber(start)
	for _, d := range dates {
		i := dayNumber(d) - first
		if i < 0 || i >= int64(n) {
			continue
		}
		out[i].Count++
	}

	sum := 0
	for i := range out {
		sum += out[i].Count
		if i >= window {
			sum -= out[i-window].Count
		}
		if i >= window-1 {
			out[i].Avg = float64(sum) / float64(window)
			out[i].HasAvg = true
		}
	}
	return out
}

// civil truncates t to midnight UTC of its calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// dayNumber is the signed count of days between the Unix epoch and t's
// calendar date.
func dayNumber(t time.Time) int64 {
	return civil(t).Unix() / secondsPerDay
}

// HourCount is the number of calls that started in one hour of the day.
type HourCount struct {
	Hour  int
	Count int
}

// HourSeries is the 24-row hour view.
type HourSeries struct {
	Rows    []HourCount
	Skipped int
}

// HourDistribution counts calls per hour of day using OFFENSE_TIME.
func HourDistribution(t *table.Table) (HourSeries, error) {
	col, err := requireColumn(t, ColOffenseTime)
	if err != nil {
		return HourSeries{}, err
	}

	out := HourSeries{Rows: make([]HourCount, 24)}
	for h := range out.Rows {
		out.Rows[h].Hour = h
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			out.Skipped++
			continue
		}
		h, err := ParseHour(col.Value(i))
		if err != nil {
			return HourSeries{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		out.Rows[h].Count++
	}
	return out, nil
}
