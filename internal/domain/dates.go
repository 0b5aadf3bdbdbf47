package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// OffenseDateLayout is the fixed layout of OFFENSE_DATE values.
const OffenseDateLayout = "01/02/2006 03:04:05 PM"

// Layouts accepted for OFFENSE_TIME, tried in order.
var offenseTimeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	OffenseDateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseOffenseDate parses a single OFFENSE_DATE value.
func ParseOffenseDate(s string) (time.Time, error) {
	t, err := time.Parse(OffenseDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseHour returns the hour of day (0-23) of an OFFENSE_TIME value.
func ParseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	for _, layout := range offenseTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// OffenseDates holds the parsed OFFENSE_DATE values of a call table in row
// order, with empty cells left out.
type OffenseDates struct {
	Values  []time.Time
	Skipped int
}

// ParseOffenseDates parses every OFFENSE_DATE cell of t. A non-empty value
// that does not match [OffenseDateLayout] fails the whole parse.
func ParseOffenseDates(t *table.Table) (OffenseDates, error) {
	col, err := requireColumn(t, ColOffenseDate)
	if err != nil {
		return OffenseDates{}, err
	}

	out := OffenseDates{Values: make([]time.Time, 0, col.Len())}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			out.Skipped++
			continue
		}
		d, err := ParseOffenseDate(col.Value(i))
		if err != nil {
			return OffenseDates{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		out.Values = append(out.Values, d)
	}
	return out, nil
}
