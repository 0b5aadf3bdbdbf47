package domain

import (
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// Overview describes the combined call table before and after pruning.
type Overview struct {
	Raw     table.Shape
	Cleaned table.Shape
	Dropped []string
	Kinds   []table.ColumnKind
}

// MapView is either a set of markers or, when the location table has no
// coordinates, an error message.
type MapView struct {
	Available bool
	Message   string
	Markers   []Marker
	Skipped   int
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// Dashboard is everything rendered on one page, in display order.
type Dashboard struct {
	GeneratedAt time.Time
	Overview    Overview
	TopN        int
	CallTypes   []CategoryCount
	Dispos      []CategoryCount
	Priorities  []CategoryCount
	Months      []MonthCount
	Days        []DayCount
	Hours       HourSeries
	Map         MapView

	// DatesSkipped counts calls with an empty OFFENSE_DATE.
	DatesSkipped int
}
