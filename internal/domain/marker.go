package domain

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// Marker is one map pin. Popup is HTML with every data value escaped.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// MarkerSet is the result of [BuildMarkers].
type MarkerSet struct {
	Markers []Marker
	Skipped int
}

// BuildMarkers turns every location row with both coordinates present and
// numeric into a marker. It returns [ErrMissingCoordinates] if either
// coordinate column is absent.
func BuildMarkers(t *table.Table) (MarkerSet, error) {
	lat, okLat := t.Column(ColLatitude)
	lon, okLon := t.Column(ColLongitude)
	if !okLat || !okLon {
		return MarkerSet{}, ErrMissingCoordinates
	}
	callType, err := requireColumn(t, ColCallType)
	if err != nil {
		return MarkerSet{}, err
	}
	startDate, err := requireColumn(t, ColStartDate)
	if err != nil {
		return MarkerSet{}, err
	}

	var out MarkerSet
	for i := 0; i < lat.Len(); i++ {
		y, okY := parseCoord(lat, i)
		x, okX := parseCoord(lon, i)
		if !okY || !okX {
			out.Skipped++
			continue
		}
		out.Markers = append(out.Markers, Marker{
			Lat:   y,
			Lon:   x,
			Popup: Popup(callType.Value(i), startDate.Value(i)),
		})
	}
	return out, nil
}

// Popup formats the marker popup for a call type and start date.
func Popup(callType, startDate string) string {
	return "Call Type: " + html.EscapeString(callType) + "<br>Date: " + html.EscapeString(startDate)
}

func parseCoord(c table.Column, i int) (float64, bool) {
	if c.IsNull(i) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Value(i)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
