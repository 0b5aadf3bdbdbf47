package domain

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// Column names read by the aggregators and the map.
const (
	ColOffenseDate = "OFFENSE_DATE"
	ColOffenseTime = "OFFENSE_TIME"
	ColCallType    = "CALL_TYPE"
	ColFinalDispo  = "FINAL_DISPO"
	ColPriority    = "PRIORITY"
	ColStartDate   = "START_DATE"
	ColLatitude    = "Latitude"
	ColLongitude   = "Longitude"
)

var (
	ErrMissingColumn      = errors.New("missing required column")
	ErrInvalidDate        = errors.New("invalid offense date")
	ErrInvalidTime        = errors.New("invalid offense time")
	ErrMissingCoordinates = errors.New("location table has no Latitude/Longitude columns")
)

// MissingCoordinatesMessage is shown in place of the map when
// [ErrMissingCoordinates] is returned.
const MissingCoordinatesMessage = "The dataset does not contain 'Latitude' and 'Longitude' columns."

// DroppedColumns lists the columns removed from the combined call table
// before aggregation.
func DroppedColumns() []string {
	return []string{
		"CDTS",
		"EID",
		"START_DATE",
		"CALL_NUMBER",
		"REPORT_DATE",
		"CALLTYPE_CODE",
		"FINAL_DISPO_CODE",
		"CITY",
		"STATE",
		"ADDRESS",
	}
}

// RequiredCallColumns lists the call table columns the aggregators read.
func RequiredCallColumns() []string {
	return []string{ColOffenseDate, ColOffenseTime, ColCallType, ColFinalDispo, ColPriority}
}

// MissingColumns returns the names in want that t does not have.
func MissingColumns(t *table.Table, want ...string) []string {
	var missing []string
	for _, name := range want {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Prune removes [DroppedColumns] from t. It returns the new table and the
// dropped names that were actually present.
func Prune(t *table.Table) (*table.Table, []string) {
	var present []string
	for _, c := range DroppedColumns() {
		if t.HasColumn(c) {
			present = append(present, c)
		}
	}
	return t.Drop(DroppedColumns()...), present
}

func requireColumn(t *table.Table, name string) (table.Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return table.Column{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return c, nil
}
