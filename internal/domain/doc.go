// Package domain models San Jose Police Department (SJPD) calls-for-service
// data and the aggregate views drawn on the dashboard.
//
// # Data Source
//
// Calls for service are published by the City of San Jose open data portal
// as one CSV per calendar year (policecalls2020.csv through
// policecalls2023.csv). Each row is one call. A separate sampled arrest
// extract (updated_sampled_arrestData.csv) carries geocoded call locations
// and is used only for the map.
//
// # SJPD Data Conventions
//
// Offense date format:
//
//	"MM/DD/YYYY hh:mm:ss AM/PM"  →  e.g. "01/15/2021 12:00:00 AM"
//	The time portion is almost always midnight; the time of day lives in
//	OFFENSE_TIME. Every non-empty value must match this layout exactly or
//	the run fails with [ErrInvalidDate].
//
// Offense time format:
//
//	"HH:MM:SS" in 24-hour notation, e.g. "22:55:00".
//	12-hour clock values and full date-times are also accepted; only the
//	hour is used (see [ParseHour]).
//
// Columns not used by any view are pruned before aggregation:
//
//	CDTS, EID, START_DATE, CALL_NUMBER, REPORT_DATE, CALLTYPE_CODE,
//	FINAL_DISPO_CODE, CITY, STATE, ADDRESS
//
// Pruning is a set difference; a column missing from the input is not an
// error.
//
// # Aggregates
//
// Category counts ([TopN]) are sorted by count descending with ties kept in
// first-seen order. The month view always has twelve rows, January first.
// The day view is densified over a fixed inclusive calendar range with zero
// fill, then smoothed with a trailing moving average whose first window-1
// values are undefined. The hour view always has 24 rows.
//
// Empty cells in OFFENSE_DATE or OFFENSE_TIME are skipped and reported in
// the Skipped count of the view that reads them.
//
// # Map
//
// The location extract is optional in shape: when Latitude or Longitude is
// missing, [BuildMarkers] returns [ErrMissingCoordinates] and the caller
// shows an error message instead of a map. Rows with an empty or
// non-numeric coordinate are skipped.
package domain
