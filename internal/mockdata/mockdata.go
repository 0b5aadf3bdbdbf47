// Package mockdata writes deterministic sample SJPD call files and a location
// file so the dashboard can be run without the real exports.
package mockdata

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// CallsHeader is the column layout of the yearly call exports.
var CallsHeader = []string{
	"CDTS", "EID", domain.ColStartDate, "CALL_NUMBER", domain.ColPriority,
	"REPORT_DATE", domain.ColOffenseDate, domain.ColOffenseTime, "CALLTYPE_CODE",
	domain.ColCallType, "FINAL_DISPO_CODE", domain.ColFinalDispo,
	"ADDRESS", "CITY", "STATE",
}

// LocationsHeader is the column layout of the sampled location file.
var LocationsHeader = []string{domain.ColCallType, domain.ColStartDate, domain.ColLatitude, domain.ColLongitude}

// LocationsFile is the name of the generated location file.
const LocationsFile = "updated_sampled_arrestData.csv"

var callTypes = []struct{ code, name string }{
	{"415", "DISTURBANCE"},
	{"1033A", "ALARM, AUDIBLE"},
	{"1066", "SUSPICIOUS PERSON"},
	{"10851", "STOLEN VEHICLE"},
	{"WELCK", "WELFARE CHECK"},
	{"1195", "VEHICLE STOP"},
	{"242", "BATTERY"},
	{"459", "BURGLARY"},
	{"911UNK", "UNK TYPE 911 CALL"},
	{"1154", "SUSPICIOUS VEHICLE"},
	{"415F", "DISTURBANCE, FAMILY"},
	{"586", "ILLEGAL PARKING"},
}

var dispositions = []struct{ code, name string }{
	{"N", "No report required; dispatch record only"},
	{"A", "Arrest Made"},
	{"R", "Report taken"},
	{"G", "Unable to locate"},
	{"C", "Criminal citation"},
	{"CAN", "Canceled"},
}

var streets = []string{"N 1ST ST", "S KING RD", "STORY RD", "TULLY RD", "BLOSSOM HILL RD", "E SANTA CLARA ST", "ALUM ROCK AV"}

// Options controls what Generate writes.
type Options struct {
	Dir         string
	Years       []int
	RowsPerYear int
	Locations   int
	Seed        uint64
	// XLSX writes the yearly call files as spreadsheets instead of CSV.
	XLSX bool
	// OmitCoordinates leaves Latitude and Longitude out of the location file.
	OmitCoordinates bool
}

// DefaultOptions returns options matching the default dashboard inputs.
func DefaultOptions(dir string) Options {
	return Options{
		Dir:         dir,
		Years:       []int{2020, 2021, 2022, 2023},
		RowsPerYear: 500,
		Locations:   200,
		Seed:        1,
	}
}

// Generate writes one call file per year and a location file into opts.Dir
// and returns the written paths, calls first. The same options always
// produce the same files.
func Generate(opts Options) ([]string, error) {
	if len(opts.Years) == 0 {
		return nil, errors.New("no years to generate")
	}
	if opts.RowsPerYear < 0 || opts.Locations < 0 {
		return nil, errors.New("row counts must not be negative")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", opts.Dir, err)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed))
	paths := make([]string, 0, len(opts.Years)+1)

	for _, year := range opts.Years {
		ext := ".csv"
		if opts.XLSX {
			ext = ".xlsx"
		}
		path := filepath.Join(opts.Dir, fmt.Sprintf("policecalls%d%s", year, ext))
		t, err := table.FromRows(CallsHeader, callRows(rng, year, opts.RowsPerYear))
		if err != nil {
			return nil, err
		}
		if opts.XLSX {
			err = t.WriteXLSX(path)
		} else {
			err = writeCSV(path, t)
		}
		t.Release()
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	header := LocationsHeader
	if opts.OmitCoordinates {
		header = header[:2]
	}
	t, err := table.FromRows(header, locationRows(rng, opts.Years, opts.Locations, len(header)))
	if err != nil {
		return nil, err
	}
	defer t.Release()

	path := filepath.Join(opts.Dir, LocationsFile)
	if err := writeCSV(path, t); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return append(paths, path), nil
}

func writeCSV(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func callRows(rng *rand.Rand, year, n int) [][]string {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24

	rows := make([][]string, n)
	for i := range rows {
		day := start.AddDate(0, 0, rng.IntN(int(days)))
		at := day.Add(time.Duration(rng.IntN(24*3600)) * time.Second)
		ct := callTypes[skewed(rng, len(callTypes))]
		dispo := dispositions[skewed(rng, len(dispositions))]
		offense := day.Format(domain.OffenseDateLayout)

		rows[i] = []string{
			at.Format("2006-01-02T15:04:05"),
			strconv.Itoa(year*100000 + i),
			at.Format(domain.OffenseDateLayout),
			fmt.Sprintf("P%02d%07d", year%100, i),
			strconv.Itoa(1 + skewed(rng, 6)),
			offense,
			offense,
			at.Format("15:04:05"),
			ct.code,
			ct.name,
			dispo.code,
			dispo.name,
			fmt.Sprintf("%d %s", 100+rng.IntN(2900), streets[rng.IntN(len(streets))]),
			"San Jose",
			"CA",
		}
	}
	return rows
}

// locationRows scatters points around downtown San Jose. Roughly one row in
// twenty has no coordinates.
func locationRows(rng *rand.Rand, years []int, n, cols int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		year := years[rng.IntN(len(years))]
		date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.IntN(365))
		row := []string{callTypes[skewed(rng, len(callTypes))].name, date.Format("01/02/2006")}
		if cols > 2 {
			lat, lon := "", ""
			if rng.IntN(20) != 0 {
				lat = strconv.FormatFloat(37.3382+rng.NormFloat64()*0.04, 'f', 6, 64)
				lon = strconv.FormatFloat(-121.8863+rng.NormFloat64()*0.05, 'f', 6, 64)
			}
			row = append(row, lat, lon)
		}
		rows[i] = row
	}
	return rows
}

// skewed returns an index in [0, n) biased toward small values so the
// generated categories have a recognizable ranking.
func skewed(rng *rand.Rand, n int) int {
	return min(rng.IntN(n), rng.IntN(n))
}
