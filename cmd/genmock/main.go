// Command genmock writes deterministic sample inputs for the dashboard: one
// call file per year and a sampled location file.
//
// Usage:
//
//	go run ./cmd/genmock -out data -rows 5000 -locations 1000
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/couchcryptid/police-calls-dashboard/internal/mockdata"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := mockdata.DefaultOptions("")

	out := flag.String("out", "data", "output directory")
	years := flag.String("years", "2020,2021,2022,2023", "comma-separated years, one call file each")
	rows := flag.Int("rows", defaults.RowsPerYear, "call rows per year")
	locations := flag.Int("locations", defaults.Locations, "location rows")
	seed := flag.Uint64("seed", defaults.Seed, "random seed")
	xlsx := flag.Bool("xlsx", false, "write call files as .xlsx")
	noCoords := flag.Bool("no-coords", false, "omit Latitude and Longitude from the location file")
	flag.Parse()

	ys, err := parseYears(*years)
	if err != nil {
		return err
	}

	paths, err := mockdata.Generate(mockdata.Options{
		Dir:             *out,
		Years:           ys,
		RowsPerYear:     *rows,
		Locations:       *locations,
		Seed:            *seed,
		XLSX:            *xlsx,
		OmitCoordinates: *noCoords,
	})
	if err != nil {
		return fmt.Errorf("generating mock data: %w", err)
	}

	for _, p := range paths {
		log.Printf("wrote %s", p)
	}
	log.Printf("total: %d call rows, %d location rows", len(ys)*(*rows), *locations)
	return nil
}

func parseYears(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		out = append(out, y)
	}
	return out, nil
}
