// Command validate runs preflight checks over the dashboard inputs: every
// yearly call file and the location file. It verifies that the files load,
// that the required columns are present, and that OFFENSE_DATE and
// OFFENSE_TIME parse, so a page load does not fail on bad data.
//
// Paths come from the same environment variables as the dashboard.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/police-calls-dashboard/internal/config"
	"github.com/couchcryptid/police-calls-dashboard/internal/domain"
	"github.com/couchcryptid/police-calls-dashboard/internal/table"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// input is one loaded file.
type input struct {
	name string
	t    *table.Table
}

func main() {
	dataDir := flag.String("data-dir", "", "directory containing the input files (overrides DATA_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	fmt.Println("=== Police Calls Input Validation ===")
	fmt.Println()

	calls, loadCalls := loadAll(cfg.CallsPaths())
	defer release(calls)
	locations, loadLocations := loadAll([]string{cfg.LocationsPath()})
	defer release(locations)
	loadCalls.name = "Phase 1: Call files load"
	loadLocations.name = "Phase 2: Location file loads"

	r := domain.DateRange{Start: cfg.RangeStart, End: cfg.RangeEnd}
	phases := []*phase{
		loadCalls,
		loadLocations,
		validateCallColumns(calls),
		validateOffenseDates(calls, r),
		validateOffenseTimes(calls),
		validateLocations(locations),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d calls across %d files, %d locations\n", countRows(calls), len(calls), countRows(locations))

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Printf("  note: %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadAll(paths []string) ([]input, *phase) {
	p := &phase{}
	var out []input
	for _, path := range paths {
		t, err := table.ReadFile(path)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		out = append(out, input{name: filepath.Base(path), t: t})
	}
	return out, p
}

func release(inputs []input) {
	for _, in := range inputs {
		in.t.Release()
	}
}

func countRows(inputs []input) int {
	n := 0
	for _, in := range inputs {
		n += in.t.NumRows()
	}
	return n
}

// ── Phase 3: Call columns ──
// Every call file must carry the columns the aggregators read. Files with
// differing layouts still combine but are reported.

func validateCallColumns(calls []input) *phase {
	p := &phase{name: "Phase 3: Call columns"}
	if len(calls) == 0 {
		p.errorf("no call files loaded")
		return p
	}

	first := calls[0].t.Columns()
	for _, in := range calls {
		for _, name := range domain.MissingColumns(in.t, domain.RequiredCallColumns()...) {
			p.errorf("%s: %v: %s", in.name, domain.ErrMissingColumn, name)
		}
		if cols := in.t.Columns(); !slices.Equal(cols, first) {
			p.notef("%s: %d columns differ from %s layout", in.name, len(cols), calls[0].name)
		}
	}
	return p
}

// ── Phase 4: OFFENSE_DATE ──

func validateOffenseDates(calls []input, r domain.DateRange) *phase {
	p := &phase{name: "Phase 4: OFFENSE_DATE format"}
	for _, in := range calls {
		dates, err := domain.ParseOffenseDates(in.t)
		if err != nil {
			p.errorf("%s: %v", in.name, err)
			continue
		}
		if dates.Skipped > 0 {
			p.notef("%s: %d empty values", in.name, dates.Skipped)
		}
		outside := 0
		for _, d := range dates.Values {
			if d.Before(r.Start) || d.After(r.End) {
				outside++
			}
		}
		if outside > 0 {
			p.notef("%s: %d dates outside %s..%s", in.name, outside, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
		}
	}
	return p
}

// ── Phase 5: OFFENSE_TIME ──

func validateOffenseTimes(calls []input) *phase {
	p := &phase{name: "Phase 5: OFFENSE_TIME format"}
	for _, in := range calls {
		hours, err := domain.HourDistribution(in.t)
		if err != nil {
			p.errorf("%s: %v", in.name, err)
			continue
		}
		if hours.Skipped > 0 {
			p.notef("%s: %d empty values", in.name, hours.Skipped)
		}
	}
	return p
}

// ── Phase 6: Locations ──
// Missing coordinate columns do not break the page, but the map is replaced
// by a message, so the phase fails.

func validateLocations(locations []input) *phase {
	p := &phase{name: "Phase 6: Location coordinates"}
	for _, in := range locations {
		set, err := domain.BuildMarkers(in.t)
		if errors.Is(err, domain.ErrMissingCoordinates) {
			p.errorf("%s: %s", in.name, domain.MissingCoordinatesMessage)
			continue
		}
		if err != nil {
			p.errorf("%s: %v", in.name, err)
			continue
		}
		p.notef("%s: %d markers, %d rows without coordinates", in.name, len(set.Markers), set.Skipped)
	}
	return p
}
