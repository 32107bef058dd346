// Command validate runs the full view computation over a local snapshot of the
// three source documents and checks the data invariants end to end: raw CSV
// parity, median correctness, join completeness, deterministic output, color
// scale endpoints, and state selection.
//
// Usage:
//
//	go run ./cmd/validate -dir data/mock
//
// or with explicit files:
//
//	go run ./cmd/validate \
//	  -counties data/snapshot/income_counties.csv \
//	  -states data/snapshot/us_states.json \
//	  -abbrevs data/snapshot/state_abbrevs.json
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/couchcryptid/county-income-map/internal/domain"
	"github.com/google/go-cmp/cmp"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func main() {
	dir := flag.String("dir", "", "directory holding income_counties.csv, us_states.json and state_abbrevs.json")
	countiesPath := flag.String("counties", "", "path to the county income CSV (overrides -dir)")
	statesPath := flag.String("states", "", "path to the state polygons GeoJSON (overrides -dir)")
	abbrevsPath := flag.String("abbrevs", "", "path to the state abbreviations JSON (overrides -dir)")
	flag.Parse()

	paths := [3]*string{countiesPath, statesPath, abbrevsPath}
	names := [3]string{"income_counties.csv", "us_states.json", "state_abbrevs.json"}
	for i, p := range paths {
		if *p == "" && *dir != "" {
			*p = filepath.Join(*dir, names[i])
		}
		if *p == "" {
			flag.Usage()
			os.Exit(1)
		}
	}

	if code := run(*countiesPath, *statesPath, *abbrevsPath); code != 0 {
		os.Exit(code)
	}
}

func run(countiesPath, statesPath, abbrevsPath string) int {
	fmt.Println("=== County Income Map Validation ===")
	fmt.Println()

	var src domain.Sources
	for _, f := range []struct {
		path string
		dst  *[]byte
	}{
		{countiesPath, &src.Counties},
		{statesPath, &src.States},
		{abbrevsPath, &src.Abbrevs},
	} {
		data, err := os.ReadFile(f.path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read %s: %v\n", f.path, err)
			return 1
		}
		*f.dst = data
	}

	view, err := domain.ComputeView(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: compute view: %v\n", err)
		return 1
	}

	rawRows, err := loadCSV(src.Counties)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read raw CSV: %v\n", err)
		return 1
	}
	polygons, err := domain.ParseStatePolygons(src.States)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse polygons: %v\n", err)
		return 1
	}
	abbrevs, err := domain.ParseStateAbbrevs(src.Abbrevs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse abbreviations: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCSVParity(rawRows, view),
		validateMedians(view),
		validateJoin(view, polygons, abbrevs),
		validateDeterminism(src, view),
		validateColorScale(view),
		validateSelection(view),
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
	fmt.Printf("Records: %d counties, %d aggregates, %d polygons, %d abbreviations, %d joined states (%d without data)\n",
		len(view.Counties), len(view.Aggregates), len(polygons), len(abbrevs), len(view.States), view.Summary.StatesNoData)
	if len(view.Join.Unmatched) > 0 {
		fmt.Printf("Unmatched polygons: %s\n", strings.Join(view.Join.Unmatched, ", "))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
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

// loadCSV reads the county CSV independently of the domain parser, keyed by
// header name.
func loadCSV(data []byte) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("empty CSV")
	}
	header := all[0]
	rows := make([]map[string]string, 0, len(all)-1)
	for _, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// ── Phase 1: CSV parity ──

func validateCSVParity(raw []map[string]string, view domain.View) *phase {
	p := &phase{name: "CSV parity (rows, FIPS preserved)"}

	if len(raw) != len(view.Counties) {
		p.errorf("row count: raw=%d parsed=%d", len(raw), len(view.Counties))
		return p
	}
	for i, row := range raw {
		c := view.Counties[i]
		if row["fips"] != c.FIPS {
			p.errorf("row %d: fips raw=%q parsed=%q", i+2, row["fips"], c.FIPS)
		}
		if row["state"] != c.State || row["county"] != c.County {
			p.errorf("row %d: state/county mismatch %q/%q vs %q/%q", i+2, row["state"], row["county"], c.State, c.County)
		}
		if row["income-2015"] == "" && c.Income2015 != nil {
			p.errorf("row %d: empty income-2015 parsed as %v", i+2, *c.Income2015)
		}
	}
	return p
}

// ── Phase 2: medians ──

func validateMedians(view domain.View) *phase {
	p := &phase{name: "State medians"}

	byState := make(map[string][]float64)
	seen := make(map[string]bool)
	for _, c := range view.Counties {
		if c.State == "" {
			continue
		}
		seen[c.State] = true
		if c.Income2015 != nil {
			byState[c.State] = append(byState[c.State], *c.Income2015)
		}
	}

	if len(view.Aggregates) != len(seen) {
		p.errorf("aggregate count: got %d, want %d distinct states", len(view.Aggregates), len(seen))
	}
	for _, agg := range view.Aggregates {
		want, ok := referenceMedian(byState[agg.State])
		switch {
		case !ok && agg.MedianIncome2015 != nil:
			p.errorf("%s: all 2015 incomes missing but median is %v", agg.State, *agg.MedianIncome2015)
		case ok && agg.MedianIncome2015 == nil:
			p.errorf("%s: median missing, want %v", agg.State, want)
		case ok && *agg.MedianIncome2015 != want:
			p.errorf("%s: median %v, want %v", agg.State, *agg.MedianIncome2015, want)
		}
	}
	return p
}

func referenceMedian(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v := append([]float64(nil), values...)
	sort.Float64s(v)
	mid := len(v) / 2
	if len(v)%2 == 1 {
		return v[mid], true
	}
	return (v[mid-1] + v[mid]) / 2, true
}

// ── Phase 3: join ──

func validateJoin(view domain.View, polygons []domain.StatePolygon, abbrevs []domain.StateAbbrev) *phase {
	p := &phase{name: "Join completeness"}

	codes := make(map[string]string, len(abbrevs))
	for _, a := range abbrevs {
		if _, ok := codes[a.Name]; !ok {
			codes[a.Name] = a.Alpha2
		}
	}
	aggs := make(map[string]bool, len(view.Aggregates))
	for _, a := range view.Aggregates {
		aggs[a.State] = true
	}

	var want []string
	seen := make(map[string]bool)
	for _, poly := range polygons {
		if _, ok := codes[poly.Name]; !ok || seen[poly.Name] {
			continue
		}
		seen[poly.Name] = true
		want = append(want, poly.Name)
	}

	got := make([]string, len(view.States))
	for i, s := range view.States {
		got[i] = s.Name
		if s.Alpha2 != codes[s.Name] {
			p.errorf("%s: alpha-2 %q, want %q", s.Name, s.Alpha2, codes[s.Name])
		}
		if aggs[s.Alpha2] != (s.Aggregate != nil) {
			p.errorf("%s: aggregate presence %t, county data present %t", s.Name, s.Aggregate != nil, aggs[s.Alpha2])
		}
		if s.Geometry == nil {
			p.errorf("%s: missing geometry", s.Name)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		p.errorf("joined states differ from polygon order (-want +got):\n%s", diff)
	}
	return p
}

// ── Phase 4: determinism ──

func validateDeterminism(src domain.Sources, first domain.View) *phase {
	p := &phase{name: "Deterministic output"}

	second, err := domain.ComputeView(src)
	if err != nil {
		p.errorf("second computation failed: %v", err)
		return p
	}
	a, errA := json.Marshal(first.States)
	b, errB := json.Marshal(second.States)
	if errA != nil || errB != nil {
		p.errorf("marshal states: %v %v", errA, errB)
		return p
	}
	if !bytes.Equal(a, b) {
		p.errorf("state views differ between identical computations")
	}
	if first.Digest != second.Digest {
		p.errorf("digest differs: %s vs %s", first.Digest, second.Digest)
	}
	if diff := cmp.Diff(first.Summary, second.Summary); diff != "" {
		p.errorf("summary differs (-first +second):\n%s", diff)
	}
	return p
}

// ── Phase 5: color scale ──

func validateColorScale(view domain.View) *phase {
	p := &phase{name: "Color scale"}

	scale := view.Scale
	if !scale.HasData {
		if view.Summary.StatesWithData > 0 {
			p.errorf("scale has no data but %d states do", view.Summary.StatesWithData)
		}
		return p
	}
	if scale.Min > scale.Max {
		p.errorf("inverted domain [%v, %v]", scale.Min, scale.Max)
	}

	first := scale.Anchors[0].Hex()
	last := scale.Anchors[len(scale.Anchors)-1].Hex()
	for _, s := range view.States {
		fill := view.Fill(s)
		v := s.MedianIncome2015()
		switch {
		case v == nil:
			if fill != domain.NoDataFill {
				p.errorf("%s: no data but fill %q", s.Name, fill)
			}
			continue
		case !hexColor.MatchString(fill):
			p.errorf("%s: fill %q is not a hex color", s.Name, fill)
		case *v == scale.Min && fill != first:
			p.errorf("%s: minimum state fill %q, want %q", s.Name, fill, first)
		case *v == scale.Max && scale.Max != scale.Min && fill != last:
			p.errorf("%s: maximum state fill %q, want %q", s.Name, fill, last)
		}
	}
	return p
}

// ── Phase 6: selection ──

func validateSelection(view domain.View) *phase {
	p := &phase{name: "State selection"}

	for _, name := range view.StateNames() {
		sel := domain.Select(view, name)
		if !sel.Found {
			p.errorf("%s: listed but not selectable", name)
			continue
		}
		for i, c := range sel.Counties {
			if c.State != sel.Alpha2 {
				p.errorf("%s: county %s belongs to %s", name, c.County, c.State)
			}
			if c.Income2015 == nil || c.Income1989 == nil {
				p.errorf("%s: county %s has missing income", name, c.County)
				continue
			}
			if i > 0 && *sel.Counties[i-1].Income2015 < *c.Income2015 {
				p.errorf("%s: counties not sorted by 2015 income at %s", name, c.County)
			}
		}
	}

	miss := domain.Select(view, "\x00no such state")
	if miss.Found || len(miss.Counties) != 0 {
		p.errorf("unknown state name returned %d counties", len(miss.Counties))
	}
	return p
}
