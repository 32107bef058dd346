// Command fetchsources downloads the three source documents (county incomes,
// state polygons, state abbreviations) into a directory so the service and
// the validate command can run against a local snapshot. The snapshot is
// parsed and joined before anything is written, so a broken upstream never
// replaces a good snapshot.
//
// Usage:
//
//	go run ./cmd/fetchsources -out data/snapshot
//
// Point the service at the snapshot with:
//
//	INCOME_SOURCE_URL=data/snapshot/income_counties.csv \
//	STATES_SOURCE_URL=data/snapshot/us_states.json \
//	ABBREV_SOURCE_URL=data/snapshot/state_abbrevs.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/county-income-map/internal/adapter/source"
	"github.com/couchcryptid/county-income-map/internal/config"
	"github.com/couchcryptid/county-income-map/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// Snapshot file names, matching data/mock.
const (
	countiesFile = "income_counties.csv"
	statesFile   = "us_states.json"
	abbrevsFile  = "state_abbrevs.json"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "directory to write the snapshot into")
	counties := flag.String("counties", config.DefaultIncomeSourceURL, "county income CSV location")
	states := flag.String("states", config.DefaultStatesSourceURL, "state polygons GeoJSON location")
	abbrevs := flag.String("abbrevs", config.DefaultAbbrevSourceURL, "state abbreviations JSON location")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	retries := flag.Int("retries", 3, "retries per document on transient failures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	logger := sharedobs.NewLogger(*logLevel, "text")
	client := source.NewClient(*timeout, *retries, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var src domain.Sources
	docs := []struct {
		name     string
		location string
		dst      *[]byte
	}{
		{domain.SourceCounties, *counties, &src.Counties},
		{domain.SourceStates, *states, &src.States},
		{domain.SourceAbbrevs, *abbrevs, &src.Abbrevs},
	}
	for _, d := range docs {
		data, err := client.Fetch(ctx, d.location)
		if err != nil {
			return &domain.LoadError{Source: d.name, Location: d.location, Err: err}
		}
		*d.dst = data
		log.Printf("%s: %d bytes from %s", d.name, len(data), d.location)
	}

	view, err := domain.ComputeView(src)
	if err != nil {
		return fmt.Errorf("snapshot does not parse: %w", err)
	}
	log.Printf("parsed: %d counties, %d states, %d without data, %d unmatched polygons",
		len(view.Counties), len(view.States), view.Summary.StatesNoData, len(view.Join.Unmatched))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	files := map[string][]byte{
		countiesFile: src.Counties,
		statesFile:   src.States,
		abbrevsFile:  src.Abbrevs,
	}
	for name, data := range files {
		path := filepath.Join(*out, name)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // snapshot files are not secret
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	log.Printf("snapshot %s written to %s", view.Digest[:12], *out)
	return nil
}
