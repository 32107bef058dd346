package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/county-income-map/internal/domain"
	"github.com/couchcryptid/county-income-map/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves one document by location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Locations names where each source document lives.
type Locations struct {
	Counties string
	States   string
	Abbrevs  string
}

// Loader fetches the three source documents. It implements pipeline.SourceLoader.
type Loader struct {
	fetcher   Fetcher
	locations Locations
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLoader creates a Loader for the given locations.
func NewLoader(f Fetcher, locations Locations, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher:   f,
		locations: locations,
		logger:    logger,
		metrics:   metrics,
	}
}

// Load fetches all three documents concurrently. If any fetch fails the whole
// load fails with a *domain.LoadError naming that source.
func (l *Loader) Load(ctx context.Context) (domain.Sources, error) {
	var src domain.Sources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := l.fetch(gctx, domain.SourceCounties, l.locations.Counties)
		src.Counties = data
		return err
	})
	g.Go(func() error {
		data, err := l.fetch(gctx, domain.SourceStates, l.locations.States)
		src.States = data
		return err
	})
	g.Go(func() error {
		data, err := l.fetch(gctx, domain.SourceAbbrevs, l.locations.Abbrevs)
		src.Abbrevs = data
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Sources{}, err
	}
	return src, nil
}

func (l *Loader) fetch(ctx context.Context, name, location string) ([]byte, error) {
	start := time.Now()
	data, err := l.fetcher.Fetch(ctx, location)
	l.metrics.SourceFetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.SourceFetches.WithLabelValues(name, "error").Inc()
		l.logger.Error("source fetch failed", "source", name, "location", location, "error", err)
		return nil, &domain.LoadError{Source: name, Location: location, Err: err}
	}

	l.metrics.SourceFetches.WithLabelValues(name, "success").Inc()
	l.metrics.SourceBytes.WithLabelValues(name).Set(float64(len(data)))
	l.logger.Debug("source fetched", "source", name, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}
