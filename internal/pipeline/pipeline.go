package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/county-income-map/internal/domain"
	"github.com/couchcryptid/county-income-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// SourceLoader fetches the three source documents.
type SourceLoader interface {
	Load(ctx context.Context) (domain.Sources, error)
}

// Publisher receives every newly computed view.
type Publisher interface {
	Publish(ctx context.Context, view domain.View) error
}

// Options tunes view caching.
type Options struct {
	// CacheTTL is how long the latest view is served without refetching the
	// sources. Zero refetches on every call.
	CacheTTL time.Duration
	// CacheSize bounds the number of views kept by source digest.
	CacheSize int
	// Clock stamps ComputedAt and measures CacheTTL. Defaults to the real clock.
	Clock clockwork.Clock
}

// Pipeline turns source documents into views: load, then compute unless a
// view for the same source digest is already cached.
type Pipeline struct {
	loader    SourceLoader
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	ttl       time.Duration
	cache     *viewCache
	group     singleflight.Group
	ready     atomic.Bool

	mu        sync.Mutex
	latest    *domain.View
	fetchedAt time.Time
}

// New creates a Pipeline. A nil publisher disables publishing.
func New(loader SourceLoader, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		loader:    loader,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		ttl:       opts.CacheTTL,
		cache:     newViewCache(opts.CacheSize),
	}
}

// CheckReadiness returns nil once a view has been computed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no view has been computed yet")
	}
	return nil
}

// View returns the current view. Concurrent callers share a single load,
// which is detached from any one caller's cancellation and bounded by the
// fetch timeout instead. A caller whose context ends stops waiting and gets
// ctx.Err(). A load or parse failure returns a *domain.LoadError and no view.
func (p *Pipeline) View(ctx context.Context) (domain.View, error) {
	if view, ok := p.fresh(); ok {
		p.metrics.ViewRequests.WithLabelValues("reused").Inc()
		return view, nil
	}

	ch := p.group.DoChan("view", func() (any, error) {
		return p.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return domain.View{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.View{}, res.Err
		}
		return res.Val.(domain.View), nil
	}
}

// Select resolves a state name against the current view.
func (p *Pipeline) Select(ctx context.Context, name string) (domain.StateSelection, error) {
	view, err := p.View(ctx)
	if err != nil {
		return domain.StateSelection{}, err
	}
	return domain.Select(view, name), nil
}

// Warm computes the first view so readiness flips before the first request.
func (p *Pipeline) Warm(ctx context.Context) {
	if _, err := p.View(ctx); err != nil {
		p.logger.Warn("initial view computation failed", "error", err)
	}
}

func (p *Pipeline) fresh() (domain.View, bool) {
	if p.ttl <= 0 {
		return domain.View{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil || p.clock.Since(p.fetchedAt) >= p.ttl {
		return domain.View{}, false
	}
	return *p.latest, true
}

func (p *Pipeline) refresh(ctx context.Context) (domain.View, error) {
	src, err := p.loader.Load(ctx)
	if err != nil {
		p.metrics.ViewRequests.WithLabelValues("error").Inc()
		return domain.View{}, err
	}
	fetchedAt := p.clock.Now()

	view, ok := p.cache.get(src.Digest())
	if ok {
		p.metrics.ViewRequests.WithLabelValues("hit").Inc()
	} else {
		view, err = p.compute(src)
		if err != nil {
			p.metrics.ViewRequests.WithLabelValues("error").Inc()
			return domain.View{}, err
		}
		p.metrics.ViewRequests.WithLabelValues("miss").Inc()
		p.cache.put(view)
		p.publish(ctx, view)
	}

	p.mu.Lock()
	p.latest = &view
	p.fetchedAt = fetchedAt
	p.mu.Unlock()
	p.ready.Store(true)
	return view, nil
}

func (p *Pipeline) compute(src domain.Sources) (domain.View, error) {
	start := time.Now()
	view, err := domain.ComputeView(src)
	if err != nil {
		p.logger.Error("compute view failed", "error", err)
		return domain.View{}, err
	}
	view.ComputedAt = p.clock.Now()
	p.metrics.ViewComputeDuration.Observe(time.Since(start).Seconds())

	p.metrics.CountiesLoaded.Set(float64(len(view.Counties)))
	p.metrics.StatesJoined.Set(float64(len(view.States)))
	p.metrics.StatesWithoutData.Set(float64(view.Summary.StatesNoData))

	p.logger.Info("view computed",
		"digest", view.Digest[:12],
		"counties", len(view.Counties),
		"aggregates", len(view.Aggregates),
		"states", len(view.States),
		"states_without_data", view.Summary.StatesNoData,
	)
	if len(view.Join.Unmatched) > 0 || len(view.Join.OrphanAggregates) > 0 {
		p.logger.Debug("join dropped rows",
			"unmatched_polygons", view.Join.Unmatched,
			"orphan_aggregates", view.Join.OrphanAggregates,
		)
	}
	if len(view.Join.DuplicatePolygons) > 0 || len(view.Join.DuplicateAbbrevs) > 0 {
		p.logger.Warn("duplicate state names in sources, first entry kept",
			"polygons", view.Join.DuplicatePolygons,
			"abbrevs", view.Join.DuplicateAbbrevs,
		)
	}
	return view, nil
}

// publish hands a new view to the publisher. Failures are logged and counted
// but never fail the request.
func (p *Pipeline) publish(ctx context.Context, view domain.View) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, view); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish snapshot failed", "error", err, "digest", view.Digest[:12])
		return
	}
	p.metrics.SnapshotsPublished.Add(float64(len(view.States)))
}
