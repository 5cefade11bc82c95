// Package pipeline composes the upstream client, normalizer, cache, and
// post-processor into the single "get items for these query parameters"
// operation consumed by the HTTP route layer.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shopgrid/storefront/pkg/cache"
	"github.com/shopgrid/storefront/pkg/catalog"
	"github.com/shopgrid/storefront/pkg/ebay"
	"github.com/shopgrid/storefront/pkg/query"
)

var pipelineRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_pipeline_requests_total",
	Help: "Total pipeline requests by item source",
}, []string{"source"}) // "cache", "upstream", "degraded"

// ErrConfigMissing is returned when the deployment configuration lacks the
// app credential or store name required for a live fetch.
var ErrConfigMissing = errors.New("missing app ID or store name")

// DefaultTTL is the cache TTL used when none is configured.
const DefaultTTL = 10 * time.Minute

// Searcher is the upstream dependency of the pipeline.
type Searcher interface {
	Search(ctx context.Context, req ebay.SearchRequest) (*ebay.Envelope, error)
}

// Config holds the deployment configuration for the pipeline.
type Config struct {
	// AppID is the Finding API application credential (REQUIRED).
	AppID string

	// StoreName identifies the store whose listings are served (REQUIRED).
	StoreName string

	// GlobalID is the marketplace site identifier. Defaults to "EBAY-US".
	GlobalID string

	// TTL is how long a fetched base set stays fresh. Defaults to DefaultTTL.
	TTL time.Duration
}

// Pipeline serves filtered, sorted item lists backed by a TTL cache.
type Pipeline struct {
	cfg      Config
	upstream Searcher
	store    cache.Store
	logger   zerolog.Logger
}

// New creates a pipeline. Credentials are validated per call, not here, so a
// misconfigured deployment still starts and surfaces the error per request.
func New(cfg Config, upstream Searcher, store cache.Store) *Pipeline {
	if cfg.GlobalID == "" {
		cfg.GlobalID = "EBAY-US"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	return &Pipeline{
		cfg:      cfg,
		upstream: upstream,
		store:    store,
		logger:   log.With().Str("component", "pipeline").Logger(),
	}
}

// GetItems returns the store's listings with the request's filters and sort
// applied.
//
// The cache holds the unfiltered normalized base set in the upstream's
// best-match order; filtering and sorting are re-applied per request on top
// of it. On a miss the base set is fetched, normalized, and cached. Upstream
// failures degrade to an empty list so the rendering layer always receives a
// valid result; only missing configuration is a hard error.
func (p *Pipeline) GetItems(ctx context.Context, params query.Params) ([]catalog.Item, error) {
	if p.cfg.AppID == "" || p.cfg.StoreName == "" {
		return nil, ErrConfigMissing
	}

	key := cache.Key{Store: p.cfg.StoreName, Site: p.cfg.GlobalID}

	base, err := p.store.Get(ctx, key)
	if err == nil {
		pipelineRequestsTotal.WithLabelValues("cache").Inc()
		return query.Apply(base, params), nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		p.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
	}

	env, err := p.upstream.Search(ctx, ebay.SearchRequest{
		StoreName: p.cfg.StoreName,
		GlobalID:  p.cfg.GlobalID,
	})
	if err != nil {
		p.logger.Error().Err(err).
			Str("store", p.cfg.StoreName).
			Msg("Upstream fetch failed, serving empty list")
		pipelineRequestsTotal.WithLabelValues("degraded").Inc()
		return []catalog.Item{}, nil
	}

	base = catalog.Normalize(env)

	if err := p.store.Set(ctx, key, base, p.cfg.TTL); err != nil {
		p.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache set error")
	} else {
		p.logger.Debug().
			Str("key", key.String()).
			Int("items", len(base)).
			Dur("ttl", p.cfg.TTL).
			Msg("Cached base item set")
	}

	pipelineRequestsTotal.WithLabelValues("upstream").Inc()
	return query.Apply(base, params), nil
}
