package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/core/ports"
	"github.com/sabinstha/khojdeal/internal/core/query"
	"github.com/sabinstha/khojdeal/internal/pkg/geospatial"
	"github.com/sabinstha/khojdeal/internal/pkg/metrics"
)

// Search results stay usable as an offline fallback for a day.
const defaultCacheTTLSeconds = 24 * 60 * 60

// SearchService runs the search pipeline: resolve location, build the
// request descriptor, call the marketplace endpoint, annotate distances,
// cache the normalized result, and sort.
//
// Concurrent Search calls are independent; in-flight requests are not
// cancelled when a newer one starts. Callers that fire searches rapidly are
// responsible for discarding stale responses, e.g. by comparing a request
// sequence number.
type SearchService struct {
	locator ports.Locator
	gateway ports.SearchGateway
	cache   ports.CacheService
	ttl     int // seconds

	mu  sync.Mutex
	loc *domain.GeoPoint // memoized for the service lifetime
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithCacheTTL overrides the fallback-cache TTL.
func WithCacheTTL(ttlMinutes int) SearchOption {
	return func(s *SearchService) {
		if ttlMinutes >= 0 {
			s.ttl = ttlMinutes * 60
		}
	}
}

// NewSearchService creates a SearchService. locator and cache may be nil;
// the descriptor then omits coordinates and failures have no fallback.
func NewSearchService(locator ports.Locator, gateway ports.SearchGateway, cache ports.CacheService, opts ...SearchOption) *SearchService {
	s := &SearchService{
		locator: locator,
		gateway: gateway,
		cache:   cache,
		ttl:     defaultCacheTTLSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search executes one search for the given filter state and page.
//
// On network or decode failure a single cache-fallback read is attempted;
// the network attempt and the cache are never raced. Fallback results carry
// Stale=true so callers can indicate degraded freshness. When both fail the
// error wraps domain.ErrSearchUnavailable.
func (s *SearchService) Search(ctx context.Context, f domain.FilterState, page, limit int) (*domain.SearchResult, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	desc, err := query.Build(f, s.location(ctx), page, limit)
	if err != nil {
		return nil, err
	}
	key := desc.CacheKey()

	res, err := s.gateway.Search(ctx, desc)
	if err == nil {
		s.annotateDistances(res, desc.Location)
		res.Sort(desc.SortBy)
		s.store(ctx, key, res)
		metrics.SearchesTotal.WithLabelValues("ok").Inc()
		return res, nil
	}

	// The calling view went away; a fallback would be discarded anyway.
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	slog.Warn("search request failed, trying cache", "error", err)
	if cached := s.fallback(ctx, key); cached != nil {
		cached.Stale = true
		metrics.SearchesTotal.WithLabelValues("stale").Inc()
		metrics.CacheFallbacks.Inc()
		return cached, nil
	}

	metrics.SearchesTotal.WithLabelValues("error").Inc()
	return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
}

// RefreshLocation discards the memoized coordinate and resolves again.
func (s *SearchService) RefreshLocation(ctx context.Context) domain.GeoPoint {
	s.mu.Lock()
	s.loc = nil
	s.mu.Unlock()
	p := s.location(ctx)
	if p == nil {
		return domain.GeoPoint{}
	}
	return *p
}

// location returns the memoized coordinate, resolving it on first use.
// Re-resolving on every search would be wasteful; the locator already
// degrades to a fallback coordinate, so one resolution per session is fine.
func (s *SearchService) location(ctx context.Context) *domain.GeoPoint {
	if s.locator == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loc == nil {
		p := s.locator.CurrentLocation(ctx)
		s.loc = &p
	}
	return s.loc
}

// annotateDistances computes great-circle distances for restaurants.
// Deals are never annotated: distance filtering and ranking is a
// restaurant-only marketplace rule. Entities without a usable location keep
// a nil distance; sentinel zeros are never substituted.
func (s *SearchService) annotateDistances(res *domain.SearchResult, from *domain.GeoPoint) {
	if from == nil {
		return
	}
	for i := range res.Restaurants {
		loc := res.Restaurants[i].Location
		if loc == nil || !loc.Valid() {
			continue
		}
		d := geospatial.DistanceKm(from.Lat, from.Lon, loc.Lat, loc.Lon)
		res.Restaurants[i].DistanceKm = &d
	}
}

// store caches the normalized result. Cache failures are invisible to
// callers; the cache is best-effort by contract.
func (s *SearchService) store(ctx context.Context, key string, res *domain.SearchResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.Debug("search cache store failed", "error", err)
	}
}

// fallback attempts a single cache read. A miss, an unavailable backend and
// an undecodable payload all come back nil.
func (s *SearchService) fallback(ctx context.Context, key string) *domain.SearchResult {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var res domain.SearchResult
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Debug("search cache payload undecodable", "error", err)
		return nil
	}
	return &res
}
