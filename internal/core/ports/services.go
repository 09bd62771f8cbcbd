package ports

import (
	"context"
	"errors"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/core/query"
)

// Locator resolves the user's position. Implementations make a single
// attempt with an internal timeout and fall back to a fixed coordinate on
// denial or failure; they never return an error.
type Locator interface {
	CurrentLocation(ctx context.Context) domain.GeoPoint
}

// SearchGateway is the collaborator marketplace search endpoint.
type SearchGateway interface {
	Search(ctx context.Context, desc *query.Descriptor) (*domain.SearchResult, error)
}

// ErrCacheMiss is returned by CacheService.Get when the key is absent or
// expired. Backends map their native not-found signal onto it so health
// checks can tell an empty cache from a broken one.
var ErrCacheMiss = errors.New("cache miss")

// CacheService provides best-effort result caching. Callers treat the cache
// as a fallback, never as a source of truth: the search path handles a miss
// and an unavailable backend identically.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// BookmarkPublisher fans a bookmark event out to in-process listeners.
type BookmarkPublisher interface {
	Publish(ev domain.BookmarkEvent)
}

// BookmarkRelay forwards bookmark events beyond the process boundary
// (message broker, connected clients). Best-effort.
type BookmarkRelay interface {
	Relay(ctx context.Context, ev domain.BookmarkEvent) error
}
