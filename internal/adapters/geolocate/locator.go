// Package geolocate resolves the user's position through an IP-geolocation
// provider. It implements ports.Locator: one attempt per call, a hard
// internal timeout, and a fixed fallback coordinate instead of an error.
package geolocate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

const (
	defaultTimeout = 3 * time.Second

	// Central Kathmandu. Substituted whenever the provider is unreachable,
	// denies the lookup, or exceeds the timeout.
	FallbackLat = 27.7172
	FallbackLon = 85.3240
)

// providerResponse is the ip-api.com style JSON payload.
type providerResponse struct {
	Status string  `json:"status"` // "success" | "fail"
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Locator queries a geolocation provider over HTTP.
type Locator struct {
	http     *http.Client
	url      string
	timeout  time.Duration
	fallback domain.GeoPoint
}

// Option configures a Locator.
type Option func(*Locator)

// WithTimeout overrides the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Locator) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithFallback overrides the fallback coordinate.
func WithFallback(p domain.GeoPoint) Option {
	return func(l *Locator) {
		if p.Valid() {
			l.fallback = p
		}
	}
}

// New creates a Locator for the given provider URL.
func New(url string, opts ...Option) *Locator {
	l := &Locator{
		http:     &http.Client{},
		url:      url,
		timeout:  defaultTimeout,
		fallback: domain.GeoPoint{Lat: FallbackLat, Lon: FallbackLon},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fallback returns the coordinate substituted when the lookup fails.
func (l *Locator) Fallback() domain.GeoPoint {
	return l.fallback
}

// CurrentLocation makes a single lookup attempt and returns the resolved
// coordinate, or the fallback on any failure. It never blocks past the
// configured timeout and never returns an error: geolocation being
// unavailable is recovered here, not surfaced to callers.
func (l *Locator) CurrentLocation(ctx context.Context) domain.GeoPoint {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		slog.Warn("geolocate request build failed", "error", err)
		return l.fallback
	}

	resp, err := l.http.Do(req)
	if err != nil {
		slog.Debug("geolocate lookup failed, using fallback", "error", err)
		return l.fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("geolocate provider status, using fallback", "status", resp.StatusCode)
		return l.fallback
	}

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		slog.Debug("geolocate decode failed, using fallback", "error", err)
		return l.fallback
	}

	p := domain.GeoPoint{Lat: pr.Lat, Lon: pr.Lon}
	if pr.Status != "success" || !p.Valid() {
		return l.fallback
	}
	return p
}
