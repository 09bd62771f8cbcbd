// Package query normalizes a FilterState into the request descriptor sent to
// the marketplace search endpoint. The descriptor's canonical string form
// doubles as the result-cache key, so equivalent filter sets must always
// serialize identically.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

// cacheSchemaVersion tags cache keys so a change to the cached payload shape
// invalidates old entries instead of deserializing them silently.
const cacheSchemaVersion = "v1"

// Descriptor is the normalized, serializable form of a search request.
type Descriptor struct {
	Query          string           `json:"query,omitempty"`
	DistanceKm     *float64         `json:"distance_km,omitempty"`
	CuisineIDs     []int            `json:"cuisine_ids,omitempty"`
	DietaryIDs     []int            `json:"dietary_ids,omitempty"`
	ShowType       domain.ShowType  `json:"show_type"`
	SortBy         domain.SortBy    `json:"sort_by"`
	Location       *domain.GeoPoint `json:"location,omitempty"`
	Page           int              `json:"page"`
	Limit          int              `json:"limit"`
	HasActiveDeals bool             `json:"has_active_deals,omitempty"`
}

// Build validates the filter state and produces a descriptor.
//
// Normalization rules:
//   - the free-text query is trimmed; an empty query is omitted entirely
//   - ID sets are de-duplicated and sorted ascending, so {3,1,1,2} and
//     {1,2,3} produce identical descriptors and cache keys
//   - a nil distance means "no distance filter" and is omitted; it is never
//     sent as 0 (0 would mean "only the exact coincident location")
//   - coordinates are attached only once the locator has resolved; stale or
//     zero values are never substituted
func Build(f domain.FilterState, loc *domain.GeoPoint, page, limit int) (*Descriptor, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	showType := f.ShowType
	if showType == "" {
		showType = domain.ShowAll
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = domain.SortRelevance
	}

	d := &Descriptor{
		Query:      strings.TrimSpace(f.Query),
		DistanceKm: f.DistanceKm,
		CuisineIDs: normalizeIDs(f.CuisineIDs),
		DietaryIDs: normalizeIDs(f.DietaryIDs),
		ShowType:   showType,
		SortBy:     sortBy,
		Page:       page,
		Limit:      limit,
	}
	if loc != nil && loc.Valid() {
		p := *loc
		d.Location = &p
	}
	return d, nil
}

// Values renders the descriptor as the marketplace endpoint's query
// parameters. Absent filters are omitted, never sent as zero values.
func (d *Descriptor) Values() url.Values {
	v := url.Values{}
	if d.Query != "" {
		v.Set("query", d.Query)
	}
	v.Set("showType", string(d.ShowType))
	v.Set("sortBy", string(d.SortBy))
	v.Set("sortOrder", "desc")
	if d.Location != nil {
		v.Set("latitude", formatFloat(d.Location.Lat))
		v.Set("longitude", formatFloat(d.Location.Lon))
	}
	if d.DistanceKm != nil {
		v.Set("distance", formatFloat(*d.DistanceKm))
	}
	if len(d.CuisineIDs) > 0 {
		v.Set("cuisineIds", joinIDs(d.CuisineIDs))
	}
	if len(d.DietaryIDs) > 0 {
		v.Set("dietaryPreferenceIds", joinIDs(d.DietaryIDs))
	}
	v.Set("page", strconv.Itoa(d.Page))
	v.Set("limit", strconv.Itoa(d.Limit))
	if d.HasActiveDeals {
		v.Set("hasActiveDeals", "true")
	}
	return v
}

// CacheKey returns the canonical cache key for this descriptor.
// url.Values.Encode sorts by parameter name, so semantically identical
// requests always map to the same entry.
func (d *Descriptor) CacheKey() string {
	return "search:" + cacheSchemaVersion + ":" + d.Values().Encode()
}

func normalizeIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
