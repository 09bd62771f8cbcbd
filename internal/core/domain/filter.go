package domain

import (
	"fmt"
	"strings"
)

// ShowType restricts which result arrays a search should contain.
type ShowType string

const (
	ShowAll         ShowType = "all"
	ShowRestaurants ShowType = "restaurants"
	ShowDeals       ShowType = "deals"
)

// SortBy selects the result ordering.
type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortRating    SortBy = "rating"
)

// FilterState is the user-selected search criteria for a single view.
// A working copy is edited locally and only committed on explicit
// confirmation; it is never persisted across sessions.
//
// Cuisine and dietary filters apply to deals, the distance filter applies to
// restaurants. That asymmetry is a marketplace rule enforced upstream; the
// engine passes all filters through uninterpreted.
type FilterState struct {
	Query      string   `json:"query"`
	DistanceKm *float64 `json:"distance_km,omitempty"` // nil means no distance filter
	CuisineIDs []int    `json:"cuisine_ids,omitempty"`
	DietaryIDs []int    `json:"dietary_ids,omitempty"`
	ShowType   ShowType `json:"show_type"`
	SortBy     SortBy   `json:"sort_by"`
}

const maxQueryLen = 200

// Validate rejects filter states that must never reach the network.
// All violations wrap ErrMalformedFilter.
func (f FilterState) Validate() error {
	if f.DistanceKm != nil && *f.DistanceKm <= 0 {
		return fmt.Errorf("%w: distance must be positive, got %v", ErrMalformedFilter, *f.DistanceKm)
	}
	if len(strings.TrimSpace(f.Query)) > maxQueryLen {
		return fmt.Errorf("%w: query too long (max %d characters)", ErrMalformedFilter, maxQueryLen)
	}
	switch f.ShowType {
	case "", ShowAll, ShowRestaurants, ShowDeals:
	default:
		return fmt.Errorf("%w: unknown show type %q", ErrMalformedFilter, f.ShowType)
	}
	switch f.SortBy {
	case "", SortRelevance, SortRating:
	default:
		return fmt.Errorf("%w: unknown sort %q", ErrMalformedFilter, f.SortBy)
	}
	for _, id := range f.CuisineIDs {
		if id <= 0 {
			return fmt.Errorf("%w: cuisine id must be positive, got %d", ErrMalformedFilter, id)
		}
	}
	for _, id := range f.DietaryIDs {
		if id <= 0 {
			return fmt.Errorf("%w: dietary id must be positive, got %d", ErrMalformedFilter, id)
		}
	}
	return nil
}
