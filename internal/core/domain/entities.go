package domain

import (
	"time"
)

// Restaurant represents a listed restaurant.
type Restaurant struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	CuisineIDs []int     `json:"cuisine_ids,omitempty"`
	Rating     *float64  `json:"rating,omitempty"`
	Location   *GeoPoint `json:"location,omitempty"`
	DistanceKm *float64  `json:"distance_km,omitempty"` // computed field
	Bookmarked bool      `json:"bookmarked"`
	CreatedAt  time.Time `json:"created_at"`
}

// Deal represents a time-limited offer published by a restaurant.
type Deal struct {
	ID              int        `json:"id"`
	RestaurantID    int        `json:"restaurant_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Price           float64    `json:"price"`
	DiscountPercent float64    `json:"discount_percent,omitempty"`
	CuisineIDs      []int      `json:"cuisine_ids,omitempty"`
	DietaryIDs      []int      `json:"dietary_ids,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	Bookmarked      bool       `json:"bookmarked"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Pagination contains page-based pagination info as returned by the
// marketplace endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// SearchResult is the merged, annotated outcome of a search. Stale is set
// when the data was served from the result cache after a network failure.
type SearchResult struct {
	Restaurants []Restaurant `json:"restaurants"`
	Deals       []Deal       `json:"deals"`
	Pagination  Pagination   `json:"pagination"`
	Stale       bool         `json:"stale,omitempty"`
}
