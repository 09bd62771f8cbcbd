package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

func TestBuild_CanonicalCacheKey(t *testing.T) {
	a := domain.FilterState{CuisineIDs: []int{3, 1, 1, 2}, DietaryIDs: []int{7, 7, 4}}
	b := domain.FilterState{CuisineIDs: []int{1, 2, 3}, DietaryIDs: []int{4, 7}}

	da, err := Build(a, nil, 1, 20)
	if err != nil {
		t.Fatalf("build a: %v", err)
	}
	db, err := Build(b, nil, 1, 20)
	if err != nil {
		t.Fatalf("build b: %v", err)
	}

	if da.CacheKey() != db.CacheKey() {
		t.Errorf("equivalent filter sets must share a cache key:\n%s\n%s", da.CacheKey(), db.CacheKey())
	}
}

func TestBuild_OmitsEmptyQuery(t *testing.T) {
	d, err := Build(domain.FilterState{Query: "   "}, nil, 1, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Values().Has("query") {
		t.Error("trimmed-empty query must be omitted, not sent as query=")
	}
}

func TestBuild_NilDistanceNeverSentAsZero(t *testing.T) {
	d, err := Build(domain.FilterState{}, nil, 1, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v := d.Values()
	if v.Has("distance") {
		t.Errorf("nil distance must be omitted entirely, got distance=%q", v.Get("distance"))
	}
	if strings.Contains(d.CacheKey(), "distance") {
		t.Errorf("cache key leaked an absent distance: %s", d.CacheKey())
	}
}

func TestBuild_RestaurantsScenario(t *testing.T) {
	dist := 5.0
	f := domain.FilterState{
		Query:      "",
		DistanceKm: &dist,
		CuisineIDs: nil,
		ShowType:   domain.ShowRestaurants,
	}

	d, err := Build(f, nil, 1, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	v := d.Values()
	if v.Has("query") {
		t.Error("empty query must be omitted")
	}
	if v.Has("cuisineIds") {
		t.Error("empty cuisine set must be omitted")
	}
	if got := v.Get("distance"); got != "5" {
		t.Errorf("expected distance=5, got %q", got)
	}
	if got := v.Get("showType"); got != "restaurants" {
		t.Errorf("expected showType=restaurants, got %q", got)
	}
}

func TestBuild_OmitsUnresolvedCoordinates(t *testing.T) {
	d, err := Build(domain.FilterState{}, nil, 1, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v := d.Values()
	if v.Has("latitude") || v.Has("longitude") {
		t.Error("coordinates must be omitted until the locator resolves")
	}

	loc := domain.GeoPoint{Lat: 27.7172, Lon: 85.3240}
	d2, err := Build(domain.FilterState{}, &loc, 1, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	v2 := d2.Values()
	if v2.Get("latitude") != "27.7172" || v2.Get("longitude") != "85.324" {
		t.Errorf("unexpected coordinates: lat=%q lon=%q", v2.Get("latitude"), v2.Get("longitude"))
	}
}

func TestBuild_InvalidCoordinatesDropped(t *testing.T) {
	loc := domain.GeoPoint{Lat: 120, Lon: 85}
	d, err := Build(domain.FilterState{}, &loc, 1, 20)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Location != nil {
		t.Error("out-of-range coordinates must not be attached")
	}
}

func TestBuild_RejectsMalformedFilters(t *testing.T) {
	neg := -2.0
	zero := 0.0
	cases := []domain.FilterState{
		{DistanceKm: &neg},
		{DistanceKm: &zero},
		{ShowType: "everything"},
		{SortBy: "price"},
		{CuisineIDs: []int{0}},
		{DietaryIDs: []int{-1}},
		{Query: strings.Repeat("a", 201)},
	}

	for i, f := range cases {
		if _, err := Build(f, nil, 1, 20); !errors.Is(err, domain.ErrMalformedFilter) {
			t.Errorf("case %d: expected ErrMalformedFilter, got %v", i, err)
		}
	}
}

func TestBuild_DefaultsAndClamps(t *testing.T) {
	d, err := Build(domain.FilterState{}, nil, 0, 9999)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if d.Page != 1 || d.Limit != 20 {
		t.Errorf("expected page=1 limit=20, got page=%d limit=%d", d.Page, d.Limit)
	}
	if d.ShowType != domain.ShowAll || d.SortBy != domain.SortRelevance {
		t.Errorf("expected defaults all/relevance, got %s/%s", d.ShowType, d.SortBy)
	}
}

func TestCacheKey_CarriesSchemaVersion(t *testing.T) {
	d, _ := Build(domain.FilterState{}, nil, 1, 20)
	if !strings.HasPrefix(d.CacheKey(), "search:v1:") {
		t.Errorf("cache key must carry the schema tag, got %s", d.CacheKey())
	}
}
