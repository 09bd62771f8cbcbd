package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/core/ports"
	"github.com/sabinstha/khojdeal/internal/core/query"
	"github.com/sabinstha/khojdeal/internal/core/usecases"
	"github.com/sabinstha/khojdeal/internal/pkg/eventbus"
)

type fakeGateway struct {
	res  *domain.SearchResult
	err  error
	last *query.Descriptor
}

func (g *fakeGateway) Search(ctx context.Context, desc *query.Descriptor) (*domain.SearchResult, error) {
	g.last = desc
	if g.err != nil {
		return nil, g.err
	}
	return g.res, nil
}

type fakeCache struct {
	data map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func newTestApp(gw *fakeGateway, cache *fakeCache) (*fiber.App, *Dependencies) {
	bus := eventbus.New()
	deps := &Dependencies{
		Search:    usecases.NewSearchService(nil, gw, cache),
		Bookmarks: usecases.NewBookmarkService(bus),
		Bus:       bus,
		Cache:     cache,
	}

	app := fiber.New()
	app.Get("/v1/search", SearchHandler(deps))
	app.Post("/v1/bookmarks", BookmarkHandler(deps))
	app.Post("/v1/location/refresh", RefreshLocationHandler(deps))
	return app, deps
}

func TestSearchHandler_OK(t *testing.T) {
	gw := &fakeGateway{res: &domain.SearchResult{
		Restaurants: []domain.Restaurant{{ID: 1, Name: "Newa Ghar"}},
		Pagination:  domain.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1},
	}}
	app, _ := newTestApp(gw, &fakeCache{data: map[string][]byte{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/search?query=newari&showType=restaurants&distance=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Stale-Results") != "" {
		t.Error("fresh results must not carry the stale header")
	}

	var body domain.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Restaurants) != 1 || body.Restaurants[0].Name != "Newa Ghar" {
		t.Errorf("unexpected body: %+v", body)
	}

	if gw.last == nil {
		t.Fatal("gateway not called")
	}
	if gw.last.ShowType != domain.ShowRestaurants {
		t.Errorf("showType = %s", gw.last.ShowType)
	}
	if gw.last.DistanceKm == nil || *gw.last.DistanceKm != 5 {
		t.Errorf("distance not forwarded: %v", gw.last.DistanceKm)
	}
}

func TestSearchHandler_OmittedDistanceStaysNil(t *testing.T) {
	gw := &fakeGateway{res: &domain.SearchResult{}}
	app, _ := newTestApp(gw, &fakeCache{data: map[string][]byte{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if gw.last.DistanceKm != nil {
		t.Errorf("absent distance param must not become a value, got %v", *gw.last.DistanceKm)
	}
}

func TestSearchHandler_BadParams(t *testing.T) {
	cases := []string{
		"/v1/search?distance=abc",
		"/v1/search?distance=-3",
		"/v1/search?cuisineIds=1,x",
		"/v1/search?showType=nearby",
		"/v1/search?sortBy=price",
	}

	for _, url := range cases {
		app, _ := newTestApp(&fakeGateway{res: &domain.SearchResult{}}, &fakeCache{data: map[string][]byte{}})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
		if err != nil {
			t.Fatalf("%s: %v", url, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, resp.StatusCode)
		}
	}
}

func TestSearchHandler_StaleFallback(t *testing.T) {
	cache := &fakeCache{data: map[string][]byte{}}
	gw := &fakeGateway{res: &domain.SearchResult{Deals: []domain.Deal{{ID: 1, Title: "set lunch"}}}}
	app, _ := newTestApp(gw, cache)

	// Warm the cache, then break the network.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/search?query=lunch", nil))
	if err != nil {
		t.Fatalf("warmup: %v", err)
	}
	resp.Body.Close()
	gw.err = errors.New("connection refused")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/v1/search?query=lunch", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 from cache", resp.StatusCode)
	}
	if resp.Header.Get("X-Stale-Results") != "true" {
		t.Error("cache-fallback response must carry X-Stale-Results: true")
	}
}

func TestSearchHandler_Unavailable(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	app, _ := newTestApp(gw, &fakeCache{data: map[string][]byte{}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestBookmarkHandler_PublishesToBus(t *testing.T) {
	app, deps := newTestApp(&fakeGateway{res: &domain.SearchResult{}}, &fakeCache{data: map[string][]byte{}})

	var got domain.BookmarkEvent
	deps.Bus.Subscribe(func(ev domain.BookmarkEvent) { got = ev })

	body := `{"entity_id":7,"entity_type":"deal","bookmarked":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/bookmarks", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, b)
	}
	want := domain.BookmarkEvent{EntityID: 7, EntityType: domain.EntityDeal, Bookmarked: true}
	if got != want {
		t.Errorf("bus event = %+v, want %+v", got, want)
	}
}

func TestBookmarkHandler_Validation(t *testing.T) {
	cases := []string{
		`{"entity_id":0,"entity_type":"deal","bookmarked":true}`,
		`{"entity_id":1,"entity_type":"cuisine","bookmarked":true}`,
		`not json`,
	}

	for _, body := range cases {
		app, _ := newTestApp(&fakeGateway{res: &domain.SearchResult{}}, &fakeCache{data: map[string][]byte{}})
		req := httptest.NewRequest(http.MethodPost, "/v1/bookmarks", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("3, 1,2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("ids = %v", ids)
	}

	if ids, err := parseIDList(""); err != nil || ids != nil {
		t.Errorf("empty input should yield nil, got %v, %v", ids, err)
	}
	if _, err := parseIDList("1,abc"); err == nil {
		t.Error("non-integer input should fail")
	}
}
