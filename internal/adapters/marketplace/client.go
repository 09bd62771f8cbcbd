// Package marketplace is the REST client for the collaborator search
// endpoint. It shapes requests from descriptors and normalizes the response
// envelope; ranking and caching live in the usecases layer.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/core/query"
)

const (
	defaultTimeout = 10 * time.Second
	defaultUA      = "khojdeal-client"
)

// Options configures the Client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client is a minimal marketplace REST client. It never retries: retry is a
// caller concern, and the search usecase falls back to its cache instead.
type Client struct {
	http *http.Client
	opts Options
}

// NewClient creates a Client with sane defaults.
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
	}
}

// Search issues one paginated search request. The context cancels the
// request when the calling view unmounts mid-flight.
func (c *Client) Search(ctx context.Context, desc *query.Descriptor) (*domain.SearchResult, error) {
	url := c.opts.BaseURL + "/v1/search?" + desc.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace new request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("marketplace search: status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("marketplace decode: %w", err)
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("marketplace search failed: %s", env.Error)
	}

	return &domain.SearchResult{
		Restaurants: env.Data.Restaurants,
		Deals:       env.Data.Deals,
		Pagination:  env.Data.Pagination,
	}, nil
}

// Relay notifies the marketplace of a bookmark toggle. Best-effort: the
// local optimistic state is already published before this is called.
func (c *Client) Relay(ctx context.Context, ev domain.BookmarkEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.opts.BaseURL+"/v1/bookmarks", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("marketplace new request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("marketplace bookmark: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("marketplace bookmark: status %d", resp.StatusCode)
	}
	return nil
}
