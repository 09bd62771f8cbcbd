package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

// SearchHandler runs the search pipeline for the query-parameter form of a
// FilterState. Stale (cache-fallback) results are flagged with the
// X-Stale-Results header so clients can indicate degraded freshness.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := domain.FilterState{
			Query:    c.Query("query"),
			ShowType: domain.ShowType(c.Query("showType", string(domain.ShowAll))),
			SortBy:   domain.SortBy(c.Query("sortBy", string(domain.SortRelevance))),
		}

		if raw := c.Query("distance"); raw != "" {
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return errBadRequest(c, "distance must be a number")
			}
			f.DistanceKm = &d
		}

		var err error
		if f.CuisineIDs, err = parseIDList(c.Query("cuisineIds")); err != nil {
			return errBadRequest(c, "cuisineIds must be a comma-separated list of integers")
		}
		if f.DietaryIDs, err = parseIDList(c.Query("dietaryPreferenceIds")); err != nil {
			return errBadRequest(c, "dietaryPreferenceIds must be a comma-separated list of integers")
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 20)

		res, err := deps.Search.Search(c.Context(), f, page, limit)
		switch {
		case errors.Is(err, domain.ErrMalformedFilter):
			return errBadRequest(c, err.Error())
		case errors.Is(err, domain.ErrSearchUnavailable):
			return errSearchUnavailable(c, "search backend unreachable and nothing cached for this filter set")
		case err != nil:
			return errInternal(c, err.Error())
		}

		if res.Stale {
			c.Set("X-Stale-Results", "true")
		}
		SetLinkHeaders(c, res.Pagination)
		return c.JSON(res)
	}
}

// bookmarkRequest is the POST /v1/bookmarks body.
type bookmarkRequest struct {
	EntityID   int    `json:"entity_id"`
	EntityType string `json:"entity_type"`
	Bookmarked bool   `json:"bookmarked"`
}

// BookmarkHandler publishes a bookmark toggle to every consumer: the
// in-process bus, connected WebSocket clients, and any configured relays.
func BookmarkHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bookmarkRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.EntityID <= 0 {
			return errBadRequest(c, "entity_id must be positive")
		}

		et := domain.EntityType(req.EntityType)
		if et != domain.EntityRestaurant && et != domain.EntityDeal {
			return errBadRequest(c, "entity_type must be restaurant or deal")
		}

		deps.Bookmarks.SetBookmark(c.Context(), domain.BookmarkEvent{
			EntityID:   req.EntityID,
			EntityType: et,
			Bookmarked: req.Bookmarked,
		})

		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// RefreshLocationHandler forces a new geolocation lookup and returns the
// coordinate now in use (the fallback if the lookup failed).
func RefreshLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := deps.Search.RefreshLocation(c.Context())
		return c.JSON(p)
	}
}

// parseIDList parses a comma-joined integer list ("3,1,2"). An empty input
// yields nil; normalization (sort, dedupe) happens in the query builder.
func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
