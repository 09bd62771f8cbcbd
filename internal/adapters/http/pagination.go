package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

// SetLinkHeaders adds RFC 8288 Link headers for page-based paginated
// responses, preserving the request's filter parameters.
func SetLinkHeaders(c *fiber.Ctx, p domain.Pagination) {
	base := c.Path()
	params := string(c.Request().URI().QueryString())

	link := func(page int, rel string) string {
		q := setPageParam(params, page, p.Limit)
		return fmt.Sprintf(`<%s?%s>; rel=%q`, base, q, rel)
	}

	var links []string
	links = append(links, link(1, "first"))
	if p.Page > 1 {
		links = append(links, link(p.Page-1, "prev"))
	}
	if p.TotalPages > 0 && p.Page < p.TotalPages {
		links = append(links, link(p.Page+1, "next"))
	}
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	links = append(links, link(last, "last"))

	c.Set("Link", strings.Join(links, ", "))
}

// setPageParam rewrites page/limit in a raw query string, keeping every
// other parameter intact.
func setPageParam(raw string, page, limit int) string {
	var kept []string
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" || strings.HasPrefix(pair, "page=") || strings.HasPrefix(pair, "limit=") {
			continue
		}
		kept = append(kept, pair)
	}
	kept = append(kept, fmt.Sprintf("page=%d", page), fmt.Sprintf("limit=%d", limit))
	return strings.Join(kept, "&")
}
