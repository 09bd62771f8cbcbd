package marketplace

import "github.com/sabinstha/khojdeal/internal/core/domain"

// envelope is the wire format of the marketplace API. A response with
// success=false is treated exactly like a non-2xx status.
type envelope struct {
	Success bool        `json:"success"`
	Data    *searchData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type searchData struct {
	Restaurants []domain.Restaurant `json:"restaurants"`
	Deals       []domain.Deal       `json:"deals"`
	Pagination  domain.Pagination   `json:"pagination"`
}
