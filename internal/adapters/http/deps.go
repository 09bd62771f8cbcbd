package http

import (
	"github.com/nats-io/nats.go"

	"github.com/sabinstha/khojdeal/internal/core/ports"
	"github.com/sabinstha/khojdeal/internal/core/usecases"
	"github.com/sabinstha/khojdeal/internal/pkg/eventbus"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Search    *usecases.SearchService
	Bookmarks *usecases.BookmarkService
	Bus       *eventbus.Bus
	Cache     ports.CacheService
	NATS      *nats.Conn
}
