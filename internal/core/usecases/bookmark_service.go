package usecases

import (
	"context"
	"log/slog"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/core/ports"
	"github.com/sabinstha/khojdeal/internal/pkg/metrics"
)

// BookmarkService distributes bookmark toggles. The local bus is published
// first so every mounted view patches its list optimistically; remote
// relaying (marketplace persistence, other app instances) is best-effort
// and never blocks or fails the local update.
type BookmarkService struct {
	bus    ports.BookmarkPublisher
	relays []ports.BookmarkRelay
}

// NewBookmarkService creates a BookmarkService. Relays are optional.
func NewBookmarkService(bus ports.BookmarkPublisher, relays ...ports.BookmarkRelay) *BookmarkService {
	return &BookmarkService{bus: bus, relays: relays}
}

// SetBookmark publishes the new absolute flag for an entity. The event
// carries the target state, not a toggle, so replays are idempotent.
func (s *BookmarkService) SetBookmark(ctx context.Context, ev domain.BookmarkEvent) {
	s.bus.Publish(ev)
	metrics.BookmarkEvents.WithLabelValues(string(ev.EntityType)).Inc()

	for _, r := range s.relays {
		if err := r.Relay(ctx, ev); err != nil {
			slog.Warn("bookmark relay failed",
				"entity_type", ev.EntityType,
				"entity_id", ev.EntityID,
				"error", err)
		}
	}
}
