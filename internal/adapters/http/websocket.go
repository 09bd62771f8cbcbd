package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/pkg/metrics"
)

// BookmarkStreamHandler upgrades to WebSocket and streams bookmark events
// from the in-process bus to the client. Clients may also send events
// upstream, which distributes them like any other toggle.
//
// The bus subscription is released when the client disconnects; the
// disposer pairing is what keeps a churn of clients from leaking listeners.
func BookmarkStreamHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		// Bus delivery is synchronous on the publisher's goroutine, so
		// events are handed to a dedicated writer through a buffered
		// channel. A client that cannot keep up drops events rather than
		// stalling every other subscriber.
		events := make(chan domain.BookmarkEvent, 64)
		unsubscribe := deps.Bus.Subscribe(func(ev domain.BookmarkEvent) {
			select {
			case events <- ev:
			default:
			}
		})
		defer unsubscribe()

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case ev := <-events:
					data, err := json.Marshal(ev)
					if err != nil {
						continue
					}
					if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
						return
					}
				case <-ticker.C:
					if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read loop: detects disconnect and accepts client-originated
		// bookmark toggles.
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var ev domain.BookmarkEvent
			if err := json.Unmarshal(msg, &ev); err != nil {
				continue
			}
			if ev.EntityID <= 0 ||
				(ev.EntityType != domain.EntityRestaurant && ev.EntityType != domain.EntityDeal) {
				continue
			}
			deps.Bookmarks.SetBookmark(context.Background(), ev)
		}

		close(done)
		slog.Debug("ws client disconnected", "remote", remoteAddr)
	}
}
