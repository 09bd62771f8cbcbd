// Package natsadapter bridges the in-process bookmark bus to NATS so that
// bookmark toggles reach other app instances and the realtime stream.
// Core NATS (not JetStream) is deliberate: bookmark events are ephemeral
// and at-most-once, a listener that is not up at publish time misses them.
package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/pkg/eventbus"
)

const subjectPrefix = "deals.bookmark."

// Relay implements ports.BookmarkRelay over NATS.
type Relay struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

// NewRelay connects to NATS.
func NewRelay(url string) (*Relay, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Relay{conn: conn}, nil
}

// Relay publishes a bookmark event to deals.bookmark.<type>.<id>.
func (r *Relay) Relay(_ context.Context, ev domain.BookmarkEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s%s.%d", subjectPrefix, ev.EntityType, ev.EntityID)
	return r.conn.Publish(subject, data)
}

// Bridge feeds inbound bookmark events from other instances into the local
// bus. Our own relayed events echo back through the subscription; listeners
// overwrite rather than toggle, so the duplicate delivery is harmless.
func (r *Relay) Bridge(bus *eventbus.Bus) error {
	sub, err := r.conn.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		var ev domain.BookmarkEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		bus.Publish(ev)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	r.sub = sub
	return nil
}

// Conn exposes the underlying connection for health checks.
func (r *Relay) Conn() *nats.Conn {
	return r.conn
}

// Close unsubscribes and drains.
func (r *Relay) Close() {
	if r.sub != nil {
		_ = r.sub.Unsubscribe()
	}
	_ = r.conn.Drain()
}
