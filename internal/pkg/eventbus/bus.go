// Package eventbus carries bookmark-state changes between independently
// rendered views. Delivery is synchronous, in-process, and at-most-once:
// a listener that subscribes after a publish has missed that event for good.
package eventbus

import (
	"sync"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

// Listener receives a bookmark event. Listeners must be idempotent to
// duplicate events for the same entity (overwrite the flag, never toggle)
// and must not synchronously publish bookmark events from inside a handler.
type Listener func(ev domain.BookmarkEvent)

type subscription struct {
	id int
	fn Listener
}

// Bus is a process-wide publish/subscribe channel for bookmark events.
// The zero value is not usable; construct with New.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns its disposer. Every subscribe
// must be paired with a call to the disposer on view teardown; a dropped
// disposer is a listener leak. Calling the disposer twice is harmless.
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all current listeners in subscription order.
// The subscriber list is snapshotted first, so listeners may subscribe or
// unsubscribe from inside a handler without deadlocking.
func (b *Bus) Publish(ev domain.BookmarkEvent) {
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(ev)
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
