package eventbus

import (
	"testing"

	"github.com/sabinstha/khojdeal/internal/core/domain"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := New()

	var order []string
	bus.Subscribe(func(ev domain.BookmarkEvent) { order = append(order, "first") })
	bus.Subscribe(func(ev domain.BookmarkEvent) { order = append(order, "second") })
	bus.Subscribe(func(ev domain.BookmarkEvent) { order = append(order, "third") })

	bus.Publish(domain.BookmarkEvent{EntityID: 1, EntityType: domain.EntityDeal, Bookmarked: true})

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("unexpected delivery order: %v", order)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	calls := 0
	unsub := bus.Subscribe(func(ev domain.BookmarkEvent) { calls++ })

	ev := domain.BookmarkEvent{EntityID: 5, EntityType: domain.EntityRestaurant, Bookmarked: true}
	bus.Publish(ev)
	unsub()
	bus.Publish(ev)

	if calls != 1 {
		t.Errorf("expected 1 delivery, got %d", calls)
	}
	if bus.Len() != 0 {
		t.Errorf("expected empty bus, got %d subscriptions", bus.Len())
	}
}

func TestBus_DoubleUnsubscribeHarmless(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(ev domain.BookmarkEvent) {})
	other := bus.Subscribe(func(ev domain.BookmarkEvent) {})

	unsub()
	unsub()

	if bus.Len() != 1 {
		t.Errorf("expected 1 remaining subscription, got %d", bus.Len())
	}
	other()
}

func TestBus_NoReplayForLateSubscribers(t *testing.T) {
	bus := New()
	bus.Publish(domain.BookmarkEvent{EntityID: 1, EntityType: domain.EntityDeal, Bookmarked: true})

	received := 0
	defer bus.Subscribe(func(ev domain.BookmarkEvent) { received++ })()

	if received != 0 {
		t.Errorf("late subscriber must not receive past events, got %d", received)
	}
}

func TestBus_ListenerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := New()

	var unsub func()
	unsub = bus.Subscribe(func(ev domain.BookmarkEvent) { unsub() })
	second := 0
	bus.Subscribe(func(ev domain.BookmarkEvent) { second++ })

	ev := domain.BookmarkEvent{EntityID: 9, EntityType: domain.EntityDeal, Bookmarked: false}
	bus.Publish(ev)
	bus.Publish(ev)

	if second != 2 {
		t.Errorf("second listener should see both events, got %d", second)
	}
	if bus.Len() != 1 {
		t.Errorf("self-unsubscribed listener should be gone, Len = %d", bus.Len())
	}
}
