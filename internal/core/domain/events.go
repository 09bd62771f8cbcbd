package domain

// EntityType names the kind of entity a bookmark event refers to.
type EntityType string

const (
	EntityRestaurant EntityType = "restaurant"
	EntityDeal       EntityType = "deal"
)

// BookmarkEvent announces that a favorite flag changed somewhere in the app.
// Events are ephemeral: delivery is at-most-once to currently subscribed
// listeners, with no buffering or replay.
type BookmarkEvent struct {
	EntityID   int        `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Bookmarked bool       `json:"bookmarked"`
}

// ApplyBookmark patches the result set in place with the event's flag.
// It always overwrites, never toggles, so replayed or out-of-order events
// for the same entity converge on the same state.
func (r *SearchResult) ApplyBookmark(ev BookmarkEvent) {
	switch ev.EntityType {
	case EntityRestaurant:
		for i := range r.Restaurants {
			if r.Restaurants[i].ID == ev.EntityID {
				r.Restaurants[i].Bookmarked = ev.Bookmarked
			}
		}
	case EntityDeal:
		for i := range r.Deals {
			if r.Deals[i].ID == ev.EntityID {
				r.Deals[i].Bookmarked = ev.Bookmarked
			}
		}
	}
}
