package domain

import "sort"

// Sort orders the result set according to the requested criterion.
// Relevance keeps server order (newest first). Rating sorts descending with
// unrated entities last; ties break by ascending ID so the order is stable
// across refreshes.
func (r *SearchResult) Sort(by SortBy) {
	if by != SortRating {
		return
	}
	sort.SliceStable(r.Restaurants, func(i, j int) bool {
		return ratingLess(r.Restaurants[i].Rating, r.Restaurants[i].ID,
			r.Restaurants[j].Rating, r.Restaurants[j].ID)
	})
	sort.SliceStable(r.Deals, func(i, j int) bool {
		return ratingLess(r.Deals[i].Rating, r.Deals[i].ID,
			r.Deals[j].Rating, r.Deals[j].ID)
	})
}

// ratingLess implements "higher rating first, unrated last, ties by id".
func ratingLess(ra *float64, ida int, rb *float64, idb int) bool {
	switch {
	case ra == nil && rb == nil:
		return ida < idb
	case ra == nil:
		return false
	case rb == nil:
		return true
	case *ra != *rb:
		return *ra > *rb
	default:
		return ida < idb
	}
}
