package domain

import "errors"

var (
	// ErrMalformedFilter marks filter states rejected before any request is
	// built or sent.
	ErrMalformedFilter = errors.New("malformed filter")

	// ErrSearchUnavailable is surfaced when both the marketplace endpoint and
	// the cache fallback produced nothing usable. It lets callers distinguish
	// "no results" from "couldn't search".
	ErrSearchUnavailable = errors.New("search unavailable")
)
