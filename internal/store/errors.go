package store

import "errors"

var (
	// ErrNotFound reports that a mutation targeted an id that no longer
	// exists. Benign for delete; for adjust it means the caller's view is
	// stale and needs a refresh.
	ErrNotFound = errors.New("store: item not found")

	// ErrUnavailable reports that the backing store could not be reached or
	// failed the operation. There is no retry or stale fallback; the caller
	// surfaces it for the current action.
	ErrUnavailable = errors.New("store: unavailable")
)
