package store

import "errors"

var (
	// ErrConflict reports a create that collided with an existing identifier.
	// Creates never overwrite; identifiers are generated server-side, so a
	// collision is an anomaly worth surfacing rather than silently accepting.
	ErrConflict = errors.New("store: already exists")

	// ErrNotFound reports a point read that matched nothing. Callers must
	// never see a fabricated zero-value entity instead.
	ErrNotFound = errors.New("store: not found")
)
