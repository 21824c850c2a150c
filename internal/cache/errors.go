package cache

import "errors"

// Callers match these with errors.Is; backend errors are wrapped in them.
var (
	// ErrCacheMiss is returned for absent and expired keys alike.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheUnavailable wraps Redis transport and server errors.
	ErrCacheUnavailable = errors.New("cache: redis unavailable")

	// ErrInvalidValue means a stored payload did not decode into T.
	ErrInvalidValue = errors.New("cache: invalid value")
)
