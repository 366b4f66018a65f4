package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrCacheMiss is returned by Read when no entry exists at the path.
	ErrCacheMiss = errors.New("cache miss")

	// ErrOutsideRoot is returned when a path does not belong to the store.
	ErrOutsideRoot = errors.New("path outside cache root")
)
