package crudgen

import (
	"context"
	"time"
)

// Cache is the interface for caching list-all results.
// Users should implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CacheKey identifies a cached statement result.
type CacheKey struct {
	Table     string
	Operation string
	SQL       string
	Args      string
}

// String returns the string representation of the cache key. Keys of one
// table share the TablePrefix of that table.
func (k CacheKey) String() string {
	return TablePrefix(k.Table) + k.Operation + ":" + k.SQL + ":" + k.Args
}

// TablePrefix returns the key prefix shared by all cached results of table.
func TablePrefix(table string) string {
	return table + ":"
}
