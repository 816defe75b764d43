// Package cache implements the tiered key/value store for catalog query
// results: a bounded in-memory LRU tier in front of a persistent file tier.
package cache

import (
	"errors"
	"time"
)

// Error variables for cache errors
var (
	// ErrEntryCorrupted is returned when a persisted record cannot be decoded
	ErrEntryCorrupted = errors.New("cache entry is corrupted")
	// ErrClosed is returned when the store is used after Close
	ErrClosed = errors.New("cache store is closed")
)

// DefaultTTL is the default time-to-live for cache entries (1 hour)
const DefaultTTL = time.Hour

// Entry is the self-describing persisted cache record. The JSON shape must
// stay backward-readable: unknown fields are ignored on load and an
// undecodable record is treated as a miss, never a fatal error.
type Entry struct {
	// Key is the cache key, stored to guard against hash collisions
	Key string `json:"key"`
	// Value is the cached payload, snappy-compressed when Compressed is set
	Value []byte `json:"value"`
	// CreatedAt is when the entry was written
	CreatedAt time.Time `json:"created_at"`
	// TTL is the entry's time-to-live in nanoseconds
	TTL time.Duration `json:"ttl_ns"`
	// Compressed marks a snappy-compressed Value
	Compressed bool `json:"compressed,omitempty"`
}

// expired reports whether the entry's TTL has elapsed at the given time.
// A zero TTL is already expired: ttl=0 writes are immediate misses.
func (e *Entry) expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) >= e.TTL
}
