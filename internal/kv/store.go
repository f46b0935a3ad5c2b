// Package kv provides the shared key-value backends behind the enqueue
// guard, the work queue and the preview cache. Every backend offers the
// same small contract: plain values with optional expiry, an atomic
// create-if-absent, and a FIFO list where each element is handed to
// exactly one popper.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for a missing or expired key and for an empty list.
var ErrNotFound = errors.New("kv: not found")

// Store is implemented by MemoryStore, RedisStore and BadgerStore.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	RPush(ctx context.Context, list string, value string) error
	LPop(ctx context.Context, list string) (string, error)
	Ping(ctx context.Context) error
	Close() error
}
