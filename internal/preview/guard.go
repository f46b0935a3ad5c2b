// Package preview turns a saved URL into preview metadata. It holds the
// enqueue guard, the work queue and the preview cache built on a shared
// kv.Store, the source dispatcher with its video and generic strategies,
// and the cache-aside Resolver the worker calls.
package preview

import (
	"context"
	"time"

	"github.com/atinyakov/bearlink/internal/kv"
)

const (
	guardPrefix = "processing:"

	DefaultGuardTTL = 10 * time.Minute
)

// Guard suppresses duplicate enqueues of the same URL for a bounded window.
type Guard struct {
	store kv.Store
	ttl   time.Duration
}

func NewGuard(store kv.Store, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &Guard{store: store, ttl: ttl}
}

// TryClaim atomically places the processing marker for url. It returns
// true only for the caller that created the marker.
func (g *Guard) TryClaim(ctx context.Context, url string) (bool, error) {
	return g.store.SetNX(ctx, guardPrefix+url, []byte("1"), g.ttl)
}
