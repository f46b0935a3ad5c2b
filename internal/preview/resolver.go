package preview

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/atinyakov/bearlink/internal/models"
)

// Resolver is the cache-aside front of the dispatcher.
type Resolver struct {
	cache      *Cache
	dispatcher *Dispatcher
	logger     *zap.Logger
	group      singleflight.Group
}

func NewResolver(cache *Cache, dispatcher *Dispatcher, logger *zap.Logger) *Resolver {
	return &Resolver{cache: cache, dispatcher: dispatcher, logger: logger}
}

// Resolve returns the preview for rawURL, or nil when nothing usable was
// found. Cache failures degrade to a miss; only non-empty previews are
// written back.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) *models.Preview {
	key := NormalizeURL(rawURL)

	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		cached, ok, err := r.cache.Get(ctx, rawURL)
		if err != nil {
			r.logger.Warn("preview cache read failed", zap.String("url", rawURL), zap.Error(err))
		}
		if ok {
			r.logger.Debug("preview cache hit", zap.String("url", rawURL))
			return cached, nil
		}

		p := r.dispatcher.Pick(rawURL).Resolve(ctx, rawURL)
		if p.Empty() {
			return (*models.Preview)(nil), nil
		}

		if err := r.cache.Set(ctx, rawURL, p); err != nil {
			r.logger.Warn("preview cache write failed", zap.String("url", rawURL), zap.Error(err))
		}
		return p, nil
	})

	p, _ := v.(*models.Preview)
	return p
}
