package preview_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/kv"
	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/preview"
)

type countingStrategy struct {
	calls  atomic.Int32
	result *models.Preview
	delay  time.Duration
}

func (s *countingStrategy) Resolve(context.Context, string) *models.Preview {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.result
}

func newResolver(store kv.Store, video, generic preview.Strategy) *preview.Resolver {
	return preview.NewResolver(
		preview.NewCache(store, time.Hour),
		preview.NewDispatcher(video, generic),
		zap.NewNop(),
	)
}

func TestResolver_CacheAside(t *testing.T) {
	ctx := context.Background()
	title := "Example"
	generic := &countingStrategy{result: &models.Preview{Title: &title}}
	video := &countingStrategy{}
	r := newResolver(kv.NewMemoryStore(), video, generic)

	p := r.Resolve(ctx, "https://example.com")
	require.NotNil(t, p)
	assert.Equal(t, "Example", *p.Title)

	p = r.Resolve(ctx, "https://example.com")
	require.NotNil(t, p)
	assert.Equal(t, "Example", *p.Title)

	assert.Equal(t, int32(1), generic.calls.Load(), "second resolve must be served from cache")
	assert.Equal(t, int32(0), video.calls.Load())
}

func TestResolver_NilIsNotCached(t *testing.T) {
	ctx := context.Background()
	generic := &countingStrategy{}
	r := newResolver(kv.NewMemoryStore(), &countingStrategy{}, generic)

	assert.Nil(t, r.Resolve(ctx, "https://example.com"))
	assert.Nil(t, r.Resolve(ctx, "https://example.com"))
	assert.Equal(t, int32(2), generic.calls.Load())
}

type brokenStore struct {
	kv.Store
}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("redis down")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

func TestResolver_CacheFailureDegradesToMiss(t *testing.T) {
	title := "Still works"
	generic := &countingStrategy{result: &models.Preview{Title: &title}}
	r := newResolver(brokenStore{}, &countingStrategy{}, generic)

	p := r.Resolve(context.Background(), "https://example.com")
	require.NotNil(t, p)
	assert.Equal(t, "Still works", *p.Title)
}

func TestResolver_ConcurrentCallsShareOneStrategyCall(t *testing.T) {
	title := "Shared"
	generic := &countingStrategy{result: &models.Preview{Title: &title}, delay: 50 * time.Millisecond}
	r := newResolver(brokenStore{}, &countingStrategy{}, generic)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := r.Resolve(context.Background(), "https://example.com/shared")
			assert.NotNil(t, p)
		}()
	}
	wg.Wait()

	assert.Less(t, generic.calls.Load(), int32(10))
}
