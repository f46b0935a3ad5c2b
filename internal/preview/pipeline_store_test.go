package preview_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/bearlink/internal/kv"
	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/preview"
)

func TestGuard_TryClaim(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := kv.NewMemoryStore().WithClock(func() time.Time { return now })
	g := preview.NewGuard(store, 0)

	ok, err := g.TryClaim(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.TryClaim(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(preview.DefaultGuardTTL + time.Second)
	ok, err = g.TryClaim(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuard_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	g := preview.NewGuard(kv.NewMemoryStore(), time.Minute)

	const callers = 64
	results := make(chan bool, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := g.TryClaim(context.Background(), "https://example.com/hot")
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestGuard_DoesNotCollideWithCache(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	g := preview.NewGuard(store, time.Minute)
	c := preview.NewCache(store, time.Hour)

	ok, err := g.TryClaim(ctx, "https://example.com")
	require.NoError(t, err)
	require.True(t, ok)

	_, hit, err := c.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := preview.NewQueue(kv.NewMemoryStore())

	_, ok, err := q.PopOne(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, q.Push(ctx, "L1"))
	require.NoError(t, q.Push(ctx, "L2"))

	id, ok, err := q.PopOne(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "L1", id)

	id, ok, err = q.PopOne(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "L2", id)

	_, ok, err = q.PopOne(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStore struct {
	kv.Store
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) LPop(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestQueue_PopOneSurfacesStoreErrors(t *testing.T) {
	q := preview.NewQueue(failingStore{})
	_, ok, err := q.PopOne(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := preview.NewCache(kv.NewMemoryStore(), 0)

	_, ok, err := c.Get(ctx, "https://example.com/page")
	require.NoError(t, err)
	assert.False(t, ok)

	title, thumb := "Example", "https://example.com/og.png"
	require.NoError(t, c.Set(ctx, "https://example.com/page", &models.Preview{Title: &title, ThumbnailURL: &thumb}))

	got, ok, err := c.Get(ctx, "HTTPS://Example.COM:443/page#section")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Example", *got.Title)
	assert.Equal(t, thumb, *got.ThumbnailURL)
}

func TestCache_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	c := preview.NewCache(kv.NewMemoryStore(), time.Hour)

	first, second := "first", "second"
	require.NoError(t, c.Set(ctx, "https://example.com", &models.Preview{Title: &first}))
	require.NoError(t, c.Set(ctx, "https://example.com", &models.Preview{Title: &second}))

	got, ok, err := c.Get(ctx, "https://example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", *got.Title)
}

func TestCache_CorruptValueIsMiss(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "preview:https://example.com", []byte("{not json"), 0))

	_, ok, err := preview.NewCache(store, time.Hour).Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"  https://Example.com/Path  ":   "https://example.com/Path",
		"HTTP://example.com:80/a?b=1":    "http://example.com/a?b=1",
		"https://example.com:8443/a#top": "https://example.com:8443/a",
		"https://[::1]:443/x":            "https://[::1]/x",
		"not a url":                      "not a url",
	}
	for in, want := range tests {
		assert.Equal(t, want, preview.NormalizeURL(in), in)
	}
}
