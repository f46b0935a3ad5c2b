package kv_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/kv"
)

type backend struct {
	name string
	open func(t *testing.T) kv.Store
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T) kv.Store {
				return kv.NewMemoryStore()
			},
		},
		{
			name: "redis",
			open: func(t *testing.T) kv.Store {
				mr := miniredis.RunT(t)
				s := kv.NewRedisStore(kv.RedisOptions{Addr: mr.Addr()})
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
		{
			name: "badger",
			open: func(t *testing.T) kv.Store {
				s, err := kv.OpenBadgerStore(kv.BadgerOptions{InMemory: true}, zap.NewNop())
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })
				return s
			},
		},
	}
}

func TestStore_GetSet(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			require.NoError(t, s.Set(ctx, "k", []byte("v1"), 0))
			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v1", string(got))

			require.NoError(t, s.Set(ctx, "k", []byte("v2"), time.Hour))
			got, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", string(got))

			assert.NoError(t, s.Ping(ctx))
		})
	}
}

func TestStore_SetNX(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			ok, err := s.SetNX(ctx, "processing:https://a.example", []byte("1"), time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = s.SetNX(ctx, "processing:https://a.example", []byte("1"), time.Minute)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = s.SetNX(ctx, "processing:https://b.example", []byte("1"), time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestStore_SetNXConcurrent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			const callers = 32
			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
			)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := s.SetNX(ctx, "processing:https://race.example", []byte("1"), time.Minute)
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, wins)
		})
	}
}

func TestStore_ListFIFO(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			_, err := s.LPop(ctx, "q")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			for _, v := range []string{"1", "2", "3"} {
				require.NoError(t, s.RPush(ctx, "q", v))
			}
			require.NoError(t, s.RPush(ctx, "other", "x"))

			for _, want := range []string{"1", "2", "3"} {
				got, err := s.LPop(ctx, "q")
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			_, err = s.LPop(ctx, "q")
			assert.ErrorIs(t, err, kv.ErrNotFound)

			got, err := s.LPop(ctx, "other")
			require.NoError(t, err)
			assert.Equal(t, "x", got)
		})
	}
}

func TestStore_LPopDeliversOnce(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)

			const items = 200
			for i := 0; i < items; i++ {
				require.NoError(t, s.RPush(ctx, "q", fmt.Sprint(i)))
			}

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				seen = make(map[string]int)
			)
			for w := 0; w < 8; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						v, err := s.LPop(ctx, "q")
						if err != nil {
							assert.ErrorIs(t, err, kv.ErrNotFound)
							return
						}
						mu.Lock()
						seen[v]++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			require.Len(t, seen, items)
			for v, n := range seen {
				assert.Equal(t, 1, n, "element %s delivered %d times", v, n)
			}
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := kv.NewMemoryStore().WithClock(func() time.Time { return now })

	ok, err := s.SetNX(ctx, "processing:u", []byte("1"), 10*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(9 * time.Minute)
	ok, err = s.SetNX(ctx, "processing:u", []byte("1"), 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = s.SetNX(ctx, "processing:u", []byte("1"), 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "marker must be claimable again once its TTL lapsed")

	require.NoError(t, s.Set(ctx, "preview:u", []byte("{}"), time.Hour))
	now = now.Add(2 * time.Hour)
	_, err = s.Get(ctx, "preview:u")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s := kv.NewRedisStore(kv.RedisOptions{Addr: mr.Addr()})
	defer s.Close()

	ok, err := s.SetNX(ctx, "processing:u", []byte("1"), 10*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Minute)

	ok, err = s.SetNX(ctx, "processing:u", []byte("1"), 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
