package kv

import (
	"context"
	"testing"

	"dish-recommender/internal/infrastructure/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rs, err := NewRedisStore(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)

	bs, err := NewBadgerStore(config.BadgerConfig{InMemory: true})
	require.NoError(t, err)

	stores := map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendRedis:  rs,
		BackendBadger: bs,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "k", `[{"id":"1"}]`))
			val, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, val)

			require.NoError(t, s.Set(ctx, "k", "v2"))
			val, _, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", val)

			require.NoError(t, s.Delete(ctx, "k"))
			_, ok, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting an absent key is not an error
			require.NoError(t, s.Delete(ctx, "k"))
		})
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "a", "1"))
	_, _, _ = s.Get(ctx, "a")
	_, _, _ = s.Get(ctx, "b")

	stats := s.GetStats()
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Set(ctx, "a", "2"), ErrClosed)
	_, _, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemoryStore().Set(ctx, "a", "1"), context.Canceled)
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestRedisStoreServerGone(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	mr.SetError("READONLY")
	assert.Error(t, s.Set(context.Background(), "k", "v"))
}

func TestNewFactory(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StorageConfig{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, config.StorageConfig{Backend: BackendBadger, Badger: config.BadgerConfig{InMemory: true}})
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	s, err = New(ctx, config.StorageConfig{Backend: BackendRedis, Redis: config.RedisConfig{Addr: mr.Addr()}})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	_, err = New(ctx, config.StorageConfig{Backend: "etcd"})
	assert.Error(t, err)
}
