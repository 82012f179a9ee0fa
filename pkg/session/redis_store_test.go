package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partstack/tenantdb/pkg/session"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client, ttl), srv
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get round-trip", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t, time.Minute)
		require.NoError(t, store.Set(ctx, "tok", "beta"))

		alias, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, "beta", alias)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t, time.Minute)
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete removes the selection", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t, time.Minute)
		require.NoError(t, store.Set(ctx, "tok", "acme"))
		require.NoError(t, store.Delete(ctx, "tok"))

		_, err := store.Get(ctx, "tok")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		t.Parallel()

		store, srv := newRedisStore(t, time.Minute)
		require.NoError(t, store.Set(ctx, "tok", "acme"))

		srv.FastForward(2 * time.Minute)
		_, err := store.Get(ctx, "tok")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t, time.Minute)
		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, session.ErrEmptyToken)
		assert.ErrorIs(t, store.Set(ctx, "", "acme"), session.ErrEmptyToken)
	})
}
