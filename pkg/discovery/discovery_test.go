package discovery_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partstack/tenantdb/pkg/discovery"
)

func TestStatic(t *testing.T) {
	t.Parallel()

	d := discovery.Static("acme", "beta")
	names, err := d.Databases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"acme", "beta"}, names)
}

func TestResilient(t *testing.T) {
	t.Parallel()

	t.Run("passes successful discovery through", func(t *testing.T) {
		t.Parallel()

		d := discovery.NewResilient(discovery.Static("acme", "beta"), "master", slog.Default())
		names, err := d.Databases(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"acme", "beta"}, names)
	})

	t.Run("degrades to fallback on error", func(t *testing.T) {
		t.Parallel()

		failing := discovery.DiscovererFunc(func(ctx context.Context) ([]string, error) {
			return nil, errors.New("permission denied for pg_database")
		})

		d := discovery.NewResilient(failing, "master", slog.Default())
		names, err := d.Databases(context.Background())
		require.NoError(t, err, "discovery failure must never propagate")
		assert.Equal(t, []string{"master"}, names)
	})
}

func TestCached(t *testing.T) {
	t.Parallel()

	t.Run("serves from cache within ttl", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		counting := discovery.DiscovererFunc(func(ctx context.Context) ([]string, error) {
			calls.Add(1)
			return []string{"acme"}, nil
		})

		d := discovery.NewCached(counting, time.Minute)
		for i := 0; i < 5; i++ {
			names, err := d.Databases(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"acme"}, names)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("refreshes after ttl expiry", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		counting := discovery.DiscovererFunc(func(ctx context.Context) ([]string, error) {
			calls.Add(1)
			return []string{"acme"}, nil
		})

		d := discovery.NewCached(counting, 10*time.Millisecond)
		_, err := d.Databases(context.Background())
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)
		_, err = d.Databases(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		flaky := discovery.DiscovererFunc(func(ctx context.Context) ([]string, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("connection refused")
			}
			return []string{"acme"}, nil
		})

		d := discovery.NewCached(flaky, time.Minute)
		_, err := d.Databases(context.Background())
		require.Error(t, err)

		names, err := d.Databases(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"acme"}, names)
	})

	t.Run("callers cannot mutate the cached list", func(t *testing.T) {
		t.Parallel()

		d := discovery.NewCached(discovery.Static("acme", "beta"), time.Minute)

		first, err := d.Databases(context.Background())
		require.NoError(t, err)
		first[0] = "mutated"

		second, err := d.Databases(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"acme", "beta"}, second)
	})
}
