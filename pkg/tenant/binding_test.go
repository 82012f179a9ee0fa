package tenant_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partstack/tenantdb/pkg/tenant"
)

func TestBinding(t *testing.T) {
	t.Parallel()

	t.Run("empty binding has no values", func(t *testing.T) {
		t.Parallel()

		b := tenant.NewBinding()
		_, ok := b.Subdomain()
		assert.False(t, ok)
		_, ok = b.Database()
		assert.False(t, ok)
	})

	t.Run("set and get round-trip", func(t *testing.T) {
		t.Parallel()

		b := tenant.NewBinding()
		b.SetSubdomain("acme")
		b.SetDatabase("tenant_acme")

		sub, ok := b.Subdomain()
		require.True(t, ok)
		assert.Equal(t, "acme", sub)

		db, ok := b.Database()
		require.True(t, ok)
		assert.Equal(t, "tenant_acme", db)
	})

	t.Run("clear resets both values", func(t *testing.T) {
		t.Parallel()

		b := tenant.NewBinding()
		b.SetSubdomain("acme")
		b.SetDatabase("tenant_acme")
		b.Clear()

		_, ok := b.Subdomain()
		assert.False(t, ok)
		_, ok = b.Database()
		assert.False(t, ok)

		// Clear is idempotent.
		b.Clear()
	})
}

func TestContextAccessors(t *testing.T) {
	t.Parallel()

	t.Run("missing binding", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.CurrentDatabase(context.Background())
		assert.False(t, ok)
		_, ok = tenant.CurrentSubdomain(context.Background())
		assert.False(t, ok)
		_, ok = tenant.BindingFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("bound values visible through context", func(t *testing.T) {
		t.Parallel()

		b := tenant.NewBinding()
		ctx := tenant.WithBinding(context.Background(), b)

		b.SetSubdomain("beta")
		b.SetDatabase("beta")

		sub, ok := tenant.CurrentSubdomain(ctx)
		require.True(t, ok)
		assert.Equal(t, "beta", sub)

		db, ok := tenant.CurrentDatabase(ctx)
		require.True(t, ok)
		assert.Equal(t, "beta", db)
	})
}

// Each concurrent request must observe only the values it set itself, for
// every interleaving, even when continuations of the same request run on
// other goroutines.
func TestBindingIsolationUnderConcurrency(t *testing.T) {
	t.Parallel()

	const requests = 200

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			subdomain := fmt.Sprintf("tenant%d", i)
			alias := fmt.Sprintf("db%d", i)

			b := tenant.NewBinding()
			ctx := tenant.WithBinding(context.Background(), b)
			b.SetSubdomain(subdomain)
			b.SetDatabase(alias)

			// An async continuation inheriting the context sees the
			// request's own values.
			done := make(chan struct{})
			go func() {
				defer close(done)
				got, ok := tenant.CurrentDatabase(ctx)
				assert.True(t, ok)
				assert.Equal(t, alias, got)
			}()
			<-done

			got, ok := tenant.CurrentSubdomain(ctx)
			assert.True(t, ok)
			assert.Equal(t, subdomain, got)

			b.Clear()
			_, ok = tenant.CurrentDatabase(ctx)
			assert.False(t, ok)
		}()
	}
	wg.Wait()
}
