package discovery

import "context"

// Discoverer enumerates candidate backing databases in discovery order.
// The returned order is meaningful: pattern resolution breaks ties by
// taking the first match.
type Discoverer interface {
	Databases(ctx context.Context) ([]string, error)
}

// DiscovererFunc adapts an ordinary function to the Discoverer interface.
type DiscovererFunc func(ctx context.Context) ([]string, error)

// Databases calls the function.
func (f DiscovererFunc) Databases(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Static returns a Discoverer serving a fixed list of database names,
// used for engines without catalog introspection.
func Static(names ...string) Discoverer {
	fixed := make([]string, len(names))
	copy(fixed, names)
	return DiscovererFunc(func(context.Context) ([]string, error) {
		return fixed, nil
	})
}
