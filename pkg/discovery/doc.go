// Package discovery enumerates the backing databases available to the
// routing layer.
//
// Catalog queries the PostgreSQL system catalog over a dedicated
// administrative pool, filtering out template databases and databases
// that refuse connections. Static serves a fixed list for engines without
// catalog introspection. NewResilient wraps any Discoverer so that errors
// degrade to a single-element fallback instead of aborting request
// handling, and NewCached adds an optional bounded-TTL cache in front of
// the live query.
package discovery
