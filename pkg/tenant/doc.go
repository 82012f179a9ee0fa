// Package tenant decides which backing database serves each incoming
// request and carries that decision through the request's lifetime.
//
// A multi-tenant deployment keeps every tenant's data in its own physical
// database. The data layer itself stays tenant-unaware: it consults the
// routing hooks in package router, which in turn read the per-request
// binding this package maintains. Nothing else in the application needs
// to know that more than one database exists.
//
// # Request binding
//
// Each request owns exactly one Binding, created by the Middleware and
// carried in the request's context.Context. Context propagation is what
// keeps bindings isolated: goroutines spawned from a request inherit its
// context and therefore its binding, while unrelated requests served by
// the same process never observe each other's values. The Binding itself
// is mutex-guarded so continuations of one request may read it while the
// middleware mutates it.
//
// The middleware clears the binding on every exit path from the handler,
// including panics, so a pooled worker never leaks one request's database
// selection into the next.
//
// # Resolution
//
// Resolver implements the selection policy. Two modes exist, switched by
// the presence of a subdomain pattern:
//
//   - Pattern mode: the request's subdomain is substituted into the
//     pattern and matched against the discovered database names. Session
//     state is never consulted.
//   - Session mode: a previously selected alias is read from the session;
//     with no selection and exactly one database discovered, that database
//     is auto-selected and persisted; with several candidates the outcome
//     is Ambiguous and the middleware redirects to the selector endpoint.
//
// "No decision" and "ambiguous" are ordinary outcomes, not errors. When
// no alias is bound, the routing hooks defer and the engine's default
// database governs, so the application keeps working even when resolution
// is impossible.
//
// # Usage
//
//	disc := discovery.NewResilient(discovery.NewCatalog(adminPool), "master", logger)
//	sessions := session.NewManager(session.NewMemoryStore(24*time.Hour, time.Minute))
//
//	mux := chi.NewRouter()
//	mux.Use(tenant.Middleware(disc, sessions,
//		tenant.WithPattern(os.Getenv("TENANT_PATTERN")),
//		tenant.WithLogger(logger),
//	))
package tenant
