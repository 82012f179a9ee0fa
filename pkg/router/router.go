// Package router exposes the decision hooks the data-access layer
// consults on every model operation. The four hooks are the only
// tenancy-aware points in an otherwise tenant-unaware data layer: when no
// alias is bound to the current request every hook defers, and the
// engine's default-database behavior applies unchanged.
package router

import (
	"context"
	"log/slog"

	"github.com/partstack/tenantdb/pkg/metrics"
	"github.com/partstack/tenantdb/pkg/registry"
	"github.com/partstack/tenantdb/pkg/tenant"
)

// Decision is a hook's verdict. Defer is an explicit non-decision telling
// the caller to fall back to default behavior; the hooks never forbid.
type Decision int8

const (
	// Defer signals the caller to apply its default behavior.
	Defer Decision = iota
	// Allow approves the operation on the asked-about database.
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "defer"
}

// Bound is any object that knows which database alias it was loaded from.
type Bound interface {
	DatabaseAlias() string
}

// Router answers routing questions from the current request's tenant
// binding, registering newly seen aliases with the connection registry so
// a descriptor exists by the time the data layer connects.
type Router struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates a Router. registry may be nil when connection registration
// is handled elsewhere.
func New(reg *registry.Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{registry: reg, logger: logger}
}

// ReadTarget returns the alias that should serve reads for model.
// ok is false when the router defers to the default database.
func (rt *Router) ReadTarget(ctx context.Context, model string) (alias string, ok bool) {
	return rt.target(ctx, "read")
}

// WriteTarget returns the alias that should serve writes for model.
// ok is false when the router defers to the default database.
func (rt *Router) WriteTarget(ctx context.Context, model string) (alias string, ok bool) {
	return rt.target(ctx, "write")
}

func (rt *Router) target(ctx context.Context, hook string) (string, bool) {
	alias, ok := tenant.CurrentDatabase(ctx)
	if !ok {
		metrics.RouterDecisions.WithLabelValues(hook, "defer").Inc()
		return "", false
	}

	if rt.registry != nil {
		if _, err := rt.registry.Ensure(alias); err != nil {
			rt.logger.WarnContext(ctx, "failed to register database alias", "alias", alias, "error", err)
		}
	}

	metrics.RouterDecisions.WithLabelValues(hook, "allow").Inc()
	return alias, true
}

// AllowRelation reports whether a relation between a and b may be
// followed: Allow when either object's alias equals the currently
// resolved alias, Defer otherwise or when nothing is resolved.
func (rt *Router) AllowRelation(ctx context.Context, a, b Bound) Decision {
	current, ok := tenant.CurrentDatabase(ctx)
	if !ok {
		metrics.RouterDecisions.WithLabelValues("relation", "defer").Inc()
		return Defer
	}

	d := Defer
	if a.DatabaseAlias() == current || b.DatabaseAlias() == current {
		d = Allow
	}
	metrics.RouterDecisions.WithLabelValues("relation", d.String()).Inc()
	return d
}

// AllowMigrate reports whether migrations for app/model may run against
// alias: Allow only when alias equals the currently resolved alias.
func (rt *Router) AllowMigrate(ctx context.Context, alias, app, model string) Decision {
	current, ok := tenant.CurrentDatabase(ctx)
	if !ok {
		metrics.RouterDecisions.WithLabelValues("migrate", "defer").Inc()
		return Defer
	}

	d := Defer
	if alias == current {
		d = Allow
	}
	metrics.RouterDecisions.WithLabelValues("migrate", d.String()).Inc()
	return d
}
