package discovery

import (
	"context"
	"log/slog"

	"github.com/partstack/tenantdb/pkg/metrics"
)

// Resilient wraps a Discoverer so that discovery errors degrade to a
// single-element fallback list instead of propagating. Connectivity or
// permission problems on the admin connection must never take request
// handling down with them.
type Resilient struct {
	next     Discoverer
	fallback string
	logger   *slog.Logger
}

// NewResilient creates a resilient wrapper around next. fallback is the
// statically configured default database name returned on failure.
func NewResilient(next Discoverer, fallback string, logger *slog.Logger) *Resilient {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resilient{next: next, fallback: fallback, logger: logger}
}

// Databases returns the wrapped discoverer's list, or the fallback list
// with a logged warning when the query fails.
func (r *Resilient) Databases(ctx context.Context) ([]string, error) {
	names, err := r.next.Databases(ctx)
	if err != nil {
		metrics.DiscoveryFailures.Inc()
		r.logger.WarnContext(ctx, "database discovery failed, using fallback",
			"fallback", r.fallback, "error", err)
		return []string{r.fallback}, nil
	}
	return names, nil
}
