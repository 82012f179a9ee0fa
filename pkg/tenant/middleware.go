package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/partstack/tenantdb/pkg/metrics"
)

// Discoverer enumerates the candidate backing databases. Implementations
// live in package discovery; the middleware only needs this one method.
type Discoverer interface {
	Databases(ctx context.Context) ([]string, error)
}

// SessionSelector reads and writes the persisted database selection for
// the request's session. Implemented by session.Manager.
type SessionSelector interface {
	Selection(r *http.Request) (string, bool)
	SetSelection(w http.ResponseWriter, r *http.Request, alias string) error
}

// Middleware creates HTTP middleware that resolves the backing database
// for every request and binds the decision into the request context.
//
// For each request it extracts the subdomain from the Host header,
// resolves an alias per Resolver's policy, and dispatches. An ambiguous
// outcome on a non-exempt path short-circuits with a redirect to the
// selector endpoint carrying the original URL as the "next" parameter.
// The binding is cleared on every exit path, including handler panics.
func Middleware(disc Discoverer, sessions SessionSelector, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		selectorPath: "/select-db/",
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.exemptPrefixes = append(cfg.exemptPrefixes, "/static/", "/media/", cfg.selectorPath)

	resolver := &Resolver{Pattern: cfg.pattern}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			binding := NewBinding()
			r = r.WithContext(WithBinding(r.Context(), binding))

			// Clearing must survive handler panics and must never replace
			// the response or panic being propagated.
			defer func() {
				defer func() {
					if rec := recover(); rec != nil {
						cfg.logger.ErrorContext(r.Context(), "tenant binding clear failed", "panic", rec)
					}
				}()
				binding.Clear()
			}()

			subdomain := ExtractSubdomain(r.Host)
			binding.SetSubdomain(subdomain)

			res := resolve(r, cfg, resolver, disc, sessions, subdomain)
			metrics.ResolutionOutcomes.WithLabelValues(res.Outcome.String()).Inc()

			switch res.Outcome {
			case Resolved:
				binding.SetDatabase(res.Alias)
				if res.Persist {
					if err := sessions.SetSelection(w, r, res.Alias); err != nil {
						cfg.logger.WarnContext(r.Context(), "failed to persist auto-selected database",
							"alias", res.Alias, "error", err)
					}
				}
			case Ambiguous:
				if !exempt(r.URL.Path, cfg.exemptPrefixes) {
					redirectToSelector(w, r, cfg.selectorPath)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolve gathers the resolver inputs that the current mode actually
// needs. The subdomain is the one already bound for this request, so the
// binding and the resolver always see the same value. Discovery is
// skipped when pattern mode cannot decide anyway.
func resolve(r *http.Request, cfg *config, resolver *Resolver, disc Discoverer, sessions SessionSelector, subdomain string) Resolution {
	if cfg.pattern != "" && subdomain == "" {
		return Resolution{Outcome: NoDecision}
	}

	discovered, err := disc.Databases(r.Context())
	if err != nil {
		// Discovery failure must never abort request handling.
		cfg.logger.WarnContext(r.Context(), "database discovery failed", "error", err)
		return Resolution{Outcome: NoDecision}
	}

	var sessionAlias string
	if cfg.pattern == "" {
		sessionAlias, _ = sessions.Selection(r)
	}

	return resolver.Resolve(subdomain, sessionAlias, discovered)
}

func exempt(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func redirectToSelector(w http.ResponseWriter, r *http.Request, selectorPath string) {
	target := selectorPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}
