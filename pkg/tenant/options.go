package tenant

import "log/slog"

// config holds middleware configuration.
type config struct {
	pattern        string
	selectorPath   string
	exemptPrefixes []string
	logger         *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithPattern sets the subdomain pattern that switches resolution into
// pattern mode. The template must contain a single %s token. An empty
// pattern leaves session/auto-single mode active.
func WithPattern(pattern string) Option {
	return func(c *config) {
		c.pattern = pattern
	}
}

// WithSelectorPath sets the path of the database selector endpoint that
// ambiguous requests are redirected to. Defaults to "/select-db/".
func WithSelectorPath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.selectorPath = path
		}
	}
}

// WithExemptPrefixes adds path prefixes that are served without a database
// selection instead of being redirected to the selector, on top of the
// defaults for static assets, uploaded media and the selector itself.
func WithExemptPrefixes(prefixes ...string) Option {
	return func(c *config) {
		c.exemptPrefixes = append(c.exemptPrefixes, prefixes...)
	}
}

// WithLogger sets a custom logger for the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
