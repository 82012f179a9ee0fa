// Package registry derives and caches per-tenant connection configuration.
//
// It is the registry+factory for the alias → connection map: the factory
// clones the default connection config and substitutes the database name,
// the registry de-duplicates by alias. Entries are append-only for the
// process lifetime; an alias is never removed or re-pointed at a different
// descriptor.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/partstack/tenantdb/pkg/metrics"
)

var (
	// ErrEmptyAlias is returned when an empty alias is registered.
	ErrEmptyAlias = errors.New("registry: empty database alias")
	// ErrDialFailed wraps failures to open a per-tenant pool.
	ErrDialFailed = errors.New("registry: failed to open tenant pool")
)

// Registry owns the shared alias → connection-descriptor map. It is safe
// for concurrent use: first-time registration is guarded by a mutex, and
// derivation is deterministic so concurrent registration of the same new
// alias converges on equivalent entries.
type Registry struct {
	template *pgxpool.Config
	logger   *slog.Logger

	mu      sync.RWMutex
	configs map[string]*pgxpool.Config
	pools   map[string]*pgxpool.Pool
}

// New creates a registry deriving per-alias configs from template, which
// describes the default connection (host, port, credentials, pool sizing).
func New(template *pgxpool.Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		template: template,
		logger:   logger,
		configs:  make(map[string]*pgxpool.Config),
		pools:    make(map[string]*pgxpool.Pool),
	}
}

// Parse is a convenience constructor building the template config from a
// connection string.
func Parse(connString string, logger *slog.Logger) (*Registry, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger), nil
}

// Ensure returns the connection config for alias, deriving and storing it
// on first use. Re-registration is a no-op returning the existing entry.
func (r *Registry) Ensure(alias string) (*pgxpool.Config, error) {
	if alias == "" {
		return nil, ErrEmptyAlias
	}

	r.mu.RLock()
	cfg, ok := r.configs[alias]
	r.mu.RUnlock()
	if ok {
		return cfg, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg, ok := r.configs[alias]; ok {
		return cfg, nil
	}

	cfg = r.template.Copy()
	cfg.ConnConfig.Database = alias
	r.configs[alias] = cfg

	metrics.RegisteredAliases.Set(float64(len(r.configs)))
	r.logger.Info("registered database alias", "alias", alias)
	return cfg, nil
}

// Config returns the stored config for alias without registering it.
func (r *Registry) Config(alias string) (*pgxpool.Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[alias]
	return cfg, ok
}

// Pool returns the connection pool for alias, dialing it on first use.
// The pool is created once and shared by all subsequent callers.
func (r *Registry) Pool(ctx context.Context, alias string) (*pgxpool.Pool, error) {
	r.mu.RLock()
	pool, ok := r.pools[alias]
	r.mu.RUnlock()
	if ok {
		return pool, nil
	}

	cfg, err := r.Ensure(alias)
	if err != nil {
		return nil, err
	}

	// Dialing under the lock serializes concurrent first connections to
	// the same alias so only one pool is ever created per database.
	r.mu.Lock()
	defer r.mu.Unlock()
	if pool, ok := r.pools[alias]; ok {
		return pool, nil
	}

	pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Join(ErrDialFailed, err)
	}
	r.pools[alias] = pool
	return pool, nil
}

// Aliases returns a snapshot of all registered aliases.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.configs))
	for alias := range r.configs {
		out = append(out, alias)
	}
	return out
}

// Close closes all opened pools. Configs stay registered; the registry is
// append-only until process exit.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for alias, pool := range r.pools {
		pool.Close()
		delete(r.pools, alias)
	}
}
