// Command tenantd runs the tenant-aware routing layer as a standalone
// service: it resolves a backing database for every request, serves the
// database selector, and exposes health and metrics endpoints.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/partstack/tenantdb/pkg/config"
	"github.com/partstack/tenantdb/pkg/discovery"
	"github.com/partstack/tenantdb/pkg/httpserver"
	"github.com/partstack/tenantdb/pkg/pg"
	"github.com/partstack/tenantdb/pkg/registry"
	"github.com/partstack/tenantdb/pkg/router"
	"github.com/partstack/tenantdb/pkg/selector"
	"github.com/partstack/tenantdb/pkg/session"
	"github.com/partstack/tenantdb/pkg/tenant"
)

type appConfig struct {
	PG   pg.Config
	HTTP httpserver.Config

	Pattern         string        `env:"TENANT_PATTERN"`                           // optional %s template switching on pattern mode
	DefaultDatabase string        `env:"TENANT_DEFAULT_DB" envDefault:"master"`    // fallback when discovery is unavailable
	DiscoveryTTL    time.Duration `env:"TENANT_DISCOVERY_TTL"`                     // >0 enables the discovery cache
	SessionTTL      time.Duration `env:"TENANT_SESSION_TTL" envDefault:"720h"`     // selection lifetime
	RedisURL        string        `env:"REDIS_URL"`                                // optional shared session store
	MigrateOnStart  bool          `env:"TENANT_MIGRATE_ON_START" envDefault:"false"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var cfg appConfig
	config.MustLoad(&cfg)

	ctx := context.Background()

	adminPool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer adminPool.Close()

	reg, err := registry.Parse(cfg.PG.ConnectionString, logger)
	if err != nil {
		logger.Error("failed to build connection registry", "error", err)
		os.Exit(1)
	}
	defer reg.Close()

	var disc tenant.Discoverer = discovery.NewResilient(
		discovery.NewCatalog(adminPool), cfg.DefaultDatabase, logger)
	if cfg.DiscoveryTTL > 0 {
		disc = discovery.NewCached(disc, cfg.DiscoveryTTL)
	}

	sessions := session.NewManager(newSelectionStore(ctx, cfg, logger),
		session.WithCookieTTL(cfg.SessionTTL))

	rt := router.New(reg, logger)

	if cfg.MigrateOnStart {
		if err := pg.MigrateAll(ctx, reg, cfg.PG, logger, nil); err != nil {
			logger.Error("failed to migrate tenant databases", "error", err)
			os.Exit(1)
		}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)

	mux.Mount("/select-db", selector.New(disc, sessions,
		selector.WithPattern(cfg.Pattern),
		selector.WithLogger(logger),
	).Routes())

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Healthcheck(adminPool)(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(disc, sessions,
			tenant.WithPattern(cfg.Pattern),
			tenant.WithLogger(logger),
		))

		// Sample tenant-aware endpoint: reports which database would
		// serve reads for the part model.
		r.Get("/parts/", func(w http.ResponseWriter, r *http.Request) {
			alias, ok := rt.ReadTarget(r.Context(), "part")
			if !ok {
				alias = cfg.DefaultDatabase
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"database": alias})
		})
	})

	if err := httpserver.New(cfg.HTTP, logger).Run(ctx, mux); err != nil {
		logger.Error("http server exited", "error", err)
		os.Exit(1)
	}
}

// newSelectionStore prefers Redis when configured so selections survive
// restarts and are shared across instances.
func newSelectionStore(ctx context.Context, cfg appConfig, logger *slog.Logger) session.Store {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(cfg.SessionTTL, time.Minute)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	return session.NewRedisStore(client, cfg.SessionTTL)
}
