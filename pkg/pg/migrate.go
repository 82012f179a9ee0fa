package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/partstack/tenantdb/pkg/registry"
)

// Migrate applies schema migrations to one database using goose.
// Goose speaks database/sql, so the pgx pool is bridged through stdlib.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	if cfg.MigrationsPath == "" {
		return errors.Join(ErrFailedToApplyMigrations, ErrMigrationPathNotProvided)
	}

	if _, err := os.Stat(cfg.MigrationsPath); err != nil {
		if os.IsNotExist(err) {
			return errors.Join(ErrMigrationsDirNotFound, err)
		}
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}(db)

	goose.SetLogger(&gooseSlogAdapter{log: log})
	goose.SetTableName(cfg.MigrationsTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, cfg.MigrationsPath); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return nil
}

// MigrateGate decides whether migrations may run against an alias. A nil
// gate admits every registered alias.
type MigrateGate func(alias string) bool

// MigrateAll applies migrations to every database registered in reg whose
// alias passes gate. Failures are collected per alias so one broken tenant
// database does not block the rest.
func MigrateAll(ctx context.Context, reg *registry.Registry, cfg Config, log *slog.Logger, gate MigrateGate) error {
	var errs []error
	for _, alias := range reg.Aliases() {
		if gate != nil && !gate(alias) {
			log.InfoContext(ctx, "skipping migrations for alias", "alias", alias)
			continue
		}

		pool, err := reg.Pool(ctx, alias)
		if err != nil {
			errs = append(errs, fmt.Errorf("alias %s: %w", alias, err))
			continue
		}

		log.InfoContext(ctx, "applying migrations", "alias", alias)
		if err := Migrate(ctx, pool, cfg, log); err != nil {
			errs = append(errs, fmt.Errorf("alias %s: %w", alias, err))
		}
	}
	return errors.Join(errs...)
}

// gooseSlogAdapter routes goose's Printf-style logging through slog.
type gooseSlogAdapter struct {
	log *slog.Logger
}

func (a *gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.log.Error(fmt.Sprintf(format, v...))
}

func (a *gooseSlogAdapter) Printf(format string, v ...any) {
	a.log.Info(fmt.Sprintf(format, v...))
}
