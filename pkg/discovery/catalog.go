package discovery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrCatalogQuery wraps failures of the system catalog query.
var ErrCatalogQuery = errors.New("database catalog query failed")

// catalogQuery lists databases that accept connections, excluding
// templates. No ORDER BY: the engine's row order is the discovery order.
const catalogQuery = `SELECT datname FROM pg_database WHERE datallowconn AND NOT datistemplate`

// querier is the subset of pgxpool.Pool the catalog discoverer uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Catalog discovers databases from the PostgreSQL system catalog through
// an administrative connection, entirely distinct from the per-tenant
// data connections.
type Catalog struct {
	db querier
}

// NewCatalog creates a catalog discoverer on top of an admin pool.
func NewCatalog(db querier) *Catalog {
	return &Catalog{db: db}
}

// Databases queries pg_database and returns the database names.
func (c *Catalog) Databases(ctx context.Context) ([]string, error) {
	rows, err := c.db.Query(ctx, catalogQuery)
	if err != nil {
		return nil, errors.Join(ErrCatalogQuery, err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Join(ErrCatalogQuery, err)
	}
	return names, nil
}
