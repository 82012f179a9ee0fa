// Package pg owns the PostgreSQL engine boundary: the administrative
// connection used by catalog discovery, health checks, and goose schema
// migrations applied per tenant database.
package pg
