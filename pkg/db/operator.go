// Package db defines the PostgreSQL connection contract shared by the
// schema manager and the PostgreSQL region store.
package db

import (
	"context"

	"github.com/gnames/wilayah/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages a PostgreSQL connection pool and the level tables.
type Operator interface {
	// Connect creates the pool.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close releases the pool.
	Close() error

	// Pool returns the pool, it is nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks for a table in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// RegionTables returns names of existing level tables
	// (provinces, regencies, districts, villages) in import order.
	RegionTables(ctx context.Context) ([]string, error)

	// DropRegionTables drops the level tables, villages first.
	DropRegionTables(ctx context.Context) error
}
