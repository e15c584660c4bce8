// Package lifecycle defines the stages a region database goes through:
// schema creation and bulk import.
package lifecycle

import (
	"context"
)

// SchemaManager defines the interface for database schema management.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the region tables and their parent indexes.
	// On PostgreSQL it also applies "C" collation to name columns, so
	// database ordering matches the ordering of Go strings.
	Create(ctx context.Context) error

	// Migrate updates existing tables to the latest version of the models.
	Migrate(ctx context.Context) error
}
