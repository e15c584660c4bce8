package ioschema

import (
	"context"
	"database/sql"

	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/schema"
)

// sqliteManager creates region tables in SQLite from DDL generated
// by schema models.
type sqliteManager struct {
	db *sql.DB
}

// NewSQLiteManager creates a new SchemaManager for SQLite.
func NewSQLiteManager(db *sql.DB) lifecycle.SchemaManager {
	return &sqliteManager{db: db}
}

// Create creates region tables and indexes if they do not exist.
func (m *sqliteManager) Create(ctx context.Context) error {
	if m.db == nil {
		return NotConnectedError()
	}
	for _, q := range schema.DDL() {
		if _, err := m.db.ExecContext(ctx, q); err != nil {
			return CreateSchemaError(err)
		}
	}
	return nil
}

// Migrate is the same as Create, the DDL is idempotent.
func (m *sqliteManager) Migrate(ctx context.Context) error {
	if err := m.Create(ctx); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}
