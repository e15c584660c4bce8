// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate for PostgreSQL and runs
// tag-generated DDL for SQLite.
package ioschema

import (
	"context"

	"github.com/gnames/wilayah/pkg/db"
	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager for PostgreSQL.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// Create creates region tables using GORM AutoMigrate.
// Also applies collation settings for byte-wise name ordering.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	// Set collation for name columns
	// (ORDER BY name has to agree with Go ordering)
	if err := m.setCollation(ctx); err != nil {
		return err
	}

	return nil
}

// Migrate updates region tables to the latest version
// using GORM AutoMigrate.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	return m.setCollation(ctx)
}

func (m *manager) gorm() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	db := stdlib.OpenDBFromPool(pool)

	// Connect with GORM
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

// setCollation sets "C" collation on name columns.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	for _, g := range schema.Generators() {
		q := formatCollationSQL(g.TableName(), "name", 255)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(g.TableName(), "name", err)
		}
	}

	return nil
}
