package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Schema operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot open PostgreSQL connection for schema migration

<em>How to fix:</em>
  1. Run <em>wilayah create</em> again after checking the connection
  2. Check database section of ~/.config/wilayah/config.yaml`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create region tables

<em>Possible causes:</em>
  - Database user has no CREATE permission
  - Tables exist with an incompatible structure

<em>How to fix:</em>
  Run <em>wilayah create --force</em> to recreate the tables`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema
// migration failures.
func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot update region tables to the current version",
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// CollationError creates an error for collation
// setting failures.
func CollationError(table, column string, err error) error {
	msg := "Cannot set collation on <em>%s.%s</em>"
	vars := []any{table, column}

	return &gn.Error{
		Code: errcode.SchemaCollationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to set collation on %s.%s: %w",
			table, column, err),
	}
}
