package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     pg_isready -h %s -p %d
  2. Verify database <em>%s</em> exists and user <em>%s</em> can access it
  3. Check ~/.config/wilayah/config.yaml or WILAYAH_DATABASE_* variables
  4. Use <em>database.driver: sqlite</em> for a local file database`

	vars := []any{host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError is returned when an operation needs a pool that
// was not created yet.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// EmptyDatabaseError is returned when region tables are missing.
func EmptyDatabaseError(host, database string) error {
	msg := `Database <em>%s</em> on <em>%s</em> has no region tables

<em>How to fix:</em>
  1. Create the schema:
     wilayah create
  2. Import the data:
     wilayah import --path /path/to/csv`

	vars := []any{database, host}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"database %s has no tables, run 'wilayah create' first",
			database),
	}
}

// TableExistsCheckError is returned when table existence query fails.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// QueryTablesError is returned when listing tables fails.
func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Cannot get list of database tables",
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError is returned when a table name cannot be read.
func ScanTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  "Cannot read list of database tables",
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}

// SQLiteOpenError is returned when a SQLite file cannot be opened.
func SQLiteOpenError(path string, err error) error {
	msg := "Cannot open SQLite database <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to open sqlite %s: %w", path, err),
	}
}
