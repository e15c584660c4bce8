package iodb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/wilayah/internal/iodb"
	"github.com/gnames/wilayah/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These are integration tests that require PostgreSQL.
//
// Connection settings come from WILAYAH_DATABASE_* variables or
// ~/.config/wilayah/config.yaml. The database name is always forced to
// "wilayah_test". With Docker defaults (postgres/postgres) run:
//
//   docker run -d -e POSTGRES_PASSWORD=postgres -p 5432:5432 postgres:16
//   createdb -h localhost -U postgres wilayah_test
//
// Skip them with go test -short.

func TestPgxOperator_Connect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err, "Connect should succeed with valid config")

	defer op.Close()

	// Verify connection works by checking if we can query tables
	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err, "Should be able to execute commands after Connect")
	assert.False(t, exists)
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(ctx, cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxOperator_TableExists(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	// Clean up any existing test table
	_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS test_table_exists CASCADE")

	// Table should not exist initially
	exists, err := op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.False(t, exists, "Table should not exist initially")

	// Create table
	_, err = op.Pool().Exec(ctx, "CREATE TABLE test_table_exists (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)

	// Table should now exist
	exists, err = op.TableExists(ctx, "test_table_exists")
	require.NoError(t, err)
	assert.True(t, exists, "Table should exist after creation")

	// Clean up
	_, _ = op.Pool().Exec(ctx, "DROP TABLE test_table_exists")
}

func TestPgxOperator_RegionTables(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	defer op.Close()

	require.NoError(t, op.DropRegionTables(ctx))
	tables, err := op.RegionTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)

	_, err = op.Pool().Exec(ctx,
		"CREATE TABLE villages (id TEXT PRIMARY KEY)")
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx,
		"CREATE TABLE provinces (id TEXT PRIMARY KEY)")
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx,
		"CREATE TABLE IF NOT EXISTS unrelated_keep (id SERIAL PRIMARY KEY)")
	require.NoError(t, err)
	defer func() {
		_, _ = op.Pool().Exec(ctx, "DROP TABLE IF EXISTS unrelated_keep")
	}()

	tables, err = op.RegionTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"provinces", "villages"}, tables)

	require.NoError(t, op.DropRegionTables(ctx))
	tables, err = op.RegionTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)

	exists, err := op.TableExists(ctx, "unrelated_keep")
	require.NoError(t, err)
	assert.True(t, exists, "tables of other applications survive")
}

func TestPgxOperator_NotConnected(t *testing.T) {
	op := iodb.NewPgxOperator()
	ctx := context.Background()

	_, err := op.RegionTables(ctx)
	assert.Error(t, err)
	assert.Error(t, op.DropRegionTables(ctx))
	_, err = op.TableExists(ctx, "villages")
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "w.sqlite")

	db, err := iodb.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY)")
	assert.NoError(t, err)
	assert.FileExists(t, path)
}
