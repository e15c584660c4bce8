// Package iodb opens database connections of wilayah: a pgxpool for
// PostgreSQL and a database/sql handle for SQLite.
package iodb

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"slices"

	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/db"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator with a pgxpool.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates an operator without connecting.
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect creates the pool and pings the server.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	connErr := func(err error) error {
		return ConnectionError(cfg.Host, cfg.Port, cfg.Database, cfg.User, err)
	}

	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return connErr(err)
	}

	// lookups of the server run in parallel, the importer needs two
	poolConfig.MaxConns = int32(max(4, runtime.NumCPU()))
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return connErr(err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return connErr(err)
	}

	p.pool = pool
	return nil
}

// DSN builds a PostgreSQL connection URL from the configuration.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

// Close releases all connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the pool, or nil before Connect.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks for a table in the public schema.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	const q = `SELECT EXISTS (
	SELECT FROM pg_tables
	WHERE schemaname = 'public' AND tablename = $1
)`

	var exists bool
	err := p.pool.QueryRow(ctx, q, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return exists, nil
}

// RegionTables returns the existing level tables in import order.
func (p *pgxOperator) RegionTables(ctx context.Context) ([]string, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	const q = `SELECT tablename FROM pg_tables
WHERE schemaname = 'public' AND tablename = ANY($1)`

	rows, err := p.pool.Query(ctx, q, levelTables())
	if err != nil {
		return nil, QueryTablesError(err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, ScanTableError(err)
	}

	var res []string
	for _, v := range levelTables() {
		if slices.Contains(found, v) {
			res = append(res, v)
		}
	}
	return res, nil
}

// DropRegionTables drops level tables, children first. Other tables of
// the database are left alone.
func (p *pgxOperator) DropRegionTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	tables := levelTables()
	slices.Reverse(tables)
	for _, table := range tables {
		q := "DROP TABLE IF EXISTS " + pgx.Identifier{table}.Sanitize() +
			" CASCADE"
		if _, err := p.pool.Exec(ctx, q); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func levelTables() []string {
	lvls := region.Levels()
	res := make([]string, len(lvls))
	for i, l := range lvls {
		res[i] = l.Table()
	}
	return res
}
