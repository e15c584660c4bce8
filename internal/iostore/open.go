// Package iostore implements the region store on PostgreSQL, SQLite
// and memory.
package iostore

import (
	"context"
	"log/slog"

	"github.com/gnames/wilayah/internal/iodb"
	"github.com/gnames/wilayah/internal/ioschema"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
)

// Open creates the store selected by Database.Driver. PostgreSQL
// tables have to exist already (wilayah create), SQLite tables are
// created on demand.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	dbCfg := cfg.Database
	switch dbCfg.Driver {
	case "postgres":
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &dbCfg); err != nil {
			return nil, err
		}
		ok, err := op.TableExists(ctx, region.Village.Table())
		if err != nil {
			op.Close()
			return nil, err
		}
		if !ok {
			op.Close()
			return nil, iodb.EmptyDatabaseError(dbCfg.Host, dbCfg.Database)
		}
		slog.Info("Opened PostgreSQL store",
			"host", dbCfg.Host, "database", dbCfg.Database)
		return &pgStore{pool: op.Pool(), q: op.Pool(), op: op}, nil

	case "sqlite":
		path := cfg.SQLitePath()
		db, err := iodb.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		if err = ioschema.NewSQLiteManager(db).Create(ctx); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("Opened SQLite store", "path", path)
		return NewSQLite(db), nil

	case "memory":
		slog.Info("Opened memory store")
		return NewMemory(), nil
	}

	return nil, UnknownDriverError(dbCfg.Driver)
}
