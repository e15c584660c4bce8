// Package store defines the contract of the region storage. Implementations
// live in internal/iostore.
package store

import (
	"context"

	"github.com/gnames/wilayah/pkg/region"
)

// Reader provides read access to stored regions.
type Reader interface {
	// Exists checks if a region with the given id is stored at the level.
	Exists(ctx context.Context, lvl region.Level, id string) (bool, error)

	// ExistingIDs returns the subset of ids that are already stored at the
	// level. It is a batched form of Exists.
	ExistingIDs(
		ctx context.Context,
		lvl region.Level,
		ids []string,
	) (map[string]struct{}, error)

	// ListByParent returns children of parentID at the level, filtered by a
	// case-insensitive substring of the name and ordered by name, then id.
	// For provinces parentID is ignored. Unknown parents give empty result.
	//
	// Case folding is guaranteed for ASCII letters only, which is what
	// SQLite LIKE and PostgreSQL ILIKE under the C collation agree on.
	// Other letters match only in the same case on every backend, so
	// "é" does not find "É". Official names are ASCII upper case.
	ListByParent(
		ctx context.Context,
		lvl region.Level,
		parentID, search string,
	) ([]region.Region, error)

	// Get returns a single region. The boolean is false if the region is
	// not found.
	Get(ctx context.Context, lvl region.Level, id string) (region.Region, bool, error)

	// CountAll returns the number of regions stored at the level.
	CountAll(ctx context.Context, lvl region.Level) (int, error)
}

// Writer adds modifications to Reader. The importer is the only client
// that writes.
type Writer interface {
	Reader

	// Upsert inserts a region if its id is absent and does nothing
	// otherwise. Returns true if a row was inserted. Returns an
	// integrity error if the parent does not exist.
	Upsert(ctx context.Context, lvl region.Level, r region.Region) (bool, error)

	// InsertBatch inserts regions skipping ids that already exist and
	// returns the number of inserted rows. The batch is written by one
	// statement. Parents are not checked, callers validate them with
	// ExistingIDs of the parent level.
	InsertBatch(ctx context.Context, lvl region.Level, rs []region.Region) (int, error)

	// Clear removes all regions of the level and of every level below it.
	// Levels are cleared bottom-up, so no orphans are left.
	Clear(ctx context.Context, lvl region.Level) error
}

// Store is a complete region storage.
type Store interface {
	Writer

	// Stage runs fn with a staged Writer. All writes done by fn become
	// visible to readers at once when fn returns nil. If fn returns an
	// error or ctx is cancelled, the staged writes are discarded.
	Stage(ctx context.Context, fn func(Writer) error) error

	// Close releases resources held by the store.
	Close() error
}
