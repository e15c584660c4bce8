// Package lookup serves cascading, searchable queries over the region
// hierarchy. It only reads from the store and keeps no mutable state, so
// a Service can be used by any number of goroutines.
package lookup

import (
	"context"

	"github.com/gnames/wilayah/pkg/region"
)

// MaxSearchLen is the maximum length of a search string in characters.
const MaxSearchLen = 100

// Service answers lookup queries.
type Service interface {
	// List returns children of parentID at the level whose names contain
	// search, ordered by name, then id. Provinces ignore parentID.
	// An unknown parent gives an empty slice.
	List(
		ctx context.Context,
		lvl region.Level,
		parentID, search string,
	) ([]region.Region, error)

	Provinces(ctx context.Context, search string) ([]region.Region, error)
	Regencies(ctx context.Context, provinceID, search string) ([]region.Region, error)
	Districts(ctx context.Context, regencyID, search string) ([]region.Region, error)
	Villages(ctx context.Context, districtID, search string) ([]region.Region, error)

	// Get returns one region of the level. Unknown id gives
	// a NotFoundError.
	Get(ctx context.Context, lvl region.Level, id string) (region.Region, error)

	// Village returns a village with all its ancestors. Unknown id gives
	// a NotFoundError.
	Village(ctx context.Context, id string) (region.VillageDetail, error)

	// Stats returns the number of stored regions per level.
	Stats(ctx context.Context) (Stats, error)
}

// Cache keeps results of lookups. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get decodes a cached value into v. The boolean is false on a miss.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Set stores v under the key.
	Set(ctx context.Context, key string, v any) error
}

// Stats holds region counts.
type Stats struct {
	Provinces int `json:"provinces"`
	Regencies int `json:"regencies"`
	Districts int `json:"districts"`
	Villages  int `json:"villages"`
}

// Total is the number of all stored regions.
func (s Stats) Total() int {
	return s.Provinces + s.Regencies + s.Districts + s.Villages
}

// Count returns the number of regions of the level.
func (s Stats) Count(lvl region.Level) int {
	switch lvl {
	case region.Province:
		return s.Provinces
	case region.Regency:
		return s.Regencies
	case region.District:
		return s.Districts
	case region.Village:
		return s.Villages
	default:
		return 0
	}
}
