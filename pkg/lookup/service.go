package lookup

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
)

// KeyPrefix starts every cache key written by the service.
const KeyPrefix = "wilayah:"

type service struct {
	st    store.Reader
	cache Cache
}

// Option configures the Service.
type Option func(*service)

// OptCache puts a read-through cache in front of the store.
// A nil cache disables caching.
func OptCache(c Cache) Option {
	return func(s *service) {
		s.cache = c
	}
}

// New creates a Service reading from st.
func New(st store.Reader, opts ...Option) Service {
	res := &service{st: st}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (s *service) List(
	ctx context.Context,
	lvl region.Level,
	parentID, search string,
) ([]region.Region, error) {
	parentID = strings.TrimSpace(parentID)
	if err := validate(lvl, parentID, search); err != nil {
		return nil, err
	}
	if lvl == region.Province {
		parentID = ""
	}
	search = region.NormalizeSearch(search)

	key := listKey(lvl, parentID, search)
	var res []region.Region
	if !s.fromCache(ctx, key, &res) {
		var err error
		res, err = s.st.ListByParent(ctx, lvl, parentID, search)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, key, res)
	}
	if res == nil {
		res = []region.Region{}
	}
	return res, nil
}

func (s *service) Provinces(ctx context.Context, search string) ([]region.Region, error) {
	return s.List(ctx, region.Province, "", search)
}

func (s *service) Regencies(
	ctx context.Context,
	provinceID, search string,
) ([]region.Region, error) {
	return s.List(ctx, region.Regency, provinceID, search)
}

func (s *service) Districts(
	ctx context.Context,
	regencyID, search string,
) ([]region.Region, error) {
	return s.List(ctx, region.District, regencyID, search)
}

func (s *service) Villages(
	ctx context.Context,
	districtID, search string,
) ([]region.Region, error) {
	return s.List(ctx, region.Village, districtID, search)
}

func (s *service) Get(
	ctx context.Context,
	lvl region.Level,
	id string,
) (region.Region, error) {
	var res region.Region
	if !lvl.IsValid() {
		return res, InvalidQueryError("unknown level %q", lvl.String())
	}
	id = strings.TrimSpace(id)
	if !region.IsValidID(id) {
		return res, InvalidQueryError("malformed %s id %q", lvl.String(), id)
	}

	key := KeyPrefix + lvl.String() + ":id:" + id
	if s.fromCache(ctx, key, &res) {
		return res, nil
	}

	res, ok, err := s.st.Get(ctx, lvl, id)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, NotFoundError(lvl, id)
	}
	s.toCache(ctx, key, res)
	return res, nil
}

func (s *service) Village(ctx context.Context, id string) (region.VillageDetail, error) {
	var res region.VillageDetail
	id = strings.TrimSpace(id)
	if !region.IsValidID(id) {
		return res, InvalidQueryError("malformed village id %q", id)
	}

	key := KeyPrefix + "village:" + id
	if s.fromCache(ctx, key, &res) {
		return res, nil
	}

	// village, district, regency, province
	var chain [4]region.Region
	lvl, next := region.Village, id
	for i := range chain {
		r, ok, err := s.st.Get(ctx, lvl, next)
		if err != nil {
			return res, err
		}
		if !ok {
			if lvl == region.Village {
				return res, NotFoundError(region.Village, id)
			}
			return res, store.IntegrityError(lvl.Child(), chain[i-1].ID, next)
		}
		chain[i] = r
		lvl, next = lvl.Parent(), r.ParentID
	}

	res = region.VillageDetail{
		ID:           chain[0].ID,
		Name:         chain[0].Name,
		DistrictID:   chain[1].ID,
		DistrictName: chain[1].Name,
		RegencyID:    chain[2].ID,
		RegencyName:  chain[2].Name,
		ProvinceID:   chain[3].ID,
		ProvinceName: chain[3].Name,
	}
	s.toCache(ctx, key, res)
	return res, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	var res Stats
	counts := []*int{&res.Provinces, &res.Regencies, &res.Districts, &res.Villages}
	for i, lvl := range region.Levels() {
		n, err := s.st.CountAll(ctx, lvl)
		if err != nil {
			return res, err
		}
		*counts[i] = n
	}
	return res, nil
}

func validate(lvl region.Level, parentID, search string) error {
	if !lvl.IsValid() {
		return InvalidQueryError("unknown level %q", lvl.String())
	}
	if lvl.HasParent() {
		if parentID == "" {
			return InvalidQueryError("%s is required", lvl.ParentColumn())
		}
		if !region.IsValidID(parentID) {
			return InvalidQueryError("malformed %s %q", lvl.ParentColumn(), parentID)
		}
	}
	if utf8.RuneCountInString(search) > MaxSearchLen {
		return InvalidQueryError("search is longer than %d characters", MaxSearchLen)
	}
	return nil
}

func listKey(lvl region.Level, parentID, search string) string {
	return KeyPrefix + lvl.Plural() + ":" + parentID + ":" + search
}

func (s *service) fromCache(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, v)
	if err != nil {
		slog.Warn("Cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *service) toCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}
