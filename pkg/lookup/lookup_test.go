package lookup_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/internal/iostore"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/gnames/wilayah/pkg/lookup"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	st := iostore.NewMemory()
	data := map[region.Level][]region.Region{
		region.Province: {
			{ID: "31", Name: "DKI JAKARTA"},
			{ID: "32", Name: "JAWA BARAT"},
			{ID: "11", Name: "ACEH"},
		},
		region.Regency: {
			{ID: "31.72", Name: "KOTA JAKARTA UTARA", ParentID: "31"},
			{ID: "31.71", Name: "KOTA JAKARTA PUSAT", ParentID: "31"},
			{ID: "32.73", Name: "KOTA BANDUNG", ParentID: "32"},
		},
		region.District: {
			{ID: "31.71.01", Name: "GAMBIR", ParentID: "31.71"},
		},
		region.Village: {
			{ID: "31.71.01.1002", Name: "CIDENG", ParentID: "31.71.01"},
			{ID: "31.71.01.1001", Name: "GAMBIR", ParentID: "31.71.01"},
		},
	}
	for _, lvl := range region.Levels() {
		_, err := st.InsertBatch(ctx, lvl, data[lvl])
		require.NoError(t, err)
	}
	return st
}

func names(rs []region.Region) []string {
	res := make([]string, 0, len(rs))
	for _, r := range rs {
		res = append(res, r.Name)
	}
	return res
}

func TestCascade(t *testing.T) {
	ctx := context.Background()
	svc := lookup.New(newStore(t))

	res, err := svc.Provinces(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ACEH", "DKI JAKARTA", "JAWA BARAT"}, names(res))

	res, err = svc.Regencies(ctx, "31", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"KOTA JAKARTA PUSAT", "KOTA JAKARTA UTARA"}, names(res))

	res, err = svc.Districts(ctx, "31.71", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"GAMBIR"}, names(res))

	res, err = svc.Villages(ctx, "31.71.01", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"CIDENG", "GAMBIR"}, names(res))
	for _, r := range res {
		assert.Equal(t, "31.71.01", r.ParentID)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := lookup.New(newStore(t))

	tests := []struct {
		msg    string
		lvl    region.Level
		parent string
		search string
		res    []string
	}{
		{"jak", region.Province, "", "jak", []string{"DKI JAKARTA"}},
		{"case", region.Province, "", " JaK ", []string{"DKI JAKARTA"}},
		{"parent ignored", region.Province, "99", "a", []string{"ACEH", "DKI JAKARTA", "JAWA BARAT"}},
		{"no match", region.Province, "", "bali", []string{}},
		{"scoped", region.Regency, "32", "jakarta", []string{}},
		{"pusat", region.Regency, "31", "pusat", []string{"KOTA JAKARTA PUSAT"}},
		{"unknown parent", region.Village, "99.99.99", "", []string{}},
	}

	for _, v := range tests {
		res, err := svc.List(ctx, v.lvl, v.parent, v.search)
		require.NoError(t, err, v.msg)
		assert.NotNil(t, res, v.msg)
		assert.Equal(t, v.res, names(res), v.msg)
	}
}

func TestInvalidQuery(t *testing.T) {
	ctx := context.Background()
	svc := lookup.New(newStore(t))

	tests := []struct {
		msg    string
		lvl    region.Level
		parent string
		search string
	}{
		{"unknown level", region.Unknown, "", ""},
		{"out of range level", region.Level(7), "31", ""},
		{"missing parent", region.Regency, "", ""},
		{"negative parent", region.Regency, "-1", ""},
		{"letters", region.District, "abc", ""},
		{"long search", region.Province, "", strings.Repeat("a", lookup.MaxSearchLen+1)},
	}

	for _, v := range tests {
		_, err := svc.List(ctx, v.lvl, v.parent, v.search)
		require.Error(t, err, v.msg)
		assert.True(t, store.HasCode(err, errcode.LookupInvalidQueryError), v.msg)
	}
}

func TestVillage(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := lookup.New(st)

	res, err := svc.Village(ctx, "31.71.01.1001")
	require.NoError(t, err)
	assert.Equal(t, region.VillageDetail{
		ID:           "31.71.01.1001",
		Name:         "GAMBIR",
		DistrictID:   "31.71.01",
		DistrictName: "GAMBIR",
		RegencyID:    "31.71",
		RegencyName:  "KOTA JAKARTA PUSAT",
		ProvinceID:   "31",
		ProvinceName: "DKI JAKARTA",
	}, res)

	_, err = svc.Village(ctx, "31.71.01.9999")
	assert.True(t, store.HasCode(err, errcode.LookupNotFoundError))

	_, err = svc.Village(ctx, "x")
	assert.True(t, store.HasCode(err, errcode.LookupInvalidQueryError))
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc := lookup.New(newStore(t))

	tests := []struct {
		msg  string
		lvl  region.Level
		id   string
		res  region.Region
		code gn.ErrorCode
	}{
		{"province", region.Province, "31",
			region.Region{ID: "31", Name: "DKI JAKARTA"}, 0},
		{"regency", region.Regency, " 32.73 ",
			region.Region{ID: "32.73", Name: "KOTA BANDUNG", ParentID: "32"}, 0},
		{"district", region.District, "31.71.01",
			region.Region{ID: "31.71.01", Name: "GAMBIR", ParentID: "31.71"}, 0},
		{"unknown", region.District, "31.71.09", region.Region{},
			errcode.LookupNotFoundError},
		{"other level", region.Regency, "31", region.Region{},
			errcode.LookupNotFoundError},
		{"malformed", region.Province, "-1", region.Region{},
			errcode.LookupInvalidQueryError},
		{"bad level", region.Unknown, "31", region.Region{},
			errcode.LookupInvalidQueryError},
	}

	for _, v := range tests {
		res, err := svc.Get(ctx, v.lvl, v.id)
		if v.code != 0 {
			assert.True(t, store.HasCode(err, v.code), v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestStats(t *testing.T) {
	svc := lookup.New(newStore(t))
	res, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lookup.Stats{Provinces: 3, Regencies: 3, Districts: 1, Villages: 2}, res)
	assert.Equal(t, 9, res.Total())
	assert.Equal(t, 3, res.Count(region.Regency))
	assert.Equal(t, 0, res.Count(region.Unknown))
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
	fail bool
}

func (c *mapCache) Get(_ context.Context, key string, v any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.fail {
		return false, errors.New("cache is down")
	}
	bs, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(bs, v)
}

func (c *mapCache) Set(_ context.Context, key string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache is down")
	}
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = bs
	return nil
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	cache := &mapCache{data: make(map[string][]byte)}
	svc := lookup.New(st, lookup.OptCache(cache))

	res, err := svc.Provinces(ctx, "JAK")
	require.NoError(t, err)
	assert.Equal(t, []string{"DKI JAKARTA"}, names(res))
	assert.Equal(t, 0, cache.hits)

	// normalized search hits the same key
	res, err = svc.Provinces(ctx, "jak ")
	require.NoError(t, err)
	assert.Equal(t, []string{"DKI JAKARTA"}, names(res))
	assert.Equal(t, 1, cache.hits)
	assert.Contains(t, cache.data, lookup.KeyPrefix+"provinces::jak")

	res, err = svc.Villages(ctx, "99.99.99", "")
	require.NoError(t, err)
	assert.NotNil(t, res)
	res, err = svc.Villages(ctx, "99.99.99", "")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	_, err = svc.Village(ctx, "31.71.01.1002")
	require.NoError(t, err)
	vd, err := svc.Village(ctx, "31.71.01.1002")
	require.NoError(t, err)
	assert.Equal(t, "CIDENG", vd.Name)
	assert.Equal(t, 3, cache.hits)

	_, err = svc.Get(ctx, region.Regency, "32.73")
	require.NoError(t, err)
	r, err := svc.Get(ctx, region.Regency, "32.73")
	require.NoError(t, err)
	assert.Equal(t, "KOTA BANDUNG", r.Name)
	assert.Equal(t, 4, cache.hits)
	assert.Contains(t, cache.data, lookup.KeyPrefix+"regency:id:32.73")
}

func TestCacheFailure(t *testing.T) {
	cache := &mapCache{data: make(map[string][]byte), fail: true}
	svc := lookup.New(newStore(t), lookup.OptCache(cache))

	res, err := svc.Provinces(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, res, 3)
	assert.Equal(t, 1, cache.gets)
}

func TestConcurrentReads(t *testing.T) {
	ctx := context.Background()
	svc := lookup.New(newStore(t))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Regencies(ctx, "31", "jakarta")
			assert.NoError(t, err)
			assert.Len(t, res, 2)
		}()
	}
	wg.Wait()
}
