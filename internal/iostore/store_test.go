package iostore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/wilayah/internal/iodb"
	"github.com/gnames/wilayah/internal/ioschema"
	"github.com/gnames/wilayah/internal/iostore"
	"github.com/gnames/wilayah/internal/iotesting"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed fills a store with a small tree:
//
//	11 ACEH
//	  11.01 KAB. ACEH SELATAN
//	    11.01.01 BAKONGAN
//	      11.01.01.2001 KEUDE BAKONGAN
//	      11.01.01.2002 ujong mangki
//	31 DKI JAKARTA
//	  31.71 KOTA JAKARTA SELATAN
//	32 JAWA BARAT
func seed(t *testing.T, s store.Writer) {
	t.Helper()
	ctx := context.Background()
	data := []struct {
		lvl region.Level
		rs  []region.Region
	}{
		{region.Province, []region.Region{
			{ID: "32", Name: "JAWA BARAT"},
			{ID: "11", Name: "ACEH"},
			{ID: "31", Name: "DKI JAKARTA"},
		}},
		{region.Regency, []region.Region{
			{ID: "11.01", Name: "KAB. ACEH SELATAN", ParentID: "11"},
			{ID: "31.71", Name: "KOTA JAKARTA SELATAN", ParentID: "31"},
		}},
		{region.District, []region.Region{
			{ID: "11.01.01", Name: "BAKONGAN", ParentID: "11.01"},
		}},
		{region.Village, []region.Region{
			{ID: "11.01.01.2002", Name: "ujong mangki", ParentID: "11.01.01"},
			{ID: "11.01.01.2001", Name: "KEUDE BAKONGAN", ParentID: "11.01.01"},
		}},
	}
	for _, v := range data {
		n, err := s.InsertBatch(ctx, v.lvl, v.rs)
		require.NoError(t, err)
		require.Equal(t, len(v.rs), n)
	}
}

func ids(rs []region.Region) []string {
	res := make([]string, len(rs))
	for i := range rs {
		res[i] = rs[i].ID
	}
	return res
}

// testStore runs the same behaviour checks against any backend.
// newStore must return an empty store with schema in place.
func testStore(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("list and search", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		res, err := s.ListByParent(ctx, region.Province, "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"11", "31", "32"}, ids(res))

		res, err = s.ListByParent(ctx, region.Province, "", " jak ")
		require.NoError(t, err)
		assert.Equal(t, []string{"31"}, ids(res))

		res, err = s.ListByParent(ctx, region.Regency, "11", "")
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, region.Region{
			ID: "11.01", Name: "KAB. ACEH SELATAN", ParentID: "11",
		}, res[0])

		res, err = s.ListByParent(ctx, region.Village, "11.01.01", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"11.01.01.2001", "11.01.01.2002"}, ids(res))

		res, err = s.ListByParent(ctx, region.Village, "11.01.01", "MANGKI")
		require.NoError(t, err)
		assert.Equal(t, []string{"11.01.01.2002"}, ids(res))

		// case folds for ASCII letters only
		_, err = s.Upsert(ctx, region.District, region.Region{
			ID: "31.71.01", Name: "SÉLÉ", ParentID: "31.71",
		})
		require.NoError(t, err)
		for _, q := range []string{"SÉL", "sÉ", "lÉ"} {
			res, err = s.ListByParent(ctx, region.District, "31.71", q)
			require.NoError(t, err)
			assert.Equal(t, []string{"31.71.01"}, ids(res), q)
		}
		for _, q := range []string{"sé", "sél"} {
			res, err = s.ListByParent(ctx, region.District, "31.71", q)
			require.NoError(t, err)
			assert.Empty(t, res, q)
		}

		// unknown parent gives empty result
		res, err = s.ListByParent(ctx, region.Regency, "99", "")
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)

		// wildcards are literal
		res, err = s.ListByParent(ctx, region.Province, "", "%")
		require.NoError(t, err)
		assert.Empty(t, res)
		res, err = s.ListByParent(ctx, region.Province, "", "_")
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("get exists count", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		r, ok, err := s.Get(ctx, region.District, "11.01.01")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "11.01", r.ParentID)

		_, ok, err = s.Get(ctx, region.District, "99.99.99")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.Exists(ctx, region.Province, "11")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Exists(ctx, region.Regency, "11")
		require.NoError(t, err)
		assert.False(t, ok)

		ex, err := s.ExistingIDs(ctx, region.Province, []string{"11", "12", "32"})
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"11": {}, "32": {}}, ex)

		ex, err = s.ExistingIDs(ctx, region.Province, nil)
		require.NoError(t, err)
		assert.Empty(t, ex)

		n, err := s.CountAll(ctx, region.Village)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("insert skips existing ids", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		n, err := s.InsertBatch(ctx, region.Province, []region.Region{
			{ID: "11", Name: "CHANGED"},
			{ID: "12", Name: "SUMATERA UTARA"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		r, _, err := s.Get(ctx, region.Province, "11")
		require.NoError(t, err)
		assert.Equal(t, "ACEH", r.Name)
	})

	t.Run("upsert checks parent", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		ok, err := s.Upsert(ctx, region.Regency, region.Region{
			ID: "32.01", Name: "KAB. BOGOR", ParentID: "32",
		})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Upsert(ctx, region.Regency, region.Region{
			ID: "32.01", Name: "KAB. BOGOR", ParentID: "32",
		})
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Upsert(ctx, region.Regency, region.Region{
			ID: "99.01", Name: "NOWHERE", ParentID: "99",
		})
		require.Error(t, err)
		assert.True(t, store.IsIntegrityError(err))
	})

	t.Run("clear cascades", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		require.NoError(t, s.Clear(ctx, region.Regency))

		expected := map[region.Level]int{
			region.Province: 3,
			region.Regency:  0,
			region.District: 0,
			region.Village:  0,
		}
		for lvl, num := range expected {
			n, err := s.CountAll(ctx, lvl)
			require.NoError(t, err)
			assert.Equal(t, num, n, lvl.String())
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ListByParent(ctx, region.Unknown, "", "")
		require.Error(t, err)
		_, err = s.CountAll(ctx, region.Level(9))
		require.Error(t, err)
	})

	t.Run("stage publishes all writes", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.Stage(ctx, func(w store.Writer) error {
			if err := w.Clear(ctx, region.Province); err != nil {
				return err
			}
			_, err := w.InsertBatch(ctx, region.Province, []region.Region{
				{ID: "51", Name: "BALI"},
			})
			return err
		})
		require.NoError(t, err)

		res, err := s.ListByParent(ctx, region.Province, "", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"51"}, ids(res))
		n, err := s.CountAll(ctx, region.Village)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("stage discards writes on error", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		boom := errors.New("boom")
		err := s.Stage(ctx, func(w store.Writer) error {
			if err := w.Clear(ctx, region.Province); err != nil {
				return err
			}
			n, err := w.CountAll(ctx, region.Province)
			require.NoError(t, err)
			assert.Equal(t, 0, n)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		n, err := s.CountAll(ctx, region.Province)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		n, err = s.CountAll(ctx, region.Village)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) store.Store {
		s := iostore.NewMemory()
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestMemoryStageIsolation(t *testing.T) {
	ctx := context.Background()
	s := iostore.NewMemory()
	seed(t, s)

	err := s.Stage(ctx, func(w store.Writer) error {
		if err := w.Clear(ctx, region.Province); err != nil {
			return err
		}
		// readers of the published store still see old data
		n, err := s.CountAll(ctx, region.Province)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		return nil
	})
	require.NoError(t, err)

	n, err := s.CountAll(ctx, region.Province)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := iostore.NewMemory()
	seed(t, s)

	err := s.Stage(ctx, func(w store.Writer) error {
		cancel()
		return w.Clear(ctx, region.Province)
	})
	require.Error(t, err)

	n, err := s.CountAll(context.Background(), region.Province)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		db, err := iodb.OpenSQLite(ctx, ":memory:")
		require.NoError(t, err)
		require.NoError(t, ioschema.NewSQLiteManager(db).Create(ctx))
		s := iostore.NewSQLite(db)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(t.TempDir()),
		config.OptDatabaseDriver("sqlite"),
	})
	s, err := iostore.Open(ctx, cfg)
	require.NoError(t, err)
	n, err := s.CountAll(ctx, region.Province)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NoError(t, s.Close())
	assert.FileExists(t, cfg.SQLitePath())

	cfg.Update([]config.Option{config.OptDatabaseDriver("memory")})
	s, err = iostore.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	cfg.Database.Driver = "oracle"
	_, err = iostore.Open(ctx, cfg)
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	defer op.Close()
	require.NoError(t, ioschema.NewManager(op).Create(ctx))

	testStore(t, func(t *testing.T) store.Store {
		s := iostore.NewPostgres(op.Pool())
		require.NoError(t, s.Clear(ctx, region.Province))
		return s
	})
}
