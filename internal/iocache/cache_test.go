package iocache_test

import (
	"context"
	"os"
	"testing"

	"github.com/gnames/wilayah/internal/iocache"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/gnames/wilayah/pkg/lookup"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabled(t *testing.T) {
	c, err := iocache.New(context.Background(), config.New())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test")
	}
	cfg := config.New()
	cfg.Update([]config.Option{config.OptCacheRedisAddr("127.0.0.1:1")})
	_, err := iocache.New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, store.HasCode(err, errcode.CacheConnectionError))
}

// TestRedis needs a running redis, its address is taken from
// WILAYAH_CACHE_REDIS_ADDR.
func TestRedis(t *testing.T) {
	addr := os.Getenv("WILAYAH_CACHE_REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("skipping redis integration test")
	}
	ctx := context.Background()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptCacheRedisAddr(addr),
		config.OptCacheRedisDB(15),
	})
	c, err := iocache.New(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, c)
	defer c.Close()

	key := lookup.KeyPrefix + "provinces::jak"
	in := []region.Region{{ID: "31", Name: "DKI JAKARTA"}}
	require.NoError(t, c.Set(ctx, key, in))

	var out []region.Region
	ok, err := c.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	ok, err = c.Get(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	// the service reads through the cache
	var _ lookup.Cache = c
}
