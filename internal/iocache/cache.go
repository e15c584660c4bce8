// Package iocache implements lookup.Cache on top of Redis.
package iocache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/wilayah/internal/iometrics"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/lookup"
	"github.com/redis/go-redis/v9"
)

// Cache keeps gob-encoded lookup results in Redis.
type Cache struct {
	rc  *redis.Client
	ttl time.Duration
	enc gnfmt.Encoder
}

// New connects to Redis described by cfg.Cache. It returns nil without an
// error when no Redis address is configured.
func New(ctx context.Context, cfg *config.Config) (*Cache, error) {
	addr := cfg.Cache.RedisAddr
	if addr == "" {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pctx).Err(); err != nil {
		_ = rc.Close()
		return nil, ConnectionError(addr, err)
	}

	slog.Info("Connected to redis", "addr", addr, "db", cfg.Cache.RedisDB)
	return &Cache{
		rc:  rc,
		ttl: time.Duration(cfg.Cache.TTL) * time.Second,
		enc: gnfmt.GNgob{},
	}, nil
}

// Get decodes the value stored under key into v.
func (c *Cache) Get(ctx context.Context, key string, v any) (bool, error) {
	bs, err := c.rc.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		iometrics.CacheMissesTotal.Inc()
		return false, nil
	}
	if err != nil {
		iometrics.CacheErrorsTotal.Inc()
		return false, err
	}
	if err = c.enc.Decode(bs, v); err != nil {
		iometrics.CacheErrorsTotal.Inc()
		return false, err
	}
	iometrics.CacheHitsTotal.Inc()
	return true, nil
}

// Set stores v under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	bs, err := c.enc.Encode(v)
	if err != nil {
		return err
	}
	err = c.rc.Set(ctx, key, bs, c.ttl).Err()
	if err != nil {
		iometrics.CacheErrorsTotal.Inc()
	}
	return err
}

// Purge removes all lookup entries. It runs after every import, so stale
// results never outlive the data they came from.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	var keys []string
	iter := c.rc.Scan(ctx, 0, lookup.KeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, PurgeError(err)
	}

	var res int
	for len(keys) > 0 {
		n := min(len(keys), 500)
		del, err := c.rc.Del(ctx, keys[:n]...).Result()
		if err != nil {
			return res, PurgeError(err)
		}
		res += int(del)
		keys = keys[n:]
	}
	slog.Info("Cache purged", "keys", res)
	return res, nil
}

// Close disconnects from Redis.
func (c *Cache) Close() error {
	return c.rc.Close()
}
