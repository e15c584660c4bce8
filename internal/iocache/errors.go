package iocache

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// ConnectionError is returned when Redis does not answer.
func ConnectionError(addr string, err error) error {
	msg := `Cannot connect to redis at <em>%s</em>

<em>How to fix:</em>
  1. Start redis or check cache.redis_addr in config
  2. Set cache.redis_addr to empty string to run without cache`
	vars := []any{addr}
	return &gn.Error{
		Code: errcode.CacheConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("redis %s: %w", addr, err),
	}
}

// PurgeError is returned when cached lookups cannot be removed.
func PurgeError(err error) error {
	msg := "Cannot remove cached lookups, stale results may be served"
	return &gn.Error{
		Code: errcode.CachePurgeError,
		Msg:  msg,
		Err:  fmt.Errorf("purge cache: %w", err),
	}
}
