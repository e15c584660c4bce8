package ioweb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// StartError is returned when the server cannot listen on its address.
func StartError(addr string, err error) error {
	msg := `Cannot start lookup server on <em>%s</em>

<em>How to fix:</em>
  1. Check that the port is free
  2. Use --port or server.port in config to pick another one`
	vars := []any{addr}
	return &gn.Error{
		Code: errcode.ServerStartError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("listen %s: %w", addr, err),
	}
}
