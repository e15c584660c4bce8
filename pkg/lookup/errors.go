package lookup

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/gnames/wilayah/pkg/region"
)

// InvalidQueryError is returned for malformed query input. It differs
// from an empty result, which is not an error.
func InvalidQueryError(format string, vars ...any) error {
	return &gn.Error{
		Code: errcode.LookupInvalidQueryError,
		Msg:  "Invalid query: " + format,
		Vars: vars,
		Err:  fmt.Errorf("invalid query: "+format, vars...),
	}
}

// NotFoundError is returned when a region requested by id does not exist.
func NotFoundError(lvl region.Level, id string) error {
	msg := "Cannot find %s <em>%s</em>"
	vars := []any{lvl.String(), id}
	return &gn.Error{
		Code: errcode.LookupNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s %s not found", lvl, id),
	}
}
