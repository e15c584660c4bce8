package store

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/gnames/wilayah/pkg/region"
)

// IntegrityError is returned when a region refers to a parent that does
// not exist.
func IntegrityError(lvl region.Level, id, parentID string) error {
	msg := "%s <em>%s</em> refers to unknown %s <em>%s</em>"
	vars := []any{lvl, id, lvl.Parent(), parentID}
	return &gn.Error{
		Code: errcode.StoreIntegrityError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("%s %s: parent %s %s does not exist",
			lvl, id, lvl.Parent(), parentID),
	}
}

// UnknownLevelError is returned when an operation gets a level outside of
// the hierarchy.
func UnknownLevelError(lvl region.Level) error {
	msg := "Unknown region level <em>%d</em>"
	vars := []any{int(lvl)}
	return &gn.Error{
		Code: errcode.StoreUnknownLevelError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown region level %d", int(lvl)),
	}
}

// HasCode checks if err or any error it wraps is a *gn.Error with the
// given code.
func HasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}

// IsIntegrityError checks if err is produced by IntegrityError.
func IsIntegrityError(err error) bool {
	return HasCode(err, errcode.StoreIntegrityError)
}
