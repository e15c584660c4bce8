package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/gnames/wilayah/pkg/region"
)

// QueryError is returned when reading regions fails.
func QueryError(lvl region.Level, err error) error {
	msg := "Cannot read <em>%s</em> from the database"
	vars := []any{lvl.Plural()}
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("query %s: %w", lvl.Table(), err),
	}
}

// WriteError is returned when inserting regions fails.
func WriteError(lvl region.Level, err error) error {
	msg := "Cannot save <em>%s</em> to the database"
	vars := []any{lvl.Plural()}
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert into %s: %w", lvl.Table(), err),
	}
}

// ClearError is returned when a level cannot be cleared.
func ClearError(lvl region.Level, err error) error {
	msg := "Cannot remove <em>%s</em> from the database"
	vars := []any{lvl.Plural()}
	return &gn.Error{
		Code: errcode.StoreClearError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("clear %s: %w", lvl.Table(), err),
	}
}

// StageError is returned when a staged write cannot be started or
// published.
func StageError(err error) error {
	msg := "Cannot publish imported data, the database is unchanged"
	return &gn.Error{
		Code: errcode.StoreStageError,
		Msg:  msg,
		Err:  fmt.Errorf("stage: %w", err),
	}
}

// UnknownDriverError is returned by Open for an unsupported driver.
func UnknownDriverError(driver string) error {
	msg := "Unknown database driver <em>%s</em>, use postgres, sqlite or memory"
	vars := []any{driver}
	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown database driver %q", driver),
	}
}
