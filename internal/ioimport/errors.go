package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// StrictError aborts an import in strict mode on the first rejected row.
func StrictError(path string, line int, err error) error {
	msg := `Import aborted in strict mode at <em>%s</em> line %d

<em>How to fix:</em>
  1. Fix the row in the source file
  2. Or run import without --strict to skip bad rows`
	vars := []any{path, line}
	return &gn.Error{
		Code: errcode.ImportStrictError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("strict mode: %w", err),
	}
}

// CancelledError is returned when the import context is done before the
// run finished.
func CancelledError(err error) error {
	msg := "Import was cancelled"
	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("import cancelled: %w", err),
	}
}

// SourcesError is returned when the list of sources is unusable.
func SourcesError(reason string) error {
	msg := "Cannot import: %s"
	vars := []any{reason}
	return &gn.Error{
		Code: errcode.ImportSourceFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("sources: %s", reason),
	}
}
