package iosource

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// SourceNotFoundError is returned when a source file does not exist.
func SourceNotFoundError(path string, err error) error {
	msg := `Source file <em>%s</em> not found

<em>How to fix:</em>
  1. Check the directory given by --path or import.path in config
  2. Check file names in the import section of config`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportSourceNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: source %s: %w", fn.Name(), path, err),
	}
}

// SourceOpenError is returned when a source cannot be opened or read.
func SourceOpenError(path string, err error) error {
	msg := "Cannot read source file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportSourceOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: read %s: %w", fn.Name(), path, err),
	}
}

// SourceFormatError is returned when the header row of a source does not
// describe the expected columns.
func SourceFormatError(path string, line int, header, expected []string) error {
	msg := `Unexpected header in <em>%s</em> line %d
  found:    %v
  expected: %v`
	vars := []any{path, line, header, expected}
	return &gn.Error{
		Code: errcode.ImportSourceFormatError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("%s:%d: header %v, expected %v",
			path, line, header, expected),
	}
}

// ParseError describes a malformed row.
func ParseError(path string, line int, id, reason string) error {
	msg := "Skipped row in <em>%s</em> line %d: %s"
	vars := []any{path, line, reason}
	return &gn.Error{
		Code: errcode.ImportParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s:%d (id %q): %s", path, line, id, reason),
	}
}
