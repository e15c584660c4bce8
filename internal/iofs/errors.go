package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/pkg/errcode"
)

// CreateDirError is returned when one of wilayah directories cannot be
// created.
func CreateDirError(dir string, err error) error {
	return fsError(errcode.CreateDirError, "Cannot create %s",
		dir, "create directory", err)
}

// WriteConfigError is returned when the config template cannot be
// written to the config file.
func WriteConfigError(path string, err error) error {
	return fsError(errcode.WriteConfigError,
		"Cannot write config file <em>%s</em>", path, "write config", err)
}

// ReadFileError is returned when an existing file cannot be read.
func ReadFileError(path string, err error) error {
	return fsError(errcode.ReadFileError, "Cannot read <em>%s</em>",
		path, "read file", err)
}

// fsError records the function that called the public constructor, so
// the log shows where the file system operation failed.
func fsError(
	code gn.ErrorCode,
	msg, path, action string,
	err error,
) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{path},
		Err: fmt.Errorf("from %s: cannot %s %s: %w",
			fn.Name(), action, path, err),
	}
}
