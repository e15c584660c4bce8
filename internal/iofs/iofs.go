// Package iofs prepares the file system layout of wilayah: config, cache
// and data directories, and the config file created from an embedded
// template.
package iofs

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"

	"github.com/gnames/wilayah/pkg/config"
)

// ConfigYAML is the template of config.yaml. Its values are the
// defaults of config.New().
//
//go:embed config.yaml
var ConfigYAML string

// Dirs lists directories wilayah keeps under the home directory.
func Dirs(homeDir string) []string {
	return []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.DataDir(homeDir),
		config.LogDir(homeDir),
	}
}

// EnsureDirs creates missing directories returned by Dirs.
func EnsureDirs(homeDir string) error {
	for _, dir := range Dirs(homeDir) {
		if err := touchDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// touchDir leaves an existing directory and its permissions alone.
func touchDir(dir string) error {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}
	return nil
}

// EnsureConfigFile writes ConfigYAML to the config file path unless the
// file exists already. User edits are never overwritten.
func EnsureConfigFile(homeDir string) error {
	path := config.ConfigFilePath(homeDir)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return ReadFileError(path, err)
	}

	if err = os.WriteFile(path, []byte(ConfigYAML), 0644); err != nil {
		return WriteConfigError(path, err)
	}
	return nil
}
