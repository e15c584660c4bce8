package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "wilayah"

	// EnvPrefix is the prefix of environment variables read by wilayah.
	EnvPrefix = "WILAYAH"

	// DataPathEnv is a legacy variable with the location of CSV sources.
	// It is used when import.path is not set.
	DataPathEnv = "DATA_INDONESIA_PATH"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/wilayah by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/wilayah by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory for local data such as the SQLite
// database. Returns ~/.local/share/wilayah by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/wilayah/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/wilayah/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLitePath returns the database file of the sqlite driver. An explicit
// Database.SQLitePath wins over the default location in DataDir.
func (c *Config) SQLitePath() string {
	if c.Database.SQLitePath != "" {
		return c.Database.SQLitePath
	}
	return filepath.Join(DataDir(c.HomeDir), "wilayah.sqlite")
}

// SourcePaths returns full paths of the CSV sources in import order:
// provinces, regencies, districts, villages.
func (c *Config) SourcePaths() []string {
	return []string{
		filepath.Join(c.Import.Path, c.Import.ProvinceFile),
		filepath.Join(c.Import.Path, c.Import.RegencyFile),
		filepath.Join(c.Import.Path, c.Import.DistrictFile),
		filepath.Join(c.Import.Path, c.Import.VillageFile),
	}
}
