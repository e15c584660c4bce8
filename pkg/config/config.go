// Package config provides configuration management for wilayah.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode,
//     sqlite_path, batch_size
//   - Import: path, strict, uppercase_names, max_reported_errors, file names
//   - Server: port, request_timeout, rate_limit
//   - Cache: redis_addr, redis_password, redis_db, ttl
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Import.Clear, Import.DryRun (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use WILAYAH_ prefix with underscores for nesting:
//
//	WILAYAH_DATABASE_HOST=localhost
//	WILAYAH_DATABASE_DRIVER=postgres
//	WILAYAH_IMPORT_PATH=/data/wilayah
//	WILAYAH_LOG_LEVEL=info
//
// DATA_INDONESIA_PATH is honoured as a fallback for the import path.
package config

// Config represents the complete wilayah configuration.
type Config struct {
	// Database contains storage backend settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings of the bulk importer.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// Server contains settings of the lookup HTTP server.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Cache contains settings of the optional Redis lookup cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains storage connection parameters.
type DatabaseConfig struct {
	// Driver selects the store backend.
	// Valid values: "postgres", "sqlite", "memory".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// SQLitePath is the database file used by the sqlite driver.
	// Empty value means wilayah.sqlite in the data directory.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// BatchSize is the number of rows written by one bulk insert.
	// Larger batches amortize round trips, smaller ones keep each
	// write short.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ImportConfig contains settings of the bulk importer.
type ImportConfig struct {
	// Path is the directory with the four CSV source files.
	Path string `mapstructure:"path" yaml:"path"`

	// Strict aborts the import on the first malformed row or dangling
	// parent reference.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// UppercaseNames converts names to upper case before they are stored.
	// Official Kemendagri names are upper case, so it is on by default.
	UppercaseNames bool `mapstructure:"uppercase_names" yaml:"uppercase_names"`

	// MaxReportedErrors limits how many row errors are kept in the
	// import report.
	MaxReportedErrors int `mapstructure:"max_reported_errors" yaml:"max_reported_errors"`

	// ProvinceFile, RegencyFile, DistrictFile and VillageFile are the
	// source file names inside Path.
	ProvinceFile string `mapstructure:"province_file" yaml:"province_file"`
	RegencyFile  string `mapstructure:"regency_file" yaml:"regency_file"`
	DistrictFile string `mapstructure:"district_file" yaml:"district_file"`
	VillageFile  string `mapstructure:"village_file" yaml:"village_file"`

	// Clear switches the import to reset mode.
	// Runtime-only field.
	Clear bool `mapstructure:"-" yaml:"-"`

	// DryRun validates sources against an in-memory store only.
	// Runtime-only field.
	DryRun bool `mapstructure:"-" yaml:"-"`
}

// ServerConfig contains settings of the lookup HTTP server.
type ServerConfig struct {
	// Port the server listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// RequestTimeout is the maximum duration of a request in seconds.
	RequestTimeout int `mapstructure:"request_timeout" yaml:"request_timeout"`

	// RateLimit is the number of requests per minute allowed from one IP.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// CacheConfig contains settings of the Redis lookup cache.
// The cache is disabled when RedisAddr is empty.
type CacheConfig struct {
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`

	// TTL of cached lookups in seconds.
	TTL int `mapstructure:"ttl" yaml:"ttl"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    "postgres",
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "wilayah",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Import: ImportConfig{
			UppercaseNames:    true,
			MaxReportedErrors: 20,
			ProvinceFile:      "provinsi.csv",
			RegencyFile:       "kota.csv",
			DistrictFile:      "kecamatan.csv",
			VillageFile:       "kelurahan.csv",
		},
		Server: ServerConfig{
			Port:           8888,
			RequestTimeout: 30,
			RateLimit:      600,
		},
		Cache: CacheConfig{
			TTL: 600,
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
	}

	return res
}
