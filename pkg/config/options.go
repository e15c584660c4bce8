package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the store backend.
// Valid values: "postgres", "sqlite", "memory".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseSQLitePath sets the database file of the sqlite driver.
func OptDatabaseSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Database.SQLitePath = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per bulk insert.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptImportPath sets the directory with CSV source files.
func OptImportPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Import Path", s) {
			c.Import.Path = s
		}
	}
}

// OptImportStrict sets abort-on-first-error policy of the importer.
func OptImportStrict(b bool) Option {
	return func(c *Config) {
		c.Import.Strict = b
	}
}

// OptImportUppercaseNames sets upper-casing of names during import.
func OptImportUppercaseNames(b bool) Option {
	return func(c *Config) {
		c.Import.UppercaseNames = b
	}
}

// OptImportMaxReportedErrors sets how many row errors the import report
// keeps.
func OptImportMaxReportedErrors(i int) Option {
	return func(c *Config) {
		if isValidInt("Max Reported Errors", i) {
			c.Import.MaxReportedErrors = i
		}
	}
}

// OptImportProvinceFile sets the file name of the provinces source.
func OptImportProvinceFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Province File", s) {
			c.Import.ProvinceFile = s
		}
	}
}

// OptImportRegencyFile sets the file name of the regencies source.
func OptImportRegencyFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Regency File", s) {
			c.Import.RegencyFile = s
		}
	}
}

// OptImportDistrictFile sets the file name of the districts source.
func OptImportDistrictFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("District File", s) {
			c.Import.DistrictFile = s
		}
	}
}

// OptImportVillageFile sets the file name of the villages source.
func OptImportVillageFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Village File", s) {
			c.Import.VillageFile = s
		}
	}
}

// OptImportClear switches the importer to reset mode.
// Runtime-only field - not in ToOptions().
func OptImportClear(b bool) Option {
	return func(c *Config) {
		c.Import.Clear = b
	}
}

// OptImportDryRun makes the importer validate sources without touching
// the configured database.
// Runtime-only field - not in ToOptions().
func OptImportDryRun(b bool) Option {
	return func(c *Config) {
		c.Import.DryRun = b
	}
}

// OptServerPort sets the port of the lookup HTTP server.
func OptServerPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Server Port", i) {
			c.Server.Port = i
		}
	}
}

// OptServerRequestTimeout sets the request timeout in seconds.
func OptServerRequestTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Request Timeout", i) {
			c.Server.RequestTimeout = i
		}
	}
}

// OptServerRateLimit sets allowed requests per minute from one IP.
func OptServerRateLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Rate Limit", i) {
			c.Server.RateLimit = i
		}
	}
}

// OptCacheRedisAddr sets the Redis address; empty address disables cache.
func OptCacheRedisAddr(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Cache.RedisAddr = s
	}
}

// OptCacheRedisPassword sets the Redis password.
func OptCacheRedisPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Cache.RedisPassword = s
	}
}

// OptCacheRedisDB sets the Redis logical database.
func OptCacheRedisDB(i int) Option {
	return func(c *Config) {
		if i >= 0 {
			c.Cache.RedisDB = i
		}
	}
}

// OptCacheTTL sets the lifetime of cached lookups in seconds.
func OptCacheTTL(i int) Option {
	return func(c *Config) {
		if isValidInt("Cache TTL", i) {
			c.Cache.TTL = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
