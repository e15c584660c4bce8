/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/internal/iofs"
	"github.com/gnames/wilayah/internal/iologger"
	wilayah "github.com/gnames/wilayah/pkg"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
	driver  string
)

// getRootCmd builds the command tree. A new tree is created on every
// call, so tests get independent instances.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			wilayah.Version, wilayah.Build),
		Use:   "wilayah",
		Short: "Wilayah imports and serves Indonesian administrative regions",
		Long: `Wilayah keeps the administrative hierarchy of Indonesia
(Province → Regency → District → Village) in a database and serves
cascading, searchable lookups for address selection forms.

Commands:
  - create:  create the database schema
  - migrate: update the schema to the latest version
  - import:  load CSV sources into the database
  - serve:   start the lookup HTTP server
  - stats:   show the number of stored regions

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (WILAYAH_*), also read from .env
  3. Config file (~/.config/wilayah/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → WILAYAH_DATABASE_HOST).

  Examples:
    WILAYAH_DATABASE_DRIVER         postgres, sqlite or memory
    WILAYAH_DATABASE_HOST           PostgreSQL host
    WILAYAH_IMPORT_PATH             directory with CSV sources
    DATA_INDONESIA_PATH             fallback for WILAYAH_IMPORT_PATH
    WILAYAH_CACHE_REDIS_ADDR        enables redis cache of lookups
    WILAYAH_LOG_LEVEL               debug, info, warn, error

Without a subcommand the effective configuration is printed.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "wilayah version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for wilayah")

	rootCmd.PersistentFlags().StringVarP(&driver, "driver", "d", "",
		"store backend: postgres, sqlite or memory")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getImportCmd(),
		getServeCmd(),
		getStatsCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error

	// .env is optional
	if err = godotenv.Load(); err != nil && !os.IsNotExist(err) {
		gn.Warn("Cannot read <em>.env</em>: %v", err)
	}

	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.New().Log
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	if cfg.Import.Path == "" {
		if path := os.Getenv(config.DataPathEnv); path != "" {
			cfg.Update([]config.Option{config.OptImportPath(path)})
		}
	}
	if cmd.Flags().Changed("driver") {
		cfg.Update([]config.Option{config.OptDatabaseDriver(driver)})
	}

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

// runRoot prints the effective configuration with secrets masked.
func runRoot(cmd *cobra.Command, args []string) error {
	show := *cfg
	if show.Database.Password != "" {
		show.Database.Password = "****"
	}
	if show.Cache.RedisPassword != "" {
		show.Cache.RedisPassword = "****"
	}
	bs, err := yaml.Marshal(show)
	if err != nil {
		return err
	}

	gn.Info("Configuration file: <em>%s</em>\n", config.ConfigFilePath(homeDir))
	fmt.Fprint(cmd.OutOrStdout(), string(bs))
	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)
	// keys missing from an older config.yaml keep their defaults
	v.SetDefault("import.uppercase_names", config.New().Import.UppercaseNames)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "WILAYAH_DATABASE_DRIVER")
	v.BindEnv("database.host", "WILAYAH_DATABASE_HOST")
	v.BindEnv("database.port", "WILAYAH_DATABASE_PORT")
	v.BindEnv("database.user", "WILAYAH_DATABASE_USER")
	v.BindEnv("database.password", "WILAYAH_DATABASE_PASSWORD")
	v.BindEnv("database.database", "WILAYAH_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "WILAYAH_DATABASE_SSL_MODE")
	v.BindEnv("database.sqlite_path", "WILAYAH_DATABASE_SQLITE_PATH")
	v.BindEnv("database.batch_size", "WILAYAH_DATABASE_BATCH_SIZE")

	// Import configuration
	v.BindEnv("import.path", "WILAYAH_IMPORT_PATH")
	v.BindEnv("import.strict", "WILAYAH_IMPORT_STRICT")
	v.BindEnv("import.uppercase_names", "WILAYAH_IMPORT_UPPERCASE_NAMES")
	v.BindEnv("import.max_reported_errors", "WILAYAH_IMPORT_MAX_REPORTED_ERRORS")
	v.BindEnv("import.province_file", "WILAYAH_IMPORT_PROVINCE_FILE")
	v.BindEnv("import.regency_file", "WILAYAH_IMPORT_REGENCY_FILE")
	v.BindEnv("import.district_file", "WILAYAH_IMPORT_DISTRICT_FILE")
	v.BindEnv("import.village_file", "WILAYAH_IMPORT_VILLAGE_FILE")

	// Server configuration
	v.BindEnv("server.port", "WILAYAH_SERVER_PORT")
	v.BindEnv("server.request_timeout", "WILAYAH_SERVER_REQUEST_TIMEOUT")
	v.BindEnv("server.rate_limit", "WILAYAH_SERVER_RATE_LIMIT")

	// Cache configuration
	v.BindEnv("cache.redis_addr", "WILAYAH_CACHE_REDIS_ADDR")
	v.BindEnv("cache.redis_password", "WILAYAH_CACHE_REDIS_PASSWORD")
	v.BindEnv("cache.redis_db", "WILAYAH_CACHE_REDIS_DB")
	v.BindEnv("cache.ttl", "WILAYAH_CACHE_TTL")

	// Log configuration
	v.BindEnv("log.level", "WILAYAH_LOG_LEVEL")
	v.BindEnv("log.format", "WILAYAH_LOG_FORMAT")
	v.BindEnv("log.destination", "WILAYAH_LOG_DESTINATION")

	v.AutomaticEnv()
}
