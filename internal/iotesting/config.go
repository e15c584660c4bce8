// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gnames/wilayah/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "wilayah_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database settings can be changed with WILAYAH_DATABASE_* environment
// variables. The database name is always TestDatabaseName.
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	env := func(key string) string {
		return strings.TrimSpace(os.Getenv(config.EnvPrefix + "_DATABASE_" + key))
	}
	if s := env("HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := env("PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := env("USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := env("PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	if s := env("SSL_MODE"); s != "" {
		opts = append(opts, config.OptDatabaseSSLMode(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// WriteCSV writes content to a file in dir and returns the file path.
func WriteCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
