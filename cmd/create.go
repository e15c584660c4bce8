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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/internal/iodb"
	"github.com/gnames/wilayah/internal/ioschema"
	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create database schema",
		Long: `Create the regions schema from scratch.

This command:
  1. Connects to the database of the configured driver
  2. Checks for existing tables and prompts for confirmation
  3. Creates provinces, regencies, districts and villages tables
     (GORM AutoMigrate on PostgreSQL, plain DDL on SQLite)
  4. Sets "C" collation of names on PostgreSQL

The memory driver needs no schema.

Use --force to skip confirmation and drop existing tables.

Examples:
  wilayah create
  wilayah create --force
  wilayah create -d sqlite -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, forceCreate)
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(
	_ *cobra.Command,
	_ []string,
	force bool,
) error {
	ctx := context.Background()

	var sm lifecycle.SchemaManager
	switch cfg.Database.Driver {
	case "memory":
		gn.Info("Driver <em>memory</em> does not need a schema.")
		return nil

	case "sqlite":
		path := cfg.SQLitePath()
		if _, err := os.Stat(path); err == nil {
			if !force && !confirm("Database file "+path+" exists already.") {
				gn.Info("Aborted. No changes made.")
				return nil
			}
			if err = os.Remove(path); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			gn.Info("Removed <em>%s</em>", path)
		}

		sqlDB, err := iodb.OpenSQLite(ctx, path)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer sqlDB.Close()
		gn.Info("Opened SQLite database: <em>%s</em>", path)
		sm = ioschema.NewSQLiteManager(sqlDB)

	default:
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer op.Close()

		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)

		tables, err := op.RegionTables(ctx)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}

		if len(tables) > 0 {
			reason := fmt.Sprintf("Database contains region tables: %s.",
				strings.Join(tables, ", "))
			if !force && !confirm(reason) {
				gn.Info("Aborted. No changes made.")
				return nil
			}
			gn.Info("Dropping region tables...")
			if err := op.DropRegionTables(ctx); err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			gn.Info("Region tables dropped")
		}
		sm = ioschema.NewManager(op)
	}

	gn.Info("Creating schema...")
	if err := sm.Create(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("\nDatabase schema creation complete!")
	gn.Info("\nNext steps:")
	gn.Info("  - Run 'wilayah import' to load regions")
	gn.Info("  - Run 'wilayah serve' to start the lookup server")

	return nil
}

// confirm asks the user before destructive changes.
func confirm(reason string) bool {
	gn.Warn("\nWarning: %s", reason)
	gn.Warn("Creating schema will drop ALL existing regions.")
	fmt.Print("\nDo you want to continue? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		gn.Warn("Failed to read user input")
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}
