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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/wilayah/internal/iocache"
	"github.com/gnames/wilayah/internal/ioimport"
	"github.com/gnames/wilayah/internal/iostore"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getImportCmd() *cobra.Command {
	var (
		clear     bool
		path      string
		strict    bool
		batchSize int
		dryRun    bool
		uppercase bool
	)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import regions from CSV sources",
		Long: `Import regions from four CSV files, one per level:
provinsi.csv, kota.csv, kecamatan.csv and kelurahan.csv (names are
configurable in the import section of config).

Columns are "id,name" for provinces and "id,parent_id,name" for the other
levels. A header row is optional; it is recognized by its first column
"id". Names are stored in upper case like the official data, use
--uppercase=false to keep the case of the sources.

Levels are imported parents first. Rows with malformed fields or with a
parent that does not exist are skipped and reported, unless --strict is
given, which aborts the import on the first such row.

Modes:
  incremental (default)  inserts new ids, skips existing ones
  reset (--clear)        replaces all regions; readers see the old data
                         until the new data is complete

The sources directory is taken from --path, import.path of config,
WILAYAH_IMPORT_PATH or DATA_INDONESIA_PATH (also from .env).

Examples:
  wilayah import -p ~/data/wilayah
  wilayah import --clear
  wilayah import --dry-run --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var importOpts []config.Option
			flags := cmd.Flags()
			if flags.Changed("path") {
				importOpts = append(importOpts, config.OptImportPath(path))
			}
			if flags.Changed("strict") {
				importOpts = append(importOpts, config.OptImportStrict(strict))
			}
			if flags.Changed("batch-size") {
				importOpts = append(importOpts, config.OptDatabaseBatchSize(batchSize))
			}
			if flags.Changed("uppercase") {
				importOpts = append(importOpts, config.OptImportUppercaseNames(uppercase))
			}
			importOpts = append(importOpts,
				config.OptImportClear(clear),
				config.OptImportDryRun(dryRun),
			)
			cfg.Update(importOpts)
			return runImport(cmd)
		},
	}

	importCmd.Flags().BoolVarP(&clear, "clear", "c", false,
		"replace all regions (reset mode)")
	importCmd.Flags().StringVarP(&path, "path", "p", "",
		"directory with CSV sources")
	importCmd.Flags().BoolVar(&strict, "strict", false,
		"abort on the first rejected row")
	importCmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0,
		"rows per bulk insert")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"validate sources against an empty in-memory store")
	importCmd.Flags().BoolVarP(&uppercase, "uppercase", "u", true,
		"store names in upper case, --uppercase=false keeps source case")

	return importCmd
}

func runImport(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if cfg.Import.Path == "" {
		err := errors.New("import path is not set")
		gn.Warn(`<warn>Directory with CSV sources is not set</warn>
   Use <em>--path</em>, <em>import.path</em> in config or <em>%s</em>`,
			config.DataPathEnv)
		return err
	}

	var st store.Store
	var err error
	if cfg.Import.DryRun {
		gn.Info("Dry run: validating sources against an in-memory store")
		st = iostore.NewMemory()
	} else {
		if st, err = iostore.Open(ctx, cfg); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}
	defer st.Close()

	mode := lifecycle.Incremental
	if cfg.Import.Clear {
		mode = lifecycle.Reset
	}

	gn.Info("Importing regions from <em>%s</em> (%s mode)",
		cfg.Import.Path, mode)
	imp := ioimport.New(cfg, st)
	rep, err := imp.Import(ctx, mode, ioimport.Sources(cfg))
	printReport(cmd, rep)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if !cfg.Import.DryRun && cfg.Database.Driver != "memory" {
		purgeCache(ctx)
	}

	gn.Info("Import finished in <em>%s</em>",
		gnfmt.TimeString(rep.Duration.Seconds()))
	return nil
}

// printReport writes per-level summary lines such as
// "Provinces: 38 (38 new)" and the first rejected rows.
func printReport(cmd *cobra.Command, rep *lifecycle.Report) {
	if rep == nil {
		return
	}
	out := cmd.OutOrStdout()
	for _, v := range rep.Levels {
		name := strings.ToUpper(v.Name[:1]) + v.Name[1:]
		line := fmt.Sprintf("%s: %s (%s new)", name,
			humanize.Comma(int64(v.Total)), humanize.Comma(int64(v.Inserted)))
		if v.Skipped > 0 {
			line += fmt.Sprintf(", %s skipped", humanize.Comma(int64(v.Skipped)))
		}
		if v.Failed > 0 {
			line += fmt.Sprintf(", %s failed", humanize.Comma(int64(v.Failed)))
		}
		fmt.Fprintln(out, line)
	}

	if rep.ErrorsTotal == 0 {
		return
	}
	gn.Warn("Rejected rows:")
	for _, v := range rep.Errors {
		gn.Warn("  %s:%d [%s] %s", v.File, v.Line, v.Kind, v.Msg)
	}
	if more := rep.ErrorsTotal - len(rep.Errors); more > 0 {
		gn.Warn("  ... and %s more, see the log (run id %s)",
			humanize.Comma(int64(more)), rep.RunID)
	}
}

// purgeCache drops cached lookups, which are stale after an import.
func purgeCache(ctx context.Context) {
	c, err := iocache.New(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return
	}
	if c == nil {
		return
	}
	defer c.Close()

	n, err := c.Purge(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return
	}
	gn.Info("Removed <em>%s</em> cached lookups", humanize.Comma(int64(n)))
}
