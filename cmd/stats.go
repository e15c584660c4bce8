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
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/wilayah/internal/iostore"
	"github.com/gnames/wilayah/pkg/lookup"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number of stored regions per level",
		Long: `Stats prints how many provinces, regencies, districts and
villages are stored in the configured database.

Examples:
  wilayah stats
  wilayah stats -d sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}

	return statsCmd
}

func runStats(cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := iostore.Open(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer st.Close()

	stats, err := lookup.New(st).Stats(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	out := cmd.OutOrStdout()
	for _, lvl := range region.Levels() {
		fmt.Fprintf(out, "%-10s %10s\n", lvl.Plural(),
			humanize.Comma(int64(stats.Count(lvl))))
	}
	fmt.Fprintf(out, "%-10s %10s\n", "total", humanize.Comma(int64(stats.Total())))
	return nil
}
