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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/wilayah/internal/iocache"
	"github.com/gnames/wilayah/internal/ioimport"
	"github.com/gnames/wilayah/internal/iostore"
	"github.com/gnames/wilayah/internal/ioweb"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/lookup"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getServeCmd() *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lookup HTTP server",
		Long: `Serve cascading region lookups as JSON over HTTP.

Endpoints:
  GET /api/v1/provinces?search=
  GET /api/v1/regencies?province_id=&search=
  GET /api/v1/districts?regency_id=&search=
  GET /api/v1/villages?district_id=&search=
  GET /api/v1/provinces/{id}
  GET /api/v1/regencies/{id}
  GET /api/v1/districts/{id}
  GET /api/v1/villages/{id}
  GET /api/v1/levels/{level}?parent_id=&search=
  GET /api/v1/levels/{level}/{id}
  GET /api/v1/stats
  GET /api/v1/ping
  GET /metrics

With the memory driver the CSV sources are imported on start.
When cache.redis_addr is set, lookups are cached in redis.

Examples:
  wilayah serve
  wilayah serve --port 8080
  wilayah serve -d memory -p 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Update([]config.Option{config.OptServerPort(port)})
			}
			return runServe()
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0,
		"port of the lookup server")

	return serveCmd
}

func runServe() error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	st, err := iostore.Open(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer st.Close()

	if cfg.Database.Driver == "memory" {
		gn.Info("Loading regions from <em>%s</em> into memory", cfg.Import.Path)
		imp := ioimport.New(cfg, st)
		rep, err := imp.Import(ctx, lifecycle.Reset, ioimport.Sources(cfg))
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		gn.Info("Loaded <em>%d</em> regions", rep.Inserted())
	}

	var svcOpts []lookup.Option
	cache, err := iocache.New(ctx, cfg)
	if err != nil {
		// lookups work without cache
		gn.PrintErrorMessage(err)
	}
	if cache != nil {
		defer cache.Close()
		svcOpts = append(svcOpts, lookup.OptCache(cache))
	}

	svc := lookup.New(st, svcOpts...)
	gn.Info("Lookup server listens on port <em>%d</em>", cfg.Server.Port)
	if err = ioweb.New(cfg, svc).Run(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
