// Package ioweb serves the lookup service over HTTP as read-only JSON
// endpoints for cascading address selection.
package ioweb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gnames/wilayah/internal/iometrics"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/lookup"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"golang.org/x/sync/errgroup"
)

// Server is the HTTP front of the lookup service.
type Server struct {
	cfg    *config.Config
	svc    lookup.Service
	router *chi.Mux
}

// New creates a Server with all routes registered.
func New(cfg *config.Config, svc lookup.Service) *Server {
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(
		time.Duration(s.cfg.Server.RequestTimeout) * time.Second,
	))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if n := s.cfg.Server.RateLimit; n > 0 {
		s.router.Use(httprate.LimitByIP(n, time.Minute))
	}
}

func (s *Server) setupRoutes() {
	s.router.Method("GET", "/metrics", iometrics.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/stats", s.handleStats)

		r.Get("/provinces", s.handleProvinces)
		r.Get("/provinces/{id}", s.handleGet(region.Province))
		r.Get("/regencies", s.handleRegencies)
		r.Get("/regencies/{id}", s.handleGet(region.Regency))
		r.Get("/districts", s.handleDistricts)
		r.Get("/districts/{id}", s.handleGet(region.District))
		r.Get("/villages", s.handleVillages)
		r.Get("/villages/{id}", s.handleVillage)

		r.Get("/levels/{level}", s.handleLevel)
		r.Get("/levels/{level}/{id}", s.handleLevelGet)
	})
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves requests until ctx is done, then shuts the server down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := ":" + strconv.Itoa(s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting lookup server", "addr", addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if err != nil {
			return StartError(addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Stopping lookup server")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
