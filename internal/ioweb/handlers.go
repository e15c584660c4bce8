package ioweb

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/wilayah/internal/iometrics"
	"github.com/gnames/wilayah/pkg/errcode"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Stats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleProvinces(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, region.Province, "")
}

func (s *Server) handleRegencies(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, region.Regency, r.URL.Query().Get("province_id"))
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, region.District, r.URL.Query().Get("regency_id"))
}

func (s *Server) handleVillages(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, region.Village, r.URL.Query().Get("district_id"))
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	lvl := region.NewLevel(chi.URLParam(r, "level"))
	s.list(w, r, lvl, r.URL.Query().Get("parent_id"))
}

// handleGet returns a handler of one region of the level.
func (s *Server) handleGet(lvl region.Level) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.get(w, r, lvl)
	}
}

func (s *Server) handleLevelGet(w http.ResponseWriter, r *http.Request) {
	s.get(w, r, region.NewLevel(chi.URLParam(r, "level")))
}

func (s *Server) get(w http.ResponseWriter, r *http.Request, lvl region.Level) {
	start := time.Now()
	res, err := s.svc.Get(r.Context(), lvl, chi.URLParam(r, "id"))
	observe(lvl, start, err, 1)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleVillage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := s.svc.Village(r.Context(), chi.URLParam(r, "id"))
	observe(region.Village, start, err, 1)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) list(
	w http.ResponseWriter,
	r *http.Request,
	lvl region.Level,
	parentID string,
) {
	start := time.Now()
	search := r.URL.Query().Get("search")
	res, err := s.svc.List(r.Context(), lvl, parentID, search)
	observe(lvl, start, err, len(res))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func observe(lvl region.Level, start time.Time, err error, n int) {
	if store.HasCode(err, errcode.LookupInvalidQueryError) {
		iometrics.LookupInvalidTotal.Inc()
		return
	}
	l := lvl.String()
	iometrics.LookupRequestsTotal.WithLabelValues(l).Inc()
	iometrics.LookupDurationMs.WithLabelValues(l).
		Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err == nil && n == 0 {
		iometrics.LookupEmptyTotal.WithLabelValues(l).Inc()
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(v)
	if err != nil {
		slog.Error("Cannot encode response", "error", err)
		status = http.StatusInternalServerError
		bs, _ = enc.Encode(ErrorResponse{
			Error: http.StatusText(status),
			Code:  int(errcode.UnknownError),
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(bs)
}

// respondError maps lookup errors to client errors and hides details of
// everything else.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	res := ErrorResponse{
		Error: http.StatusText(status),
		Code:  int(errcode.UnknownError),
	}

	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		res.Code = int(gnErr.Code)
		switch gnErr.Code {
		case errcode.LookupInvalidQueryError:
			status = http.StatusBadRequest
			res.Error = gnErr.Err.Error()
		case errcode.LookupNotFoundError:
			status = http.StatusNotFound
			res.Error = gnErr.Err.Error()
		}
	}

	if status == http.StatusInternalServerError {
		slog.Error("Lookup failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	respondJSON(w, status, res)
}
