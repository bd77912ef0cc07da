// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes category search over HTTP. Each request runs one
// independent search against the configured source; the handler shares
// nothing but the immutable configuration and the source.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pdiddy/threatwatch/internal/category"
	"github.com/pdiddy/threatwatch/internal/export"
	"github.com/pdiddy/threatwatch/internal/logging"
	"github.com/pdiddy/threatwatch/internal/search"
	"github.com/pdiddy/threatwatch/internal/source"
	"github.com/pdiddy/threatwatch/pkg/types"
)

const (
	// DefaultAddr is used when ServeConfig.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultRequestTimeout bounds one search request when unset.
	DefaultRequestTimeout = 30 * time.Second

	// HeaderError carries a non-fatal search error on CSV responses.
	HeaderError = "X-Threatwatch-Error"

	// HeaderRequestID echoes the per-request identifier.
	HeaderRequestID = "X-Request-Id"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	cfg    types.Config
	src    source.NewsSource
	logger *log.Logger

	// now is the clock passed to search.Run. Nil means wall time.
	now func() time.Time
}

// New returns a Server for src. A nil logger discards output.
func New(cfg types.Config, src source.NewsSource, logger *log.Logger) *Server {
	return &Server{cfg: cfg, src: src, logger: logging.OrDiscard(logger)}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/categories", s.handleCategories)
	r.Get("/search", s.handleSearch)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Serve.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.requestTimeout() + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "source", s.src.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) requestTimeout() time.Duration {
	if s.cfg.Serve.RequestTimeout > 0 {
		return s.cfg.Serve.RequestTimeout
	}
	return DefaultRequestTimeout
}

// requestID tags each request with a UUID, echoes it in the response, and
// logs the request when it completes.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "source": s.src.Name()})
}

type categoryResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
	Expression  string `json:"expression"`
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	all := category.All()
	out := make([]categoryResponse, len(all))
	for i, c := range all {
		out[i] = categoryResponse{
			ID:          c.ID,
			Label:       c.Label,
			Description: c.Description,
			Hint:        c.Hint,
			Expression:  c.Expression(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type searchResponse struct {
	Category string       `json:"category"`
	Keyword  string       `json:"keyword"`
	Query    string       `json:"query"`
	Source   string       `json:"source"`
	Fetched  int          `json:"fetched"`
	Stale    int          `json:"stale"`
	Undated  int          `json:"undated"`
	Error    string       `json:"error,omitempty"`
	Records  []export.Row `json:"records"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cat, err := category.Lookup(q.Get("category"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	format := export.FormatCSV
	if raw := strings.TrimSpace(q.Get("format")); raw != "" {
		format, err = export.ParseFormat(raw)
		if err != nil || format == export.FormatTable {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unsupported format %q: use csv, json, or yaml", raw)})
			return
		}
	}

	keyword := q.Get("keyword")
	if !category.HasKeyword(keyword) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout())
	defer cancel()

	opts := search.OptionsFromConfig(s.cfg.Search, s.logger)
	opts.Now = s.now
	res := search.Run(ctx, s.src, search.Request{Category: cat, Keyword: keyword}, opts)

	switch format {
	case export.FormatJSON:
		resp := searchResponse{
			Category: res.CategoryID,
			Keyword:  res.Keyword,
			Query:    res.Query,
			Source:   res.Source,
			Fetched:  res.Fetched,
			Stale:    res.Stale,
			Undated:  res.Undated,
			Records:  export.Rows(res.Records, res.Publisher),
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		writeJSON(w, http.StatusOK, resp)

	case export.FormatYAML:
		if res.Err != nil {
			w.Header().Set(HeaderError, res.Err.Error())
		}
		w.Header().Set("Content-Type", "application/yaml")
		if err := export.YAML(w, res.Records, res.Publisher); err != nil {
			s.logger.Error("writing YAML response", "err", err)
		}

	default:
		if res.Err != nil {
			w.Header().Set(HeaderError, res.Err.Error())
		}
		name := export.Filename(keyword, cat.ID, export.FormatCSV.Ext())
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if err := export.CSV(w, res.Records, res.Publisher); err != nil {
			s.logger.Error("writing CSV response", "err", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
