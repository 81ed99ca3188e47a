// Package server exposes the analysis pipeline over HTTP: extraction,
// relevance scoring, full analysis, and stored report retrieval.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tracewell/skiptrace/internal/config"
	"github.com/tracewell/skiptrace/internal/extract"
	"github.com/tracewell/skiptrace/internal/geo"
	"github.com/tracewell/skiptrace/internal/model"
	"github.com/tracewell/skiptrace/internal/pipeline"
	"github.com/tracewell/skiptrace/internal/relevance"
	"github.com/tracewell/skiptrace/internal/store"
)

// Server handles HTTP requests for the analysis API.
type Server struct {
	cfg       *config.Config
	analyzer  *pipeline.Analyzer
	extractor *extract.Extractor
	scorer    *relevance.Scorer
	store     store.Store
	limiter   *rate.Limiter
}

// New creates a Server wired from config, the geo table, and a store.
func New(cfg *config.Config, table *geo.Table, st store.Store) *Server {
	return &Server{
		cfg:       cfg,
		analyzer:  pipeline.New(cfg, table),
		extractor: extract.New(table),
		scorer:    relevance.NewScorer(cfg.Relevance, table),
		store:     st,
		limiter:   rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst),
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/relevance", s.handleRelevance)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Delete("/reports/{id}", s.handleDeleteReport)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		srv.Shutdown(ctx)
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// throttle applies a global token-bucket limit across all endpoints.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type extractRequest struct {
	Text    string              `json:"text"`
	Context model.SearchContext `json:"context"`
	Source  string              `json:"source"`
	Cap     int                 `json:"cap"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	entities := s.extractor.Extract(req.Text, req.Context, extract.Options{
		MaxEntities: req.Cap,
		Source:      req.Source,
	})
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities})
}

type relevanceRequest struct {
	Document pipeline.Document   `json:"document"`
	Context  model.SearchContext `json:"context"`
}

func (s *Server) handleRelevance(w http.ResponseWriter, r *http.Request) {
	var req relevanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Context.Name == "" {
		writeError(w, http.StatusBadRequest, "context.name is required")
		return
	}

	result := model.NewSearchResult(req.Document.Title, req.Document.Snippet,
		req.Document.URL, req.Document.Source, req.Document.Query)
	score := s.scorer.ScoreResult(result, req.Context)
	writeJSON(w, http.StatusOK, map[string]int{"score": score})
}

type analyzeRequest struct {
	Context   model.SearchContext `json:"context"`
	Documents []pipeline.Document `json:"documents"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Context.Name == "" {
		writeError(w, http.StatusBadRequest, "context.name is required")
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Context, req.Documents)
	if err != nil {
		zap.L().Error("analyze failed", zap.String("name", req.Context.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if err := s.store.SaveReport(r.Context(), report); err != nil {
		zap.L().Error("save report failed", zap.String("report", report.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to persist report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.store.GetReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("get report failed", zap.String("report", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	filter := store.ReportFilter{Name: r.URL.Query().Get("name")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	reports, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		zap.L().Error("list reports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.store.DeleteReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("delete report failed", zap.String("report", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
