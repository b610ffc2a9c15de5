package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docmatch/internal/config"
	"github.com/knowledge-engine/docmatch/internal/corpus"
	"github.com/knowledge-engine/docmatch/internal/engine"
	"github.com/knowledge-engine/docmatch/internal/extract"
	"github.com/knowledge-engine/docmatch/internal/features"
	"github.com/knowledge-engine/docmatch/internal/metrics"
	"github.com/knowledge-engine/docmatch/internal/report"
	"github.com/knowledge-engine/docmatch/internal/storage"
)

const maxRequestBytes = 32 << 20

type Server struct {
	Engine    *engine.Engine
	Corpus    *corpus.Corpus
	Extractor corpus.TextExtractor
	// Store is optional; without it reports are not kept
	Store  storage.ReportStorage
	Logger *logrus.Entry
	Router chi.Router

	startTime time.Time
}

func NewServer(eng *engine.Engine, c *corpus.Corpus, ext corpus.TextExtractor, store storage.ReportStorage, logger *logrus.Entry) *Server {
	s := &Server{
		Engine:    eng,
		Corpus:    c,
		Extractor: ext,
		Store:     store,
		Logger:    logger.WithField("component", "api"),
		Router:    chi.NewRouter(),
		startTime: time.Now(),
	}
	metrics.CorpusDocuments.Set(float64(c.Len()))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(metrics.Middleware())

	s.Router.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Get("/corpus", s.handleCorpus)
		r.Get("/status", s.handleStatus)
		r.Get("/reports/{id}", s.handleReport)
	})
	s.Router.Handle("/metrics", promhttp.Handler())
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, cfg config.APIConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("Starting API Server on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("Shutting down API Server")
		return srv.Shutdown(shutdownCtx)
	}
}

// Requests and responses

type MatchRequest struct {
	Text       string `json:"text"`
	Identifier string `json:"identifier"`
	Handle     string `json:"handle"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CorpusResponse struct {
	Count     int      `json:"count"`
	Documents []string `json:"documents"`
}

type StatusResponse struct {
	Documents int       `json:"documents"`
	LoadedAt  time.Time `json:"loaded_at"`
	Uptime    string    `json:"uptime"`
	IDFScope  string    `json:"idf_scope"`
	Workers   int       `json:"workers"`
}

// Handlers

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}
	if (req.Text == "") == (req.Handle == "") {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Exactly one of 'text' or 'handle' is required"})
		return
	}

	text := req.Text
	identifier := req.Identifier
	if req.Handle != "" {
		var err error
		text, err = s.Extractor.Extract(r.Context(), req.Handle)
		if err != nil {
			s.Logger.WithError(err).WithField("handle", req.Handle).Warn("Query extraction failed")
			status := http.StatusInternalServerError
			if extract.IsExtractionError(err) {
				status = http.StatusUnprocessableEntity
			}
			jsonResponse(w, status, ErrorResponse{Error: err.Error()})
			return
		}
		if identifier == "" {
			identifier = filepath.Base(req.Handle)
		}
	}
	if identifier == "" {
		identifier = "query"
	}

	result := s.Engine.Match(features.NewBundle(identifier, text), s.Corpus)
	metrics.ObserveMatch(result.Matched(), result.Score)

	rep := report.Build(result)
	if s.Store != nil {
		if err := s.Store.Save(rep); err != nil {
			s.Logger.WithError(err).WithField("report", rep.ID).Error("Failed to save report")
		}
	}

	jsonResponse(w, http.StatusOK, rep)
}

func (s *Server) handleCorpus(w http.ResponseWriter, r *http.Request) {
	ids := s.Corpus.Identifiers()
	if ids == nil {
		ids = []string{}
	}
	jsonResponse(w, http.StatusOK, CorpusResponse{Count: len(ids), Documents: ids})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, StatusResponse{
		Documents: s.Corpus.Len(),
		LoadedAt:  s.Corpus.LoadedAt(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		IDFScope:  string(s.Engine.Scope),
		Workers:   s.Engine.Workers,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: "Report storage is disabled"})
		return
	}

	rep, err := s.Store.Get(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: "Report not found"})
		return
	}
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	jsonResponse(w, http.StatusOK, rep)
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
