// Package server exposes the spelling corrector over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hmmspell/internal/corrector"
	"hmmspell/internal/customdict"
	"hmmspell/internal/hmm"
)

// Corrector is the subset of corrector.SpellCorrector the API needs.
type Corrector interface {
	CorrectText(ctx context.Context, text string) (corrector.CorrectionResult, error)
	CorrectToken(tok string) corrector.TokenCorrection
	Model() *hmm.Model
	AddCustomRecord(ctx context.Context, correct string, typos ...string) error
	RemoveCustomRecord(ctx context.Context, correct, typo string) error
}

type Server struct {
	c       Corrector
	log     *zap.Logger
	metrics *Metrics
}

// NewHandler builds the router. Metrics are registered on reg and served from it.
func NewHandler(c Corrector, reg *prometheus.Registry, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{c: c, log: logger, metrics: NewMetrics(reg)}
	s.metrics.Records.Set(float64(c.Model().Stats().Records))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/correct", s.correct)
		r.Post("/decode", s.decode)
		r.Get("/model", s.model)
		r.Post("/custom-record", s.addCustomRecord)
		r.Delete("/custom-record/{correct}/{typo}", s.removeCustomRecord)
	})
	return r
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.Duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) correct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	res, err := s.c.CorrectText(r.Context(), req.Text)
	if err != nil {
		s.log.Warn("correct failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	for _, tc := range res.Tokens {
		switch {
		case !tc.Decoded:
			s.metrics.Tokens.WithLabelValues("skipped").Inc()
		case tc.Edits > 0:
			s.metrics.Tokens.WithLabelValues("corrected").Inc()
		default:
			s.metrics.Tokens.WithLabelValues("unchanged").Inc()
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	tc := s.c.CorrectToken(req.Word)
	switch {
	case tc.Stripped == "":
		writeError(w, http.StatusBadRequest, "word has no letters to decode")
		return
	case !tc.Decoded:
		writeError(w, http.StatusBadRequest, "word is shorter than the minimum decode length")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"word":      req.Word,
		"corrected": tc.Corrected,
		"edits":     tc.Edits,
		"log_prob":  tc.LogProb,
	})
}

func (s *Server) model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.c.Model().Stats())
}

func (s *Server) addCustomRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Correct string   `json:"correct"`
		Typos   []string `json:"typos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Correct) == "" || len(req.Typos) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := s.c.AddCustomRecord(r.Context(), req.Correct, req.Typos...); err != nil {
		s.customError(w, err)
		return
	}
	s.metrics.Records.Set(float64(s.c.Model().Stats().Records))
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) removeCustomRecord(w http.ResponseWriter, r *http.Request) {
	correct := chi.URLParam(r, "correct")
	typo := chi.URLParam(r, "typo")
	if err := s.c.RemoveCustomRecord(r.Context(), correct, typo); err != nil {
		s.customError(w, err)
		return
	}
	s.metrics.Records.Set(float64(s.c.Model().Stats().Records))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) customError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customdict.ErrInvalidPair):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, corrector.ErrNoStore):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		s.log.Error("custom record update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
