// Package server exposes claim evaluation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ppiankov/claimcheck/internal/extract"
	"github.com/ppiankov/claimcheck/internal/logging"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxClaimsPerRequest bounds the claims /fact-check evaluates from one text
const maxClaimsPerRequest = 10

// Server routes HTTP requests to an evaluator
type Server struct {
	eval    worker.Evaluator
	batch   *worker.BatchProcessor
	cfg     model.ServerConfig
	version string
	logger  *zap.Logger
	router  *mux.Router
}

// New creates a server. workers bounds the claims of one /fact-check request
// evaluated at once.
func New(eval worker.Evaluator, cfg model.ServerConfig, workers int, version string, logger *zap.Logger) *Server {
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = model.DefaultConfig().Server.MaxRequestBytes
	}
	s := &Server{
		eval:    eval,
		batch:   worker.NewBatchProcessor(eval, workers),
		cfg:     cfg,
		version: version,
		logger:  logging.OrNop(logger),
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/fact-check", s.handleFactCheck).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/claims:evaluate", s.handleEvaluate).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.Use(s.logRequests)
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type factCheckRequest struct {
	Text string `json:"text"`
}

type evaluateRequest struct {
	Claim string `json:"claim"`
}

type citation struct {
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Source      model.SourceID `json:"source"`
	Credibility float64        `json:"credibility"`
}

type claimResponse struct {
	Claim       string        `json:"claim"`
	Verdict     model.Verdict `json:"verdict"`
	Confidence  float64       `json:"confidence"`
	TruthScore  *float64      `json:"truth_score"` // Unset when no evidence was scored
	Explanation string        `json:"explanation"`
	Citations   []citation    `json:"citations"`
	Error       string        `json:"error,omitempty"`
}

type factCheckResponse struct {
	Text   string          `json:"text"`
	Claims []claimResponse `json:"claims"`
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	var req factCheckRequest
	if !s.decode(w, r, &req) {
		return
	}
	claims := extract.SplitClaims(req.Text)
	if len(claims) == 0 {
		respondWithError(w, http.StatusBadRequest, pipeline.ErrEmptyClaim.Error())
		return
	}
	if len(claims) > maxClaimsPerRequest {
		claims = claims[:maxClaimsPerRequest]
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	resp := factCheckResponse{Text: req.Text, Claims: make([]claimResponse, 0, len(claims))}
	for _, res := range s.batch.ProcessClaims(ctx, claims) {
		if res.Error != nil {
			resp.Claims = append(resp.Claims, claimResponse{Claim: res.Claim, Error: res.Error.Error(), Citations: []citation{}})
			continue
		}
		resp.Claims = append(resp.Claims, toClaimResponse(res.Report))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	report, err := s.eval.Evaluate(ctx, req.Claim)
	switch {
	case errors.Is(err, pipeline.ErrEmptyClaim):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("evaluate claim", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "evaluation failed")
	default:
		respondWithJSON(w, http.StatusOK, report)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func toClaimResponse(report *model.Report) claimResponse {
	resp := claimResponse{
		Claim:       report.Claim.Raw,
		Verdict:     report.Result.Verdict,
		Confidence:  report.Result.Confidence,
		Explanation: report.Result.Explanation,
		Citations:   make([]citation, 0, len(report.Result.Citations)),
	}
	if report.Path == model.PathStrongSignal || report.Path == model.PathReconciled {
		ts := report.Assessment.TruthScore
		resp.TruthScore = &ts
	}
	for _, c := range report.Result.Citations {
		resp.Citations = append(resp.Citations, citation{
			Title:       c.Title,
			URL:         c.URL,
			Source:      c.Source,
			Credibility: c.Credibility,
		})
	}
	return resp
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
