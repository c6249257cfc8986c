package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appsentiment "github.com/watchdoglabs/sentiment-watchdog/internal/application/sentiment"
	domain "github.com/watchdoglabs/sentiment-watchdog/internal/domain/sentiment"
	"github.com/watchdoglabs/sentiment-watchdog/internal/middleware"
)

type Router struct {
	svc *appsentiment.Service
}

// Options configures transport-level middleware. Zero value disables CORS and
// rate limiting, which keeps tests free of transport noise.
type Options struct {
	AllowedOrigins []string
	RateLimit      func(http.Handler) http.Handler
	Readiness      http.HandlerFunc
}

func NewRouter(svc *appsentiment.Service, opts Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	if opts.RateLimit != nil {
		mux.Use(opts.RateLimit)
	}

	mux.Get("/", r.handleRoot)
	mux.Get("/health", r.handleHealth)
	mux.Get("/live", middleware.LivenessHandler)
	if opts.Readiness != nil {
		mux.Get("/ready", opts.Readiness)
	}
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Post("/analyze/batch", r.wrap(r.handleAnalyzeBatch))
	mux.Get("/sentiments", r.wrap(r.handleSentiments))
	mux.Get("/analytics", r.wrap(r.handleAnalytics))
	mux.Get("/analytics/trends", r.wrap(r.handleTrends))
	mux.Post("/export", r.wrap(r.handleExport))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// validationError marks a client-caused failure raised inside a handler.
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// wrap maps the error taxonomy onto HTTP statuses: validation failures are
// 400, a missing export store is 503, everything else (classifier and store
// failures included) is 500. Every error is logged before it is surfaced.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		slog.Info("[HTTP] Request failed",
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()))

		var vErr validationError
		var upErr *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrEmptyMessage), errors.As(err, &vErr):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, appsentiment.ErrExportDisabled):
			respondError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, domain.ErrNoScores), errors.As(err, &upErr):
			respondError(w, http.StatusInternalServerError, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Customer Sentiment Watchdog API",
		"status":  "running",
	})
}

// GET /health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": r.svc.Classifier.Ready(),
	})
}

type analyzeRequest struct {
	Message    string `json:"message"`
	CustomerID string `json:"customer_id,omitempty"`
	Channel    string `json:"channel,omitempty"`
}

func (a analyzeRequest) validate() error {
	if err := middleware.ValidateMessage(a.Message); err != nil {
		return validationError{err.Error()}
	}
	if err := middleware.ValidateAttribute("customer_id", a.CustomerID); err != nil {
		return validationError{err.Error()}
	}
	if err := middleware.ValidateAttribute("channel", a.Channel); err != nil {
		return validationError{err.Error()}
	}
	return nil
}

// POST /analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body analyzeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return validationError{"invalid request body"}
	}
	if err := body.validate(); err != nil {
		return err
	}

	rec, err := r.svc.Analyze(req.Context(), appsentiment.AnalyzeCommand{
		Message:    body.Message,
		CustomerID: body.CustomerID,
		Channel:    body.Channel,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	middleware.IncrementAnalyses()
	if rec.IsNegative {
		middleware.IncrementNegative()
	}
	respondJSON(w, http.StatusOK, rec)
	return nil
}

// POST /analyze/batch
func (r *Router) handleAnalyzeBatch(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Messages []analyzeRequest `json:"messages"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return validationError{"invalid request body"}
	}
	if err := middleware.ValidateBatchSize(len(body.Messages)); err != nil {
		return validationError{err.Error()}
	}

	cmds := make([]appsentiment.AnalyzeCommand, 0, len(body.Messages))
	for _, m := range body.Messages {
		if err := m.validate(); err != nil {
			return err
		}
		cmds = append(cmds, appsentiment.AnalyzeCommand{
			Message:    m.Message,
			CustomerID: m.CustomerID,
			Channel:    m.Channel,
		})
	}

	results := r.svc.AnalyzeBatch(req.Context(), cmds)
	for _, item := range results {
		if item.Record != nil {
			middleware.IncrementAnalyses()
			if item.Record.IsNegative {
				middleware.IncrementNegative()
			}
		} else {
			middleware.IncrementAnalysesFailed()
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"results": results})
	return nil
}

// GET /sentiments?limit=100
func (r *Router) handleSentiments(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.ListRecent(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Record{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"sentiments": list})
	return nil
}

// GET /analytics
func (r *Router) handleAnalytics(w http.ResponseWriter, req *http.Request) error {
	summary, err := r.svc.Analytics(req.Context())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, summary)
	return nil
}

// GET /analytics/trends?days=7
func (r *Router) handleTrends(w http.ResponseWriter, req *http.Request) error {
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	days = middleware.ValidateDays(days)

	buckets, err := r.svc.Trends(req.Context(), days)
	if err != nil {
		return err
	}
	if buckets == nil {
		buckets = []domain.TrendBucket{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"trends": buckets})
	return nil
}

// POST /export
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	url, err := r.svc.ExportCSV(req.Context())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
