package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mikey/phish-detect/internal/core"
	"github.com/mikey/phish-detect/internal/utils"
	"go.uber.org/zap"
)

// HTTPFrontend exposes the analysis and advisory services over a JSON API.
type HTTPFrontend struct {
	service        *core.AnalysisService
	advisory       *core.AdvisoryService
	textProcessor  *utils.TextProcessor
	logger         *zap.Logger
	listenAddr     string
	allowedOrigins []string
	readTimeout    time.Duration
	writeTimeout   time.Duration
	maxBodyBytes   int64
	server         *http.Server
}

// NewHTTPFrontend creates a new HTTP frontend
func NewHTTPFrontend(
	service *core.AnalysisService,
	advisory *core.AdvisoryService,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	allowedOrigins []string,
	readTimeout time.Duration,
	writeTimeout time.Duration,
	maxBodyBytes int64,
) *HTTPFrontend {
	return &HTTPFrontend{
		service:        service,
		advisory:       advisory,
		textProcessor:  textProcessor,
		logger:         logger,
		listenAddr:     listenAddr,
		allowedOrigins: allowedOrigins,
		readTimeout:    readTimeout,
		writeTimeout:   writeTimeout,
		maxBodyBytes:   maxBodyBytes,
	}
}

type analyzeRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type adviceRequest struct {
	Question    string `json:"question"`
	Content     string `json:"content,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Start starts the HTTP server
func (f *HTTPFrontend) Start() error {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(f.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: f.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", f.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", f.handleAnalyze)
		r.Post("/features", f.handleFeatures)
		r.Post("/advice", f.handleAdvice)
	})

	f.server = &http.Server{
		Addr:         f.listenAddr,
		Handler:      r,
		ReadTimeout:  f.readTimeout,
		WriteTimeout: f.writeTimeout,
	}

	f.logger.Info("HTTP frontend starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the HTTP server down gracefully
func (f *HTTPFrontend) Stop() error {
	if f.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return f.server.Shutdown(ctx)
}

// ProcessContent analyzes one piece of content directly.
// This is mainly used for testing or direct API calls.
func (f *HTTPFrontend) ProcessContent(ctx context.Context, content string, contentType core.ContentType) (*core.AnalysisReport, error) {
	return f.service.AnalyzeContent(ctx, content, contentType)
}

func (f *HTTPFrontend) handleHealth(w http.ResponseWriter, r *http.Request) {
	f.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (f *HTTPFrontend) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !f.decodeBody(w, r, &req) {
		return
	}

	contentType, err := parseContentType(req.ContentType)
	if err != nil {
		f.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	content := f.textProcessor.PrepareContent(req.Content)

	report, err := f.service.AnalyzeContent(r.Context(), content, contentType)
	if err != nil {
		f.logger.Error("Analysis failed", zap.Error(err))
		f.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	f.writeJSON(w, http.StatusOK, report)
}

func (f *HTTPFrontend) handleFeatures(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !f.decodeBody(w, r, &req) {
		return
	}

	contentType, err := parseContentType(req.ContentType)
	if err != nil {
		f.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	features := f.service.ExtractOnly(f.textProcessor.PrepareContent(req.Content), contentType)
	f.writeJSON(w, http.StatusOK, features)
}

func (f *HTTPFrontend) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if !f.decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		f.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	var report *core.AnalysisReport
	if req.Content != "" {
		contentType, err := parseContentType(req.ContentType)
		if err != nil {
			f.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err = f.service.AnalyzeContent(r.Context(), f.textProcessor.PrepareContent(req.Content), contentType)
		if err != nil {
			f.logger.Error("Analysis failed", zap.Error(err))
			f.writeError(w, http.StatusInternalServerError, "analysis failed")
			return
		}
	}

	advice := f.advisory.Advise(r.Context(), req.Question, report)
	f.writeJSON(w, http.StatusOK, advice)
}

func (f *HTTPFrontend) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, f.maxBodyBytes)
	defer body.Close()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		f.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	return true
}

func (f *HTTPFrontend) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		f.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (f *HTTPFrontend) writeError(w http.ResponseWriter, status int, message string) {
	f.writeJSON(w, status, errorResponse{Error: message})
}

// requestLogger logs one line per request with method, path, status and duration
func (f *HTTPFrontend) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		f.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// parseContentType validates the wire value of a content type
func parseContentType(value string) (core.ContentType, error) {
	switch core.ContentType(strings.ToLower(strings.TrimSpace(value))) {
	case core.ContentTypeEmail:
		return core.ContentTypeEmail, nil
	case core.ContentTypeURL:
		return core.ContentTypeURL, nil
	case core.ContentTypeSMS:
		return core.ContentTypeSMS, nil
	case core.ContentTypeSocial:
		return core.ContentTypeSocial, nil
	case "":
		return "", fmt.Errorf("content_type is required")
	default:
		return "", fmt.Errorf("unknown content_type %q", value)
	}
}
