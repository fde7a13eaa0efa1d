package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	logpkg "github.com/kailas-cloud/sheetdex/internal/logger"
	healthuc "github.com/kailas-cloud/sheetdex/internal/usecase/health"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
	"github.com/kailas-cloud/sheetdex/internal/version"
)

const (
	// multipartOverhead is allowed on top of the file size limit for form boundaries and fields.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
	maxQueryBodyBytes = 64 << 10
)

// Config holds request limits and defaults of the HTTP API.
type Config struct {
	MaxUploadBytes int64
	MaxQueryLength int
	DefaultK       int
	MaxK           int
	DefaultDataset string
}

// Server serves the sheetdex HTTP API.
type Server struct {
	uploads       Uploader
	search        Searcher
	health        HealthChecker
	cfg           Config
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	uploads Uploader,
	search Searcher,
	health HealthChecker,
	cfg Config,
	logger *zap.Logger,
) *Server {
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 5
	}
	if cfg.MaxK < cfg.DefaultK {
		cfg.MaxK = max(50, cfg.DefaultK)
	}
	if cfg.DefaultDataset == "" {
		cfg.DefaultDataset = "default"
	}
	return &Server{
		uploads:       uploads,
		search:        search,
		health:        health,
		cfg:           cfg,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chirouter.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/upload", s.Upload)
	r.Post("/query", s.Query)
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Semantic Search Engine for Spreadsheets - Ready",
		"version": version.Version,
	})
}

// Upload handles POST /upload (multipart form: file, optional dataset).
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, CodeInvalidUpload,
				fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "expected multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidUpload, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidUpload, "read file: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.uploads.Upload(ctx, uploaduc.Input{
		Filename: header.Filename,
		Dataset:  r.FormValue("dataset"),
		Data:     data,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, uploadResponseFromResult(res))
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	question, err := query.Sanitize(req.Question, s.cfg.MaxQueryLength)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	k := s.cfg.DefaultK
	if req.K != nil {
		if *req.K <= 0 || *req.K > s.cfg.MaxK {
			writeError(w, http.StatusBadRequest, CodeInvalidQuery,
				fmt.Sprintf("k must be between 1 and %d", s.cfg.MaxK))
			return
		}
		k = *req.K
	}

	dataset := req.Dataset
	if dataset == "" {
		dataset = s.cfg.DefaultDataset
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, dataset, question, k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, queryResponseFromSearch(resp))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Features: report.Features,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if tokens, used := usage.Snapshot(); used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(tokens))
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
