package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/corpdex/internal/domain"
	domcompany "github.com/kailas-cloud/corpdex/internal/domain/company"
	"github.com/kailas-cloud/corpdex/internal/domain/query/filter"
	"github.com/kailas-cloud/corpdex/internal/domain/query/idlist"
	"github.com/kailas-cloud/corpdex/internal/domain/query/mode"
	"github.com/kailas-cloud/corpdex/internal/domain/query/page"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
	logpkg "github.com/kailas-cloud/corpdex/internal/logger"
	companyuc "github.com/kailas-cloud/corpdex/internal/usecase/company"
	healthuc "github.com/kailas-cloud/corpdex/internal/usecase/health"
)

// Messages returned for rejected input.
const (
	msgInvalidPagination = "Invalid limit or offset value for pagination."
	msgInvalidIDs        = "Invalid parameter: ids must be comma-separated numeric values"
	msgCompaniesNotFound = "Companies not found"
)

// ErrorCode is the machine-readable error code in error responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeStorageUnavailable ErrorCode = "storage_unavailable"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Limits bounds what a single request may ask for.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	MaxIDs       int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the company query API.
type Server struct {
	companies     *companyuc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	companies *companyuc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = 10
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = 200
	}
	if limits.MaxIDs <= 0 {
		limits.MaxIDs = idlist.DefaultMaxIDs
	}
	s := &Server{
		companies: companies,
		health:    health,
		limits:    limits,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(page.ErrInvalidWindow, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, ErrorCodeStorageUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/companies", s.ListCompanies)
	r.Get("/companies/{ids}", s.GetCompaniesByIDs)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// ListCompanies handles GET /companies.
func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, offset, err := s.parsePagination(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	window, err := page.New(offset, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, msgInvalidPagination)
		return
	}

	m, err := mode.Parse(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	includeEmployees := true
	if raw := q.Get("include_employees"); raw != "" {
		includeEmployees, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
				fmt.Sprintf("Invalid include_employees value %q", raw))
			return
		}
	}

	spec, err := filtersFromQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	companies, err := s.companies.List(r.Context(), companyuc.ListParams{
		Window:           window,
		Filters:          spec,
		Mode:             m,
		IncludeEmployees: includeEmployees,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, companiesToJSON(companies))
}

// GetCompaniesByIDs handles GET /companies/{ids}.
func (s *Server) GetCompaniesByIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := idlist.Parse(chi.URLParam(r, "ids"), s.limits.MaxIDs)
	switch {
	case errors.Is(err, idlist.ErrTooMany):
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
			fmt.Sprintf("Number of requested records exceeds the maximum limit of %d", s.limits.MaxIDs))
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, msgInvalidIDs)
		return
	}

	companies, err := s.companies.ByIDs(r.Context(), ids)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if len(companies) == 0 {
		s.handleDomainError(w, r, fmt.Errorf("%w: %s", domain.ErrNotFound, msgCompaniesNotFound))
		return
	}

	writeJSON(w, http.StatusOK, companiesToJSON(companies))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// parsePagination reads limit and offset, applying defaults and the limit cap.
func (s *Server) parsePagination(q url.Values) (limit, offset int, err error) {
	limit, offset = s.limits.DefaultLimit, 0

	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			return 0, 0, errors.New(msgInvalidPagination)
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			return 0, 0, errors.New(msgInvalidPagination)
		}
	}
	if limit > s.limits.MaxLimit {
		return 0, 0, fmt.Errorf(
			"Number of requested records exceeds the maximum allowed value of %d.", s.limits.MaxLimit)
	}
	return limit, offset, nil
}

// filtersFromQuery collects filters[<field>]=<value> parameters.
func filtersFromQuery(q url.Values) (filter.Spec, error) {
	values := make(map[string]any)
	for key, vals := range q {
		field, ok := strings.CutPrefix(key, "filters[")
		if !ok {
			continue
		}
		field, ok = strings.CutSuffix(field, "]")
		if !ok || field == "" || len(vals) == 0 {
			return filter.Spec{}, fmt.Errorf("Invalid filter parameter %q", key)
		}
		values[field] = filter.ParseValue(vals[0])
	}
	if len(values) > filter.MaxFields {
		return filter.Spec{}, fmt.Errorf("Too many filters (max %d)", filter.MaxFields)
	}
	return filter.NewSpec(values), nil
}

func companiesToJSON(companies []domcompany.Company) []record.Record {
	out := make([]record.Record, len(companies))
	for i, c := range companies {
		out[i] = c.Flatten()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the outermost message of a domain error without
// leaking wrapped storage details such as file system paths.
func safeDomainMessage(err, sentinel error) string {
	msg := err.Error()
	if errors.Is(err, domain.ErrNotFound) {
		if _, after, ok := strings.Cut(msg, domain.ErrNotFound.Error()+": "); ok {
			return after
		}
	}
	return sentinel.Error()
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err, sentinel))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			if errors.Is(err, domain.ErrStorageUnavailable) {
				log.Error("Storage unavailable", zap.Error(err))
			}
			return
		}
	}
	log.Error("Unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
