package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
	enrichmentuc "github.com/lilykang127/connect-ltv/internal/usecase/enrichment"
	healthuc "github.com/lilykang127/connect-ltv/internal/usecase/health"
	profileuc "github.com/lilykang127/connect-ltv/internal/usecase/profile"
	searchuc "github.com/lilykang127/connect-ltv/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the directory API.
type Server struct {
	search        searchuc.Searcher
	profiles      *profileuc.Service
	enrichment    *enrichmentuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. enrichment may be nil, which disables the admin job.
func NewServer(
	search searchuc.Searcher,
	profiles *profileuc.Service,
	enrichment *enrichmentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:     search,
		profiles:   profiles,
		enrichment: enrichment,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, ErrorResponseCodeProfileNotFound),
		sentinelHandler(domain.ErrSuperseded, http.StatusConflict, ErrorResponseCodeSuperseded),
		sentinelHandler(domain.ErrEnrichmentProviderError, http.StatusBadGateway, ErrorResponseCodeProviderError),
		sentinelHandler(domain.ErrRetrieval, http.StatusServiceUnavailable, ErrorResponseCodeRetrievalFailed),
	}
	return s
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params SearchParams) {
	q := derefString(params.Q)
	limit := derefInt(params.Limit)
	if params.Limit != nil && limit <= 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "limit must be positive")
		return
	}

	results, err := s.search.Search(r.Context(), q, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToAPI(&results[i])
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: q, Items: items, Count: len(items)})
}

// GetProfile handles GET /profiles/{id}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request, id int64) {
	d, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailToAPI(&d))
}

// RunEnrichment handles POST /admin/enrichment. An empty body uses the default batch size.
func (s *Server) RunEnrichment(w http.ResponseWriter, r *http.Request) {
	if s.enrichment == nil {
		writeError(w, http.StatusNotImplemented, ErrorResponseCodeInternalError, "enrichment is not configured")
		return
	}

	var req EnrichmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Limit != nil && *req.Limit < 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "limit must not be negative")
		return
	}

	rep, err := s.enrichment.Run(r.Context(), derefInt(req.Limit))
	if err != nil {
		// an interrupted batch still reports the profiles it got through
		if status, ok := interruptedStatus(err); ok {
			s.logger.Warn("enrichment run interrupted", zap.Int("completed", rep.Completed), zap.Error(err))
			writeJSON(w, status, reportToAPI(&rep))
			return
		}
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportToAPI(&rep))
}

// ListExamples handles GET /examples.
func (s *Server) ListExamples(w http.ResponseWriter, _ *http.Request) {
	ex := searchuc.Examples()
	items := make([]ExampleQuery, len(ex))
	for i, e := range ex {
		items[i] = ExampleQuery{Category: e.Category, Query: e.Query}
	}
	writeJSON(w, http.StatusOK, ExamplesResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns the first known sentinel message in err's chain
// so that store addresses and driver details never reach the client.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrProfileNotFound,
		domain.ErrSuperseded,
		domain.ErrEnrichmentProviderError,
		domain.ErrRetrieval,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

// interruptedStatus maps a context error to 503 for cancellation and 504 for a deadline.
func interruptedStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, true
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, true
	}
	return 0, false
}

func reportToAPI(r *enrichmentuc.Report) EnrichmentResponse {
	return EnrichmentResponse{
		Message:   r.Message,
		Completed: r.Completed,
		Failed:    r.Failed,
		Total:     r.Total,
	}
}

func searchResultToAPI(r *result.SearchResult) SearchResultItem {
	return SearchResultItem{
		Id:           r.ID(),
		Name:         r.Name(),
		Position:     r.Position(),
		Organization: r.Organization(),
		Email:        r.Email(),
		ProfileUrl:   r.ProfileURL(),
		Relevance:    r.Relevance(),
	}
}

func detailToAPI(d *profileuc.Detail) ProfileResponse {
	p := &d.Profile
	resp := ProfileResponse{
		Id:           p.ID(),
		Name:         p.Name(),
		FirstName:    p.FirstName(),
		LastName:     p.LastName(),
		Position:     p.Position(),
		Organization: p.Organization(),
		Location:     p.Location(),
		Function:     p.Function(),
		Stage:        p.Stage(),
		Comments:     p.Comments(),
		Email:        p.Email(),
		ProfileUrl:   p.ProfileURL(),
		Relevance:    d.Relevance,
		MailtoLink:   p.MailtoLink(p.DefaultSubject(), p.DefaultBody()),
	}
	if d.HasEnrichment {
		text := d.Enrichment
		resp.Enrichment = &text
	}
	return resp
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
