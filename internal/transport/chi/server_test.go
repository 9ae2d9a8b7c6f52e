package chi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/db/sqlite"
	"github.com/lilykang127/connect-ltv/internal/domain"
	"github.com/lilykang127/connect-ltv/internal/domain/profile"
	"github.com/lilykang127/connect-ltv/internal/domain/search/result"
	profilerepo "github.com/lilykang127/connect-ltv/internal/repository/profile"
	enrichmentuc "github.com/lilykang127/connect-ltv/internal/usecase/enrichment"
	healthuc "github.com/lilykang127/connect-ltv/internal/usecase/health"
	profileuc "github.com/lilykang127/connect-ltv/internal/usecase/profile"
	searchuc "github.com/lilykang127/connect-ltv/internal/usecase/search"
)

// --- Mocks ---

// cancelingBiographer ends the request context on its first call.
type cancelingBiographer struct {
	enrichmentuc.Placeholder
	cancel context.CancelFunc
}

func (b cancelingBiographer) Biography(ctx context.Context, p *profile.Profile) (string, error) {
	b.cancel()
	return b.Placeholder.Biography(ctx, p)
}

type failingSearcher struct {
	err error
}

func (f failingSearcher) Search(context.Context, string, int) ([]result.SearchResult, error) {
	return nil, f.err
}

type testEnv struct {
	handler http.Handler
	store   *sqlite.Store
}

func newTestEnv(t *testing.T, adminKeys ...string) *testEnv {
	t.Helper()

	store, err := sqlite.NewStore(sqlite.Config{Path: sqlite.MemoryPath})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(store.Close)

	rows := []db.ProfileRow{
		{
			ID:         sql.NullInt64{Int64: 1, Valid: true},
			FirstName:  db.NullString("Maya"),
			LastName:   db.NullString("Chen"),
			Title:      db.NullString("CEO"),
			Company:    db.NullString("EduGrowth"),
			Email:      db.NullString("maya@example.com"),
			ProfileURL: db.NullString("https://www.linkedin.com/in/maya"),
			Comments:   db.NullString("Happy to talk edtech."),
		},
		{
			ID:        sql.NullInt64{Int64: 2, Valid: true},
			FirstName: db.NullString("Sam"),
			Location:  db.NullString("Jordan Park"),
		},
		{
			ID:        sql.NullInt64{Int64: 3, Valid: true},
			FirstName: db.NullString("Jordan"),
			LastName:  db.NullString("Lee"),
		},
	}
	if err := store.Upsert(context.Background(), rows); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	repo := profilerepo.New(store)
	enrich, err := enrichmentuc.New(repo, enrichmentuc.Placeholder{}, enrichmentuc.Config{})
	if err != nil {
		t.Fatalf("enrichment.New: %v", err)
	}
	t.Cleanup(enrich.Release)

	s := NewServer(
		searchuc.New(repo, searchuc.DefaultConfig()),
		profileuc.New(repo),
		enrich,
		healthuc.New(store, nil),
		zap.NewNop(),
	)
	return &testEnv{handler: Handler(s, ServerOptions{AdminKeys: adminKeys}), store: store}
}

func (e *testEnv) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// --- Tests ---

func TestSearch_OK(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/search?q=CEO+education", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Count != 1 || resp.Items[0].Id != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	want := "Works as CEO at EduGrowth. Happy to talk edtech."
	if resp.Items[0].Relevance != want {
		t.Errorf("relevance = %q, want %q", resp.Items[0].Relevance, want)
	}
	if resp.Items[0].Email != "maya@example.com" {
		t.Errorf("email = %q", resp.Items[0].Email)
	}
}

func TestSearch_NameRanksFirst(t *testing.T) {
	env := newTestEnv(t)

	resp := decode[SearchResponse](t, env.do(t, "GET", "/search?q=jordan", ""))
	if resp.Count != 2 || resp.Items[0].Id != 3 {
		t.Errorf("items = %+v, want name match first", resp.Items)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/search", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Items == nil || resp.Count != 0 {
		t.Errorf("want empty items array, got %+v", resp)
	}
}

func TestSearch_BadLimit(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/search?q=ceo&limit=abc", "/search?q=ceo&limit=0"} {
		rr := env.do(t, "GET", target, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rr.Code)
		}
	}
}

func TestSearch_RetrievalFailure(t *testing.T) {
	s := NewServer(
		failingSearcher{err: domain.NewRetrievalError("RETRIEVE", errors.New("dial tcp 10.0.0.1:5432"))},
		nil, nil, nil, zap.NewNop(),
	)
	h := Handler(s, ServerOptions{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/search?q=ceo", http.NoBody))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	resp := decode[ErrorResponse](t, rr)
	if resp.Code != ErrorResponseCodeRetrievalFailed {
		t.Errorf("code = %q", resp.Code)
	}
	if strings.Contains(resp.Message, "10.0.0.1") {
		t.Errorf("store details leaked: %q", resp.Message)
	}
}

func TestSearch_Superseded(t *testing.T) {
	s := NewServer(failingSearcher{err: domain.ErrSuperseded}, nil, nil, nil, zap.NewNop())
	rr := httptest.NewRecorder()
	Handler(s, ServerOptions{}).ServeHTTP(rr, httptest.NewRequest("GET", "/search?q=ceo", http.NoBody))
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/profiles/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	resp := decode[ProfileResponse](t, rr)
	if resp.Name != "Maya Chen" || resp.Relevance != "Happy to talk edtech." {
		t.Errorf("unexpected profile: %+v", resp)
	}
	if resp.Enrichment != nil {
		t.Errorf("enrichment = %q, want null", *resp.Enrichment)
	}
	if !strings.HasPrefix(resp.MailtoLink, "mailto:maya@example.com?subject=") {
		t.Errorf("mailto = %q", resp.MailtoLink)
	}
}

func TestGetProfile_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		target string
		status int
		code   ErrorResponseCode
	}{
		{"/profiles/99", http.StatusNotFound, ErrorResponseCodeProfileNotFound},
		{"/profiles/abc", http.StatusBadRequest, ErrorResponseCodeBadRequest},
		{"/profiles/0", http.StatusBadRequest, ErrorResponseCodeValidationFailed},
	}
	for _, tc := range tests {
		rr := env.do(t, "GET", tc.target, "")
		if rr.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.target, rr.Code, tc.status)
			continue
		}
		if got := decode[ErrorResponse](t, rr).Code; got != tc.code {
			t.Errorf("%s: code = %q, want %q", tc.target, got, tc.code)
		}
	}
}

func TestRunEnrichment(t *testing.T) {
	env := newTestEnv(t, "secret")

	rr := env.do(t, "POST", "/admin/enrichment", `{"limit":5}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", rr.Code)
	}

	rr = env.do(t, "POST", "/admin/enrichment", `{"limit":5}`, "Authorization", "Bearer secret")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	resp := decode[EnrichmentResponse](t, rr)
	if resp.Total != 1 || resp.Completed != 1 {
		t.Errorf("report = %+v", resp)
	}

	got := decode[ProfileResponse](t, env.do(t, "GET", "/profiles/1", ""))
	if got.Enrichment == nil || !strings.Contains(*got.Enrichment, "maya") {
		t.Errorf("enrichment not stored: %v", got.Enrichment)
	}

	rr = env.do(t, "POST", "/admin/enrichment", "", "Authorization", "Bearer secret")
	resp = decode[EnrichmentResponse](t, rr)
	if resp.Message != enrichmentuc.MessageNothingPending || resp.Total != 0 {
		t.Errorf("second run = %+v", resp)
	}
}

func TestRunEnrichment_CanceledKeepsReport(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := profilerepo.New(env.store)
	enrich, err := enrichmentuc.New(repo, cancelingBiographer{cancel: cancel}, enrichmentuc.Config{})
	if err != nil {
		t.Fatalf("enrichment.New: %v", err)
	}
	t.Cleanup(enrich.Release)
	s := NewServer(searchuc.New(repo, searchuc.DefaultConfig()), profileuc.New(repo), enrich,
		healthuc.New(env.store, nil), zap.NewNop())

	req := httptest.NewRequest("POST", "/admin/enrichment", http.NoBody).WithContext(ctx)
	rr := httptest.NewRecorder()
	Handler(s, ServerOptions{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	resp := decode[EnrichmentResponse](t, rr)
	if resp.Message != enrichmentuc.MessageCanceled || resp.Total != 1 {
		t.Errorf("report = %+v, want canceled run over 1 profile", resp)
	}
	if resp.Completed+resp.Failed != 1 {
		t.Errorf("report = %+v, want the fetched profile counted", resp)
	}
}

func TestInterruptedStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		ok     bool
	}{
		{fmt.Errorf("enrichment run: %w", context.Canceled), http.StatusServiceUnavailable, true},
		{fmt.Errorf("enrichment run: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, true},
		{domain.ErrRetrieval, 0, false},
	}
	for _, tc := range cases {
		status, ok := interruptedStatus(tc.err)
		if status != tc.status || ok != tc.ok {
			t.Errorf("interruptedStatus(%v) = %d, %v", tc.err, status, ok)
		}
	}
}

func TestRunEnrichment_BadBody(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{"{", `{"limit":-1}`} {
		rr := env.do(t, "POST", "/admin/enrichment", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestPublicRoutes_NoAuth(t *testing.T) {
	env := newTestEnv(t, "secret")

	for _, target := range []string{"/search?q=ceo", "/profiles/1", "/examples", "/health"} {
		if rr := env.do(t, "GET", target, ""); rr.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", target, rr.Code)
		}
	}
}

func TestListExamples(t *testing.T) {
	env := newTestEnv(t)

	resp := decode[ExamplesResponse](t, env.do(t, "GET", "/examples", ""))
	if len(resp.Items) != len(searchuc.Examples()) {
		t.Fatalf("items = %d", len(resp.Items))
	}
	if resp.Items[0].Category == "" || resp.Items[0].Query == "" {
		t.Errorf("incomplete example: %+v", resp.Items[0])
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("health = %+v", resp)
	}

	env.store.Close()
	rr = env.do(t, "GET", "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("closed store: status = %d, want 503", rr.Code)
	}
}

func TestSafeDomainMessage(t *testing.T) {
	err := domain.NewRetrievalError("RETRIEVE", errors.New("password=hunter2"))
	if got := safeDomainMessage(err); got != domain.ErrRetrieval.Error() {
		t.Errorf("got %q", got)
	}
	if got := safeDomainMessage(errors.New("boom")); got != "internal error" {
		t.Errorf("got %q", got)
	}
}
