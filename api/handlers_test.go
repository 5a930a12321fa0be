/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Running calculators and the error to status mapping
- Result caching and history saving
- History listing, lookup and schedule exports
- Scenarios, rate limiting and health
*/
package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-engine/cache"
	"github.com/warp/finance-engine/history"
	"github.com/warp/finance-engine/store/sqlite"
)

type testServer struct {
	handler *Handler
	router  http.Handler
	store   history.Store
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	store := history.NewMemory()
	h := NewHandler(store, cache.NewMemory(time.Minute))
	return &testServer{handler: h, router: NewRouter(h, opts), store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func figure(dto CalculationDTO, label string) string {
	for _, f := range dto.Figures {
		if f.Label == label {
			return f.Value
		}
	}
	return ""
}

const loanInput = `{"amount": 10000, "annual_rate": 0, "term_months": 24}`

func TestListCalculators(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec := s.do(t, http.MethodGet, "/api/calculators", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[CalculatorListResponse](t, rec)
	assert.Len(t, resp.Calculators, 18)
}

func TestRunCalculator_Success(t *testing.T) {
	// GIVEN: A zero-interest loan
	s := newTestServer(t, RouterOptions{})

	// WHEN: Running the loan-payment calculator
	rec := s.do(t, http.MethodPost, "/api/calculators/loan-payment", loanInput)

	// THEN: The payment is the principal split evenly and the run is saved
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decodeBody[CalculationDTO](t, rec)
	assert.Equal(t, "loan-payment", dto.Kind)
	assert.Equal(t, "$416.67", figure(dto, "Monthly Payment"))
	assert.False(t, dto.Cached)
	assert.True(t, history.ParseID(dto.ID))

	saved, err := s.store.Get(context.Background(), dto.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.JSONEq(t, loanInput, string(saved.InputJSON))
}

func TestRunCalculator_CachedOnRepeat(t *testing.T) {
	// GIVEN: One run of an input
	s := newTestServer(t, RouterOptions{})
	first := s.do(t, http.MethodPost, "/api/calculators/loan-payment", loanInput)
	require.Equal(t, http.StatusOK, first.Code)

	// WHEN: The same input is posted with keys reordered
	second := s.do(t, http.MethodPost, "/api/calculators/loan-payment",
		`{"term_months": 24, "amount": 10000, "annual_rate": 0}`)

	// THEN: The cached result is served and still saved as a new record
	require.Equal(t, http.StatusOK, second.Code)
	a := decodeBody[CalculationDTO](t, first)
	b := decodeBody[CalculationDTO](t, second)
	assert.True(t, b.Cached)
	assert.JSONEq(t, string(a.Result), string(b.Result))
	assert.Equal(t, a.Figures, b.Figures)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRunCalculator_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		body   string
		status int
		field  string
	}{
		{"unknown kind", "lottery", `{}`, http.StatusNotFound, ""},
		{"malformed json", "loan-payment", `{"amount":`, http.StatusBadRequest, ""},
		{"missing field", "loan-payment", `{"amount": 1000, "annual_rate": 5}`, http.StatusBadRequest, "term_months"},
		{"negative amount", "loan-payment", `{"amount": -5, "annual_rate": 5, "term_months": 12}`, http.StatusBadRequest, "amount"},
		{"unknown field", "loan-payment", `{"amount": 1000, "annual_rate": 5, "term_months": 12, "fee": 1}`, http.StatusBadRequest, ""},
		{"unpayable", "credit-card-payoff", `{"balance": 1000, "annual_rate": 12, "monthly_payment": 9.99}`, http.StatusUnprocessableEntity, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, RouterOptions{})

			rec := s.do(t, http.MethodPost, "/api/calculators/"+tt.kind, tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decodeBody[ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.Details)
			if tt.field != "" {
				assert.Equal(t, tt.field, resp.Field)
			}
		})
	}
}

func TestRunCalculator_FailuresAreNotSaved(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec := s.do(t, http.MethodPost, "/api/calculators/loan-payment", `{"amount": 0, "annual_rate": 5, "term_months": 12}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	records, err := s.store.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListCalculations(t *testing.T) {
	// GIVEN: Two kinds of saved calculations
	s := newTestServer(t, RouterOptions{})
	s.do(t, http.MethodPost, "/api/calculators/loan-payment", loanInput)
	s.do(t, http.MethodPost, "/api/calculators/inflation", `{"amount": 100, "annual_rate": 3, "years": 10}`)
	s.do(t, http.MethodPost, "/api/calculators/inflation", `{"amount": 200, "annual_rate": 3, "years": 10}`)

	// WHEN: Listing with and without a kind filter
	all := s.do(t, http.MethodGet, "/api/calculations", "")
	inflation := s.do(t, http.MethodGet, "/api/calculations?kind=inflation&limit=1", "")

	// THEN: Filters and limits apply
	require.Equal(t, http.StatusOK, all.Code)
	assert.Equal(t, 3, decodeBody[CalculationListResponse](t, all).Count)

	require.Equal(t, http.StatusOK, inflation.Code)
	resp := decodeBody[CalculationListResponse](t, inflation)
	require.Len(t, resp.Calculations, 1)
	assert.Equal(t, "inflation", resp.Calculations[0].Kind)
	assert.JSONEq(t, `{"amount": 200, "annual_rate": 3, "years": 10}`, string(resp.Calculations[0].InputJSON))
}

func TestListCalculations_BadQuery(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/calculations?limit=zero", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/calculations?kind=lottery", "").Code)
}

func TestGetCalculation(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	dto := decodeBody[CalculationDTO](t, s.do(t, http.MethodPost, "/api/calculators/loan-payment", loanInput))

	found := s.do(t, http.MethodGet, "/api/calculations/"+dto.ID, "")
	missing := s.do(t, http.MethodGet, "/api/calculations/"+history.NewID(time.Now()), "")
	garbage := s.do(t, http.MethodGet, "/api/calculations/not-an-id", "")

	require.Equal(t, http.StatusOK, found.Code)
	rec := decodeBody[history.Record](t, found)
	assert.Equal(t, dto.ID, rec.ID)
	assert.JSONEq(t, string(dto.Result), string(rec.ResultJSON))
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusNotFound, garbage.Code)
}

func TestExportSchedule(t *testing.T) {
	// GIVEN: A saved 30 year amortization
	s := newTestServer(t, RouterOptions{})
	rec := s.do(t, http.MethodPost, "/api/calculators/amortization",
		`{"amount": 200000, "annual_rate": 6, "term_years": 30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decodeBody[CalculationDTO](t, rec)
	assert.True(t, dto.Schedule)

	// WHEN: Exporting CSV and PDF
	csvResp := s.do(t, http.MethodGet, "/api/calculations/"+dto.ID+"/schedule.csv", "")
	pdfResp := s.do(t, http.MethodGet, "/api/calculations/"+dto.ID+"/schedule.pdf", "")

	// THEN: CSV has header, 360 periods and totals; PDF is a PDF
	require.Equal(t, http.StatusOK, csvResp.Code)
	assert.Equal(t, "text/csv", csvResp.Header().Get("Content-Type"))
	rows, err := csv.NewReader(csvResp.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 362)
	assert.Equal(t, "1199.10", rows[1][2])

	require.Equal(t, http.StatusOK, pdfResp.Code)
	assert.Equal(t, "application/pdf", pdfResp.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(pdfResp.Body.String(), "%PDF-"))
}

func TestExportSchedule_NoSchedule(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	dto := decodeBody[CalculationDTO](t, s.do(t, http.MethodPost, "/api/calculators/inflation",
		`{"amount": 100, "annual_rate": 3, "years": 10}`))
	assert.False(t, dto.Schedule)

	rec := s.do(t, http.MethodGet, "/api/calculations/"+dto.ID+"/schedule.csv", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenarios(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	list := s.do(t, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, list.Code)
	scenarios := decodeBody[ScenarioListResponse](t, list).Scenarios
	require.NotEmpty(t, scenarios)

	run := s.do(t, http.MethodPost, "/api/scenarios/first-home/run", "")
	require.Equal(t, http.StatusOK, run.Code, run.Body.String())
	assert.Equal(t, "mortgage", decodeBody[CalculationDTO](t, run).Kind)

	trap := s.do(t, http.MethodPost, "/api/scenarios/minimum-trap/run", "")
	assert.Equal(t, http.StatusUnprocessableEntity, trap.Code)

	unknown := s.do(t, http.MethodPost, "/api/scenarios/lottery/run", "")
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestRateLimitedRoutes(t *testing.T) {
	// GIVEN: A limit of two calculations per window
	limiter := NewRateLimiter(2, time.Hour)
	t.Cleanup(limiter.Stop)
	s := newTestServer(t, RouterOptions{Limiter: limiter})

	// WHEN: Posting three times
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, s.do(t, http.MethodPost, "/api/calculators/loan-payment", loanInput).Code)
	}

	// THEN: The third is rejected but reads stay open
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/calculations", "").Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec := s.do(t, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, HealthDTO{Status: "ok", Storage: "ok", Cache: "ok"}, decodeBody[HealthDTO](t, rec))
}

func TestRetentionRuns_SQLite(t *testing.T) {
	// GIVEN: A server on SQLite with one retention pass behind it
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, nil)
	router := NewRouter(h, RouterOptions{})
	_, err = NewRetentionScheduler(store, 24*time.Hour).RunNow(context.Background())
	require.NoError(t, err)

	// WHEN: Listing retention runs
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/retention/runs", nil))

	// THEN: The pass is listed, with no next run while nothing is scheduled
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[RetentionRunListResponse](t, rec)
	require.Len(t, resp.Runs, 1)
	assert.NotEmpty(t, resp.Runs[0].CompletedAt)
	assert.Empty(t, resp.NextRun)
}

func TestRetentionRuns_NextRun(t *testing.T) {
	// GIVEN: A running retention scheduler with a fixed clock
	s := newTestServer(t, RouterOptions{})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rs := NewRetentionScheduler(s.store, 24*time.Hour)
	rs.CheckInterval = time.Hour
	rs.now = func() time.Time { return now }
	s.handler.Retention = rs
	rs.Start()
	t.Cleanup(rs.Stop)

	// WHEN: Listing retention runs
	rec := s.do(t, http.MethodGet, "/api/retention/runs", "")

	// THEN: The next pass is reported one interval out
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[RetentionRunListResponse](t, rec)
	assert.Empty(t, resp.Runs)
	assert.Equal(t, "2026-03-01T13:00:00Z", resp.NextRun)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec := s.do(t, http.MethodGet, "/api/nothing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeBody[ErrorResponse](t, rec).Error)
}
