/*
handlers.go - HTTP API handlers for the finance calculators

PURPOSE:
  Exposes the calculator factory via REST API. Handles HTTP
  request/response, JSON serialization, result caching and history,
  and delegates every calculation to the factory.

ENDPOINTS:
  Calculators:
    GET    /api/calculators                  List calculator kinds
    POST   /api/calculators/{kind}           Run a calculator

  History:
    GET    /api/calculations?kind=&limit=    Saved calculations, newest first
    GET    /api/calculations/{id}            One saved calculation
    GET    /api/calculations/{id}/schedule.csv
    GET    /api/calculations/{id}/schedule.pdf

  Scenarios:
    GET    /api/scenarios                    Preset example inputs
    POST   /api/scenarios/{id}/run           Run a preset

  Maintenance:
    GET    /api/retention/runs               History pruning log
    GET    /healthz                          Liveness

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Factory: JSON to calculation result
  - History: saved calculations (memory or SQLite)
  - Cache:   results keyed by canonical input (optional)
  - Runs:    retention run log (optional, SQLite only)

REQUEST FLOW:
  1. Read the JSON body (1 MiB max)
  2. Look up the cache by kind + canonical input
  3. On a miss, run the calculator and fill the cache
  4. Save the calculation to history
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (malformed JSON, missing or bad fields)
  - 404: Unknown calculator, scenario or calculation
  - 422: Well-formed input that cannot amortize or be paid off
  - 429: Rate limited (see ratelimit.go)
  - 500: Internal errors
  Cache and history failures are logged and never fail a calculation.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - factory/calculator.go: calculator catalog
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/finance-engine/cache"
	"github.com/warp/finance-engine/engine"
	"github.com/warp/finance-engine/factory"
	"github.com/warp/finance-engine/history"
	"github.com/warp/finance-engine/report"
	"github.com/warp/finance-engine/store/sqlite"
)

// maxBodyBytes bounds calculator request bodies.
const maxBodyBytes = 1 << 20

// maxListLimit caps ?limit= on history listings.
const maxListLimit = 500

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// RunLog records retention runs. Implemented by *sqlite.Store.
type RunLog interface {
	SaveRetentionRun(ctx context.Context, r sqlite.RetentionRun) error
	GetRetentionRuns(ctx context.Context, limit int) ([]sqlite.RetentionRun, error)
}

// pinger is implemented by stores and caches that can check their backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// nextRunner reports when the retention scheduler runs next.
type nextRunner interface {
	NextRunTime() time.Time
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Factory   *factory.CalculatorFactory
	History   history.Store
	Cache     cache.Cache
	Runs      RunLog
	Retention nextRunner

	now func() time.Time
}

// NewHandler creates a handler saving to store. c may be nil to disable
// result caching.
func NewHandler(store history.Store, c cache.Cache) *Handler {
	h := &Handler{
		Factory: factory.NewCalculatorFactory(),
		History: store,
		Cache:   c,
		now:     time.Now,
	}
	if runs, ok := store.(RunLog); ok {
		h.Runs = runs
	}
	return h
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// ListCalculators returns the calculator catalog.
// GET /api/calculators
func (h *Handler) ListCalculators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CalculatorListResponse{Calculators: h.Factory.Kinds()})
}

// RunCalculator runs one calculator on the JSON body.
// POST /api/calculators/{kind}
func (h *Handler) RunCalculator(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if _, err := h.Factory.Describe(kind); err != nil {
		writeCalcError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	dto, err := h.calculate(r.Context(), kind, body)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// calculate runs kind on input through the cache and saves the result.
func (h *Handler) calculate(ctx context.Context, kind string, input []byte) (*CalculationDTO, error) {
	key, keyErr := cache.Key(kind, input)
	if keyErr != nil {
		// Not JSON: let the factory produce the field-level error.
		key = ""
	}

	entry, cached := h.lookup(ctx, key)
	if !cached {
		outcome, err := h.Factory.Run(kind, input)
		if err != nil {
			return nil, err
		}
		result, err := json.Marshal(outcome.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		_, scheduled := outcome.Schedule()
		entry = cachedCalculation{
			Figures:  outcome.Result.Figures(),
			Charts:   outcome.Result.Charts(),
			Result:   result,
			Schedule: scheduled,
		}
		h.store(ctx, key, entry)
	}

	dto := &CalculationDTO{
		Kind:      kind,
		Figures:   entry.Figures,
		Charts:    entry.Charts,
		Result:    entry.Result,
		Cached:    cached,
		Schedule:  entry.Schedule,
		CreatedAt: h.now().UTC(),
	}

	rec, err := history.NewRecord(kind, input, entry.Result, dto.CreatedAt)
	if err != nil {
		log.Printf("[History] Failed to build record for %s: %v", kind, err)
		return dto, nil
	}
	if err := h.History.Save(ctx, rec); err != nil {
		log.Printf("[History] Failed to save %s: %v", kind, err)
		return dto, nil
	}
	dto.ID = rec.ID
	return dto, nil
}

func (h *Handler) lookup(ctx context.Context, key string) (cachedCalculation, bool) {
	if h.Cache == nil || key == "" {
		return cachedCalculation{}, false
	}
	raw, ok := h.Cache.Get(ctx, key)
	if !ok {
		return cachedCalculation{}, false
	}
	var entry cachedCalculation
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Printf("[Cache] Discarding unreadable entry %s: %v", key, err)
		return cachedCalculation{}, false
	}
	return entry, true
}

func (h *Handler) store(ctx context.Context, key string, entry cachedCalculation) {
	if h.Cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[Cache] Failed to encode %s: %v", key, err)
		return
	}
	if err := h.Cache.Set(ctx, key, string(raw)); err != nil {
		log.Printf("[Cache] Failed to set %s: %v", key, err)
	}
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListCalculations returns saved calculations, newest first.
// GET /api/calculations?kind=mortgage&limit=20
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind != "" {
		if _, err := h.Factory.Describe(kind); err != nil {
			writeCalcError(w, err)
			return
		}
	}

	limit := history.DefaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := h.History.List(r.Context(), kind, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculations", err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, CalculationListResponse{Calculations: records, Count: len(records)})
}

// GetCalculation returns one saved calculation.
// GET /api/calculations/{id}
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ExportScheduleCSV downloads the amortization table of a saved calculation.
// GET /api/calculations/{id}/schedule.csv
func (h *Handler) ExportScheduleCSV(w http.ResponseWriter, r *http.Request) {
	rec, sched, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteScheduleCSV(&buf, sched); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render CSV", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, rec.Kind, rec.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportSchedulePDF downloads the amortization table as a PDF report.
// GET /api/calculations/{id}/schedule.pdf
func (h *Handler) ExportSchedulePDF(w http.ResponseWriter, r *http.Request) {
	rec, sched, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}

	var figures []engine.Figure
	var title string
	if outcome, err := h.Factory.Run(rec.Kind, rec.InputJSON); err == nil {
		figures = outcome.Result.Figures()
	}
	if d, err := h.Factory.Describe(rec.Kind); err == nil {
		title = d.Name + " Schedule"
	}

	var buf bytes.Buffer
	if err := report.WriteSchedulePDF(&buf, title, sched, figures); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render PDF", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.pdf"`, rec.Kind, rec.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) loadRecord(w http.ResponseWriter, r *http.Request) (*history.Record, bool) {
	id := chi.URLParam(r, "id")
	if !history.ParseID(id) {
		writeError(w, http.StatusNotFound, "Calculation not found", history.ErrRecordNotFound)
		return nil, false
	}
	rec, err := h.History.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calculation", err)
		return nil, false
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Calculation not found", history.ErrRecordNotFound)
		return nil, false
	}
	return rec, true
}

// loadSchedule recomputes the schedule of a saved calculation from its
// input. The engine is deterministic, so the table matches the saved result.
func (h *Handler) loadSchedule(w http.ResponseWriter, r *http.Request) (*history.Record, engine.Schedule, bool) {
	rec, ok := h.loadRecord(w, r)
	if !ok {
		return nil, engine.Schedule{}, false
	}
	outcome, err := h.Factory.Run(rec.Kind, rec.InputJSON)
	if err != nil {
		writeCalcError(w, err)
		return nil, engine.Schedule{}, false
	}
	sched, ok := outcome.Schedule()
	if !ok {
		writeError(w, http.StatusNotFound, "Calculation has no schedule",
			fmt.Errorf("%s results carry no amortization table", rec.Kind))
		return nil, engine.Schedule{}, false
	}
	return rec, sched, true
}

// =============================================================================
// MAINTENANCE HANDLERS
// =============================================================================

// ListRetentionRuns returns the history pruning log.
// GET /api/retention/runs
func (h *Handler) ListRetentionRuns(w http.ResponseWriter, r *http.Request) {
	resp := RetentionRunListResponse{Runs: []RetentionRunDTO{}}
	if h.Retention != nil {
		if next := h.Retention.NextRunTime(); !next.IsZero() {
			resp.NextRun = next.Format(time.RFC3339)
		}
	}
	if h.Runs == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	runs, err := h.Runs.GetRetentionRuns(r.Context(), history.DefaultListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get retention runs", err)
		return
	}
	resp.Runs = toRetentionRunDTOs(runs)
	writeJSON(w, http.StatusOK, resp)
}

// Health reports whether the server and its backends answer.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dto := HealthDTO{Status: "ok", Storage: "ok", Cache: "disabled"}
	status := http.StatusOK

	if p, ok := h.History.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			dto.Status, dto.Storage = "degraded", err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.Cache != nil {
		dto.Cache = "ok"
		if p, ok := h.Cache.(pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				// results are still computed without a cache
				dto.Cache = err.Error()
			}
		}
	}
	writeJSON(w, status, dto)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeCalcError maps calculation errors to statuses.
func writeCalcError(w http.ResponseWriter, err error) {
	status, message := classify(err)
	resp := ErrorResponse{Error: message, Details: err.Error()}

	var inputErr *engine.InputError
	if errors.As(err, &inputErr) {
		resp.Field = inputErr.Field
	}
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
	}
	writeJSON(w, status, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, factory.ErrUnknownCalculator):
		return http.StatusNotFound, "Unknown calculator"
	case errors.Is(err, factory.ErrUnknownScenario):
		return http.StatusNotFound, "Unknown scenario"
	case errors.Is(err, engine.ErrNonAmortizing):
		return http.StatusUnprocessableEntity, "Payment does not cover interest"
	case errors.Is(err, engine.ErrUnpayable):
		return http.StatusUnprocessableEntity, "Balance cannot be paid off"
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	default:
		return http.StatusInternalServerError, "Calculation failed"
	}
}
