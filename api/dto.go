/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Calculator inputs
  are not listed here: they are the typed inputs of the lending, savings
  and household packages, decoded by the factory.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

TYPES:
  Calculations:
    CalculationDTO, CalculationListResponse

  Catalog:
    CalculatorListResponse, ScenarioListResponse

  Maintenance:
    RetentionRunDTO, RetentionRunListResponse, HealthDTO

  Errors:
    ErrorResponse

SEE ALSO:
  - handlers.go: Uses these types
  - factory/calculator.go: Descriptor and Outcome
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/finance-engine/engine"
	"github.com/warp/finance-engine/factory"
	"github.com/warp/finance-engine/history"
	"github.com/warp/finance-engine/store/sqlite"
)

// =============================================================================
// CALCULATIONS
// =============================================================================

// CalculationDTO is the response to running a calculator or a scenario.
// ID is empty when the result could not be saved to history.
type CalculationDTO struct {
	ID        string          `json:"id,omitempty"`
	Kind      string          `json:"kind"`
	Figures   []engine.Figure `json:"figures"`
	Charts    []engine.Chart  `json:"charts"`
	Result    json.RawMessage `json:"result"`
	Cached    bool            `json:"cached"`
	Schedule  bool            `json:"has_schedule"`
	CreatedAt time.Time       `json:"created_at"`
}

// cachedCalculation is what the result cache holds for one input.
type cachedCalculation struct {
	Figures  []engine.Figure `json:"figures"`
	Charts   []engine.Chart  `json:"charts"`
	Result   json.RawMessage `json:"result"`
	Schedule bool            `json:"has_schedule"`
}

// CalculationListResponse wraps history listings.
type CalculationListResponse struct {
	Calculations []history.Record `json:"calculations"`
	Count        int              `json:"count"`
}

// =============================================================================
// CATALOG
// =============================================================================

// CalculatorListResponse lists every calculator kind.
type CalculatorListResponse struct {
	Calculators []factory.Descriptor `json:"calculators"`
}

// ScenarioListResponse lists preset example inputs.
type ScenarioListResponse struct {
	Scenarios []factory.Scenario `json:"scenarios"`
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// RetentionRunDTO is one history pruning pass.
type RetentionRunDTO struct {
	ID          string `json:"id"`
	Cutoff      string `json:"cutoff"`
	Removed     int    `json:"removed"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// RetentionRunListResponse lists recent runs and when the next one is due.
type RetentionRunListResponse struct {
	Runs    []RetentionRunDTO `json:"runs"`
	NextRun string            `json:"next_run,omitempty"`
}

func toRetentionRunDTOs(runs []sqlite.RetentionRun) []RetentionRunDTO {
	dtos := make([]RetentionRunDTO, 0, len(runs))
	for _, run := range runs {
		dto := RetentionRunDTO{
			ID:        run.ID,
			Cutoff:    run.Cutoff.Format(time.RFC3339),
			Removed:   run.Removed,
			Error:     run.Error,
			StartedAt: run.StartedAt.Format(time.RFC3339),
		}
		if run.CompletedAt != nil {
			dto.CompletedAt = run.CompletedAt.Format(time.RFC3339)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

// HealthDTO reports liveness of the server and its store.
type HealthDTO struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Cache   string `json:"cache"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}
