/*
scenarios.go - Preset calculator inputs

PURPOSE:
  Serves the factory's scenario catalog: realistic example inputs for
  demos, smoke tests and front-end "try it" buttons. Running a scenario
  goes through the same cache and history path as a posted input.

AVAILABLE SCENARIOS:
  first-home, car-loan, zero-percent-loan, card-extra-100, minimum-trap,
  rent-or-buy-7y, hysa-quarterly, retire-at-65, college-newborn,
  annuity-due, household-budget

  minimum-trap is deliberately unpayable and answers 422.

USAGE VIA API:
  GET  /api/scenarios
  POST /api/scenarios/first-home/run

SEE ALSO:
  - factory/scenarios.go: scenario definitions
  - handlers.go: calculate (shared run path)
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/finance-engine/factory"
)

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the preset example inputs.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ScenarioListResponse{Scenarios: factory.Scenarios()})
}

// RunScenario runs a preset as if its input had been posted.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	s, err := factory.FindScenario(chi.URLParam(r, "id"))
	if err != nil {
		writeCalcError(w, err)
		return
	}
	dto, err := h.calculate(r.Context(), s.Kind, s.Input)
	if err != nil {
		writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}
