/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	reserve studies for demos. Each scenario resets storage and creates one or
	more studies from the factory presets.

AVAILABLE SCENARIOS:

	golf-view-manor:      The reference 75-unit condominium study
	new-construction:     Recently built property, nothing due for years
	deferred-maintenance: Aging property with overdue items and a thin reserve
	portfolio:            All three, for the portfolio view

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Parse preset JSON via factory
 3. Create the studies through the service (validation included)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "golf-view-manor"}

ADDING NEW SCENARIOS:
 1. Add the preset JSON to factory/presets.go
 2. Add to 'scenarios' slice and 'scenarioPresets' map

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler and helpers
  - factory/presets.go: Study JSON definitions
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/warp/reserve-engine/factory"
)

// ErrUnknownScenario is returned when a scenario ID is not registered.
var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "golf-view-manor",
		Name:        "Golf View Manor II",
		Description: "4 buildings, 75 units, 8 components; roofs due in years 8 and 11",
	},
	{
		ID:          "new-construction",
		Name:        "New Construction",
		Description: "Recently completed tower; first major replacement in year 7",
	},
	{
		ID:          "deferred-maintenance",
		Name:        "Deferred Maintenance",
		Description: "Aging property with overdue balconies; baseline funding is insolvent immediately",
	},
	{
		ID:          "portfolio",
		Name:        "Portfolio",
		Description: "All three properties, for comparing solvency across studies",
	},
}

var scenarioPresets = map[string][]func() string{
	"golf-view-manor":      {factory.GolfViewManorJSON},
	"new-construction":     {factory.NewConstructionJSON},
	"deferred-maintenance": {factory.DeferredMaintenanceJSON},
	"portfolio":            {factory.GolfViewManorJSON, factory.NewConstructionJSON, factory.DeferredMaintenanceJSON},
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.CurrentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario resets storage and loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.LoadScenarioByID(r.Context(), req.ScenarioID); err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.setCurrentScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// LoadScenarioByID resets storage and creates the scenario's studies.
// cmd/server uses it to seed an empty database.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) error {
	presets, ok := scenarioPresets[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}

	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	h.setCurrentScenario("")

	for _, preset := range presets {
		st, err := h.StudyFactory.ParseStudy(preset())
		if err != nil {
			return err
		}
		if _, err := h.Service.CreateStudy(ctx, *st); err != nil {
			return fmt.Errorf("create study %s: %w", st.ID, err)
		}
	}

	h.setCurrentScenario(id)
	h.log.WithFields(logrus.Fields{"scenario": id, "studies": len(presets)}).Info("scenario loaded")
	return nil
}

// CurrentScenario returns the ID of the loaded scenario, or "".
func (h *Handler) CurrentScenario() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentScenario
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}
