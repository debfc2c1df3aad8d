/*
handlers.go - HTTP API handlers for reserve studies

PURPOSE:
  Exposes the reserve projection engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the study service.

ENDPOINTS:
  Studies:
    GET    /api/studies                             List studies
    POST   /api/studies                             Create study from JSON
    GET    /api/studies/{id}                        Full study definition
    DELETE /api/studies/{id}                        Delete study

  Inventory:
    POST   /api/studies/{id}/components             Add component
    DELETE /api/studies/{id}/components/{componentID} Remove component

  Projections:
    GET    /api/studies/{id}/projection             Run projection
                                                    ?horizon= ?start_year= ?threshold=
    GET    /api/studies/{id}/critical               Critical components ?threshold=
    GET    /api/studies/{id}/categories             Cost per category
    POST   /api/projections                         Project an inline study (not stored)
    GET    /api/portfolio                           Solvency of every stored study

  Scenarios:
    see scenarios.go

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Service: Study lifecycle and projections
  - Store: Direct access for reset
  - StudyFactory: JSON to Study conversion

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Study or component not found
  - 409: Duplicate component ID
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/warp/reserve-engine/factory"
	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service      *study.Service
	Store        study.Store
	StudyFactory *factory.StudyFactory

	log *logrus.Logger

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler. A nil factory gets the default one.
func NewHandler(svc *study.Service, store study.Store, f *factory.StudyFactory, log *logrus.Logger) *Handler {
	if f == nil {
		f = factory.NewStudyFactory()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Service:      svc,
		Store:        store,
		StudyFactory: f,
		log:          log,
	}
}

// =============================================================================
// STUDY HANDLERS
// =============================================================================

// ListStudies returns all studies.
// GET /api/studies
func (h *Handler) ListStudies(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.ListStudies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list studies", err)
		return
	}

	dtos := make([]StudySummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toStudySummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStudy creates a study from a JSON definition.
// POST /api/studies
func (h *Handler) CreateStudy(w http.ResponseWriter, r *http.Request) {
	var sj factory.StudyJSON
	if err := json.NewDecoder(r.Body).Decode(&sj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	st, err := h.StudyFactory.FromJSON(sj)
	if err != nil {
		writeServiceError(w, "Invalid study definition", err)
		return
	}

	created, err := h.Service.CreateStudy(r.Context(), *st)
	if err != nil {
		writeServiceError(w, "Failed to create study", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudyDTO(h.StudyFactory, created))
}

// GetStudy returns the full study definition.
// GET /api/studies/{id}
func (h *Handler) GetStudy(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.GetStudy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "Failed to load study", err)
		return
	}
	writeJSON(w, http.StatusOK, toStudyDTO(h.StudyFactory, *st))
}

// DeleteStudy removes a study.
// DELETE /api/studies/{id}
func (h *Handler) DeleteStudy(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteStudy(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "Failed to delete study", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVENTORY HANDLERS
// =============================================================================

// AddComponent adds one component to a study's inventory.
// POST /api/studies/{id}/components
func (h *Handler) AddComponent(w http.ResponseWriter, r *http.Request) {
	var cj factory.ComponentJSON
	if err := json.NewDecoder(r.Body).Decode(&cj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c, err := factory.ComponentFromJSON(cj)
	if err != nil {
		writeServiceError(w, "Invalid component", err)
		return
	}

	added, err := h.Service.AddComponent(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		writeServiceError(w, "Failed to add component", err)
		return
	}
	writeJSON(w, http.StatusCreated, factory.ComponentToJSON(added))
}

// RemoveComponent removes one component.
// DELETE /api/studies/{id}/components/{componentID}
func (h *Handler) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	err := h.Service.RemoveComponent(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "componentID"))
	if err != nil {
		writeServiceError(w, "Failed to remove component", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetProjection runs the engine over a stored study.
// GET /api/studies/{id}/projection?horizon=30&start_year=2025&threshold=10
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	opts, err := projectOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameter", err)
		return
	}

	p, err := h.Service.Project(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		writeServiceError(w, "Failed to project study", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(p))
}

// GetCritical returns components due within the threshold.
// GET /api/studies/{id}/critical?threshold=10
func (h *Handler) GetCritical(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryInt(r, "threshold")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameter", err)
		return
	}

	ctx := r.Context()
	id := chi.URLParam(r, "id")
	st, err := h.Service.GetStudy(ctx, id)
	if err != nil {
		writeServiceError(w, "Failed to load study", err)
		return
	}
	items, err := h.Service.Critical(ctx, id, threshold)
	if err != nil {
		writeServiceError(w, "Failed to list critical components", err)
		return
	}
	writeJSON(w, http.StatusOK, toCriticalDTOs(items, st.StartYear))
}

// GetCategories returns replacement cost per category.
// GET /api/studies/{id}/categories
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Service.Categories(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "Failed to compute categories", err)
		return
	}
	dtos := make([]CategoryTotalDTO, len(cats))
	for i, c := range cats {
		dtos[i] = toCategoryDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ProjectInline projects a study definition without storing it.
// POST /api/projections
func (h *Handler) ProjectInline(w http.ResponseWriter, r *http.Request) {
	var sj factory.StudyJSON
	if err := json.NewDecoder(r.Body).Decode(&sj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	opts, err := projectOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameter", err)
		return
	}

	st, err := h.StudyFactory.FromJSON(sj)
	if err != nil {
		writeServiceError(w, "Invalid study definition", err)
		return
	}
	prepared, err := h.Service.PrepareStudy(*st)
	if err != nil {
		writeServiceError(w, "Invalid study definition", err)
		return
	}

	p, err := h.Service.ProjectStudy(prepared, opts)
	if err != nil {
		writeServiceError(w, "Failed to project study", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(p))
}

// GetPortfolio projects every stored study and reports solvency per policy.
// GET /api/portfolio
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	projections, err := h.Service.ProjectAll(r.Context(), study.ProjectOptions{})
	if err != nil {
		writeServiceError(w, "Failed to project portfolio", err)
		return
	}

	dto := PortfolioDTO{Studies: make([]PortfolioStudyDTO, len(projections))}
	for i, p := range projections {
		dto.Studies[i] = PortfolioStudyDTO{
			StudyID:        p.Study.ID,
			PropertyName:   p.Study.Property.Name,
			SelectedPolicy: p.Study.SelectedPolicy,
			CriticalCount:  len(p.Result.Critical),
			Policies:       toTrajectoryDTOs(p.Result, p.Study.SelectedPolicy),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func projectOptions(r *http.Request) (study.ProjectOptions, error) {
	var opts study.ProjectOptions
	var err error
	if opts.HorizonYears, err = queryInt(r, "horizon"); err != nil {
		return opts, err
	}
	if opts.StartYear, err = queryInt(r, "start_year"); err != nil {
		return opts, err
	}
	if opts.CriticalThreshold, err = queryInt(r, "threshold"); err != nil {
		return opts, err
	}
	return opts, nil
}

// queryInt returns 0 when the parameter is absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

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

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case study.IsNotFound(err):
		return http.StatusNotFound
	case study.IsConflict(err):
		return http.StatusConflict
	case reserve.IsClientError(err), errors.Is(err, factory.ErrInvalidDefinition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
