/*
handlers.go - HTTP API handlers for the roster engine

PURPOSE:
  Exposes physician data entry and roster generation via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the roster
  Generator and the SQLite store.

ENDPOINTS:
  Physicians:
    GET    /api/physicians                               List (?ambienteId=)
    POST   /api/physicians                               Create or update
    GET    /api/physicians/{id}                          Get one
    DELETE /api/physicians/{id}                          Delete with dependent data
    GET    /api/physicians/{id}/availability/{y}/{m}     Monthly availability
    PUT    /api/physicians/{id}/availability/{y}/{m}     Replace availability
    GET    /api/physicians/{id}/leave                    List leave
    POST   /api/physicians/{id}/leave                    Add leave (409 on overlap)

  Configuration:
    DELETE /api/leave/{id}                               Delete leave
    GET    /api/rotations, PUT /api/rotations            Fixed rotations
    GET    /api/coverage,  PUT /api/coverage             Coverage requirements
    GET    /api/shifts                                   Shift catalog

  Rosters:
    POST   /api/rosters/generate                         Generate and store
    GET    /api/rosters/{year}/{month}                   Stored roster
    POST   /api/rosters/{year}/{month}/override          Manual override
    GET    /api/rosters/{year}/{month}/hours             Hours report

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, refused override
  - 404: Physician or roster not found
  - 409: Overlapping leave
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/factory"
	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store              *sqlite.Store
	Generator          *roster.Generator
	CatalogFactory     *factory.CatalogFactory
	DefaultEnvironment string

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler. The generator must be backed by store.
func NewHandler(store *sqlite.Store, gen *roster.Generator, defaultEnvironment string) *Handler {
	return &Handler{
		Store:              store,
		Generator:          gen,
		CatalogFactory:     factory.NewCatalogFactory(),
		DefaultEnvironment: defaultEnvironment,
	}
}

func (h *Handler) environment(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if env := r.URL.Query().Get("ambienteId"); env != "" {
		return env
	}
	return h.DefaultEnvironment
}

// =============================================================================
// PHYSICIAN HANDLERS
// =============================================================================

// ListPhysicians returns the physicians of an environment.
func (h *Handler) ListPhysicians(w http.ResponseWriter, r *http.Request) {
	env := r.URL.Query().Get("ambienteId")
	physicians, err := h.Store.ListPhysicians(r.Context(), env)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list physicians", err)
		return
	}

	dtos := make([]PhysicianDTO, len(physicians))
	for i, p := range physicians {
		dtos[i] = toPhysicianDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SavePhysician creates or updates a physician.
func (h *Handler) SavePhysician(w http.ResponseWriter, r *http.Request) {
	var req PhysicianDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "nome is required", nil)
		return
	}
	req.EnvironmentID = h.environment(r, req.EnvironmentID)

	p, err := req.toPhysician()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid physician", err)
		return
	}
	saved, err := h.Store.SavePhysician(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save physician", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPhysicianDTO(saved))
}

// GetPhysician returns one physician.
func (h *Handler) GetPhysician(w http.ResponseWriter, r *http.Request) {
	p, ok := h.physician(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPhysicianDTO(*p))
}

// DeletePhysician removes a physician.
func (h *Handler) DeletePhysician(w http.ResponseWriter, r *http.Request) {
	p, ok := h.physician(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeletePhysician(r.Context(), p.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete physician", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// physician loads the {id} path parameter, writing 404 when missing.
func (h *Handler) physician(w http.ResponseWriter, r *http.Request) (*roster.Physician, bool) {
	id := roster.PhysicianID(chi.URLParam(r, "id"))
	p, err := h.Store.GetPhysician(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get physician", err)
		return nil, false
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Physician not found", nil)
		return nil, false
	}
	return p, true
}

// =============================================================================
// AVAILABILITY HANDLERS
// =============================================================================

// GetAvailability returns a monthly declaration (empty when none).
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := h.physician(w, r)
	if !ok {
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}

	rec, err := h.Store.GetAvailability(r.Context(), p.ID, year, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get availability", err)
		return
	}
	dto := AvailabilityDTO{
		PhysicianID:   string(p.ID),
		Month:         int(month),
		Year:          year,
		EnvironmentID: p.EnvironmentID,
		Days:          map[int]string{},
	}
	if rec != nil {
		dto.Days = rec.Days
	}
	writeJSON(w, http.StatusOK, dto)
}

// PutAvailability replaces a monthly declaration.
func (h *Handler) PutAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := h.physician(w, r)
	if !ok {
		return
	}
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}
	var req AvailabilityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := roster.AvailabilityRecord{
		PhysicianID:   p.ID,
		EnvironmentID: p.EnvironmentID,
		Month:         month,
		Year:          year,
		Days:          req.Days,
	}
	if rec.Days == nil {
		rec.Days = map[int]string{}
	}
	if err := rec.Validate(h.Generator.Catalog(), year, month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid availability", err)
		return
	}
	if err := h.Store.SaveAvailability(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save availability", err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityDTO{
		PhysicianID:   string(p.ID),
		Month:         int(month),
		Year:          year,
		EnvironmentID: p.EnvironmentID,
		Days:          rec.Days,
	})
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListLeave returns a physician's leave periods.
func (h *Handler) ListLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := h.physician(w, r)
	if !ok {
		return
	}
	periods, err := h.Store.GetLeavePeriods(r.Context(), p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave", err)
		return
	}
	dtos := make([]LeaveDTO, len(periods))
	for i, lp := range periods {
		dtos[i] = toLeaveDTO(lp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeave adds a leave period.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := h.physician(w, r)
	if !ok {
		return
	}
	var req LeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := time.Parse(dateLayout, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dataInizio (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.Parse(dateLayout, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dataFine (use YYYY-MM-DD)", err)
		return
	}

	period, err := h.Store.AddLeave(r.Context(), leave.Period{
		PhysicianID:   string(p.ID),
		EnvironmentID: p.EnvironmentID,
		Start:         start,
		End:           end,
		Kind:          leave.Kind(req.Kind),
		DailyHours:    decimal.NewFromFloat(req.DailyHours),
		Note:          req.Note,
	})
	if err != nil {
		writeDomainError(w, "Failed to add leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(period))
}

// DeleteLeave removes a leave period.
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Store.DeleteLeave(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete leave", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Leave not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ROTATION, COVERAGE AND CATALOG HANDLERS
// =============================================================================

// ListRotations returns the fixed rotations of an environment.
func (h *Handler) ListRotations(w http.ResponseWriter, r *http.Request) {
	rotations, err := h.Store.ListRotations(r.Context(), h.environment(r, ""))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rotations", err)
		return
	}
	dtos := make([]RotationDTO, len(rotations))
	for i, fr := range rotations {
		dtos[i] = toRotationDTO(fr)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveRotation creates or updates a fixed rotation.
func (h *Handler) SaveRotation(w http.ResponseWriter, r *http.Request) {
	var req RotationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	p, err := h.Store.GetPhysician(r.Context(), roster.PhysicianID(req.PhysicianID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get physician", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Physician not found", nil)
		return
	}

	fr := roster.FixedRotation{
		ID:            req.ID,
		PhysicianID:   p.ID,
		EnvironmentID: h.environment(r, req.EnvironmentID),
		Sequence:      req.Sequence,
		Active:        req.Active,
	}
	if req.StartDate != "" {
		if fr.StartDate, err = time.Parse(dateLayout, req.StartDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid dataInizio (use YYYY-MM-DD)", err)
			return
		}
	}
	if err := fr.Validate(h.Generator.Catalog()); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rotation", err)
		return
	}
	saved, err := h.Store.SaveRotation(r.Context(), fr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rotation", err)
		return
	}
	writeJSON(w, http.StatusOK, toRotationDTO(saved))
}

// GetCoverage returns the effective coverage (defaults when none stored).
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	env := h.environment(r, "")
	cv, err := h.Generator.Coverage(r.Context(), env)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get coverage", err)
		return
	}
	writeJSON(w, http.StatusOK, toCoverageDTO(env, cv))
}

// PutCoverage replaces the coverage of an environment.
func (h *Handler) PutCoverage(w http.ResponseWriter, r *http.Request) {
	var req CoverageDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	entries := make([]factory.CoverageJSON, len(req.Requirements))
	for i, e := range req.Requirements {
		entries[i] = factory.CoverageJSON{Box: e.Box, Band: e.Band, Required: e.Required}
	}
	cv, err := h.CatalogFactory.ParseCoverage(entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coverage", err)
		return
	}
	env := h.environment(r, req.EnvironmentID)
	if err := h.Store.SetCoverage(r.Context(), env, cv); err != nil {
		writeDomainError(w, "Failed to save coverage", err)
		return
	}
	writeJSON(w, http.StatusOK, toCoverageDTO(env, cv))
}

// ListShifts returns the shift catalog.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.CatalogFactory.Export(h.Generator.Catalog()))
}

// =============================================================================
// ROSTER HANDLERS
// =============================================================================

// GenerateRoster runs a generation and stores the result.
func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	env := h.environment(r, req.EnvironmentID)

	gen, err := h.Generator.Generate(r.Context(), roster.GenerateRequest{
		Month:         time.Month(req.Month),
		Year:          req.Year,
		EnvironmentID: env,
		Parameters:    req.Parameters,
	})
	if err != nil {
		writeDomainError(w, "Failed to generate roster", err)
		return
	}
	writeJSON(w, http.StatusOK, toRosterResponse(gen, h.names(r, env)))
}

// GetRoster returns the stored roster.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}
	env := h.environment(r, "")
	gen, err := h.Generator.Load(r.Context(), year, month, env)
	if err != nil {
		writeDomainError(w, "Failed to load roster", err)
		return
	}
	writeJSON(w, http.StatusOK, toRosterResponse(gen, h.names(r, env)))
}

// OverrideRoster replaces or clears one cell of the stored roster.
func (h *Handler) OverrideRoster(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}
	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	band, err := roster.ParseBand(req.Band)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fascia", err)
		return
	}

	override := roster.OverrideRequest{
		Day:  req.Day,
		Cell: roster.Cell{Box: roster.Box(req.Box), Band: band},
	}
	if req.PhysicianID != nil && *req.PhysicianID != "" {
		id := roster.PhysicianID(*req.PhysicianID)
		override.PhysicianID = &id
	}

	env := h.environment(r, req.EnvironmentID)
	gen, err := h.Generator.Override(r.Context(), year, month, env, override)
	if err != nil {
		writeDomainError(w, "Override rejected", err)
		return
	}
	writeJSON(w, http.StatusOK, toRosterResponse(gen, h.names(r, env)))
}

// GetHours returns the hours report of the stored roster.
// ?sort=total orders it by hours worked.
func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}
	lines, err := h.Generator.Hours(r.Context(), year, month, h.environment(r, ""))
	if err != nil {
		writeDomainError(w, "Failed to compute hours", err)
		return
	}
	if r.URL.Query().Get("sort") == "total" {
		roster.SortByTotal(lines)
	}
	dtos := make([]HoursDTO, len(lines))
	for i, l := range lines {
		dtos[i] = toHoursDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// names maps physician IDs to display names for the response. Lookup
// failures only drop the names.
func (h *Handler) names(r *http.Request, env string) map[roster.PhysicianID]string {
	physicians, err := h.Store.ListPhysicians(r.Context(), env)
	if err != nil {
		return nil
	}
	out := make(map[roster.PhysicianID]string, len(physicians))
	for _, p := range physicians {
		out[p.ID] = p.FullName()
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

func parseYearMonth(r *http.Request) (int, time.Month, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year %q is not a number", chi.URLParam(r, "year"))
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month %q is not a number", chi.URLParam(r, "month"))
	}
	if !roster.ValidMonth(year, time.Month(month)) {
		return 0, 0, fmt.Errorf("%w: %d-%02d", roster.ErrInvalidMonth, year, month)
	}
	return year, time.Month(month), nil
}

// writeDomainError maps engine and store errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, leave.ErrOverlap):
		writeError(w, http.StatusConflict, message, err)
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case roster.IsClientError(err), errors.Is(err, leave.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
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
