/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates physicians and a month
	of availability, and optionally leave, fixed rotations and coverage.

AVAILABLE SCENARIOS:

	pronto-soccorso:   Four physicians with mixed competencies, full availability
	two-physicians:    One box 1/2 physician, one box 3 physician
	coverage-gaps:     Sparse availability, generation leaves visible gaps
	leave-rotations:   Leave periods and a fixed M-P-N-S-R rotation

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create physicians in the requested environment
 3. Declare availability for the requested month
 4. Optionally add leave, rotations and coverage

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "pronto-soccorso", "mese": 3, "anno": 2025}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add the loader to 'scenarioLoaders'

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Roster endpoints used after loading
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "pronto-soccorso",
		Name:        "Pronto Soccorso",
		Description: "Four physicians with mixed box competencies, available on every band",
	},
	{
		ID:          "two-physicians",
		Name:        "Two Physicians",
		Description: "One physician for boxes 1 and 2, one for box 3",
	},
	{
		ID:          "coverage-gaps",
		Name:        "Coverage Gaps",
		Description: "Sparse availability that leaves unfilled cells",
	},
	{
		ID:          "leave-rotations",
		Name:        "Leave and Rotations",
		Description: "Annual leave, a law 104 permit and a fixed M-P-N-S-R rotation",
	},
}

// scenarioEnv carries what every loader needs.
type scenarioEnv struct {
	env   string
	year  int
	month time.Month
}

type scenarioLoader func(ctx context.Context, h *Handler, s scenarioEnv) error

var scenarioLoaders = map[string]scenarioLoader{
	"pronto-soccorso": loadProntoSoccorsoScenario,
	"two-physicians":  loadTwoPhysiciansScenario,
	"coverage-gaps":   loadCoverageGapsScenario,
	"leave-rotations": loadLeaveRotationsScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

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
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	loader, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	s := scenarioEnv{env: h.DefaultEnvironment, year: req.Year, month: time.Month(req.Month)}
	if s.year == 0 || s.month == 0 {
		now := time.Now()
		s.year, s.month = now.Year(), now.Month()
	}
	if !roster.ValidMonth(s.year, s.month) {
		writeError(w, http.StatusBadRequest, "Invalid year or month", roster.ErrInvalidMonth)
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := loader(ctx, h, s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "loaded",
		"scenario":   req.ScenarioID,
		"ambienteId": s.env,
		"mese":       int(s.month),
		"anno":       s.year,
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadProntoSoccorsoScenario(ctx context.Context, h *Handler, s scenarioEnv) error {
	physicians := []roster.Physician{
		demoPhysician("med-001", "Mario", "Rossi", "Cardiologia", roster.PriorityHigh, 140, 180, roster.Box1, roster.Box2),
		demoPhysician("med-002", "Laura", "Bianchi", "Medicina d'urgenza", roster.PriorityLow, 130, 170, roster.Box1, roster.Box3),
		demoPhysician("med-003", "Giuseppe", "Verdi", "Ortopedia", roster.PriorityHigh, 120, 160, roster.Box2, roster.Box3),
		demoPhysician("med-004", "Francesca", "Neri", "Medicina generale", roster.PriorityLow, 140, 180, roster.Box1, roster.Box2, roster.Box3),
	}
	for _, p := range physicians {
		if err := savePhysicianWithAvailability(ctx, h, s, p, func(int) string { return "MPN" }); err != nil {
			return err
		}
	}
	return nil
}

func loadTwoPhysiciansScenario(ctx context.Context, h *Handler, s scenarioEnv) error {
	a := demoPhysician("med-a", "Anna", "Gallo", "Medicina d'urgenza", roster.PriorityMedium, 0, 0, roster.Box1, roster.Box2)
	b := demoPhysician("med-b", "Bruno", "Conti", "Medicina generale", roster.PriorityMedium, 0, 0, roster.Box3)
	for _, p := range []roster.Physician{a, b} {
		if err := savePhysicianWithAvailability(ctx, h, s, p, func(int) string { return "MPN" }); err != nil {
			return err
		}
	}
	return nil
}

func loadCoverageGapsScenario(ctx context.Context, h *Handler, s scenarioEnv) error {
	morningOnly := demoPhysician("med-101", "Paolo", "Ferri", "Pediatria", roster.PriorityMedium, 60, 120, roster.Box1, roster.Box2, roster.Box3)
	alternate := demoPhysician("med-102", "Sara", "Moretti", "Neurologia", roster.PriorityMedium, 60, 120, roster.Box1, roster.Box3)

	if err := savePhysicianWithAvailability(ctx, h, s, morningOnly, func(int) string { return "M" }); err != nil {
		return err
	}
	return savePhysicianWithAvailability(ctx, h, s, alternate, func(day int) string {
		if day%2 == 0 {
			return "PN"
		}
		return ""
	})
}

func loadLeaveRotationsScenario(ctx context.Context, h *Handler, s scenarioEnv) error {
	if err := loadProntoSoccorsoScenario(ctx, h, s); err != nil {
		return err
	}

	first := roster.StartOfMonth(s.year, s.month)
	periods := []leave.Period{
		{PhysicianID: "med-001", EnvironmentID: s.env, Start: first.AddDate(0, 0, 9), End: first.AddDate(0, 0, 13), Kind: leave.KindFerie},
		{PhysicianID: "med-002", EnvironmentID: s.env, Start: first.AddDate(0, 0, 2), End: first.AddDate(0, 0, 2), Kind: leave.KindPermesso104, DailyHours: decimal.NewFromInt(6)},
	}
	for _, p := range periods {
		if _, err := h.Store.AddLeave(ctx, p); err != nil {
			return err
		}
	}

	fixed := demoPhysician("med-005", "Elena", "Russo", "Anestesia", roster.PriorityMedium, 120, 160, roster.Box1, roster.Box2)
	fixed.FixedHours = true
	fixed.EnvironmentID = s.env
	if _, err := h.Store.SavePhysician(ctx, fixed); err != nil {
		return err
	}
	_, err := h.Store.SaveRotation(ctx, roster.FixedRotation{
		PhysicianID:   fixed.ID,
		EnvironmentID: s.env,
		Sequence:      []string{"M", "P", "N", "S", "R"},
		StartDate:     first,
		Active:        true,
	})
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func demoPhysician(id, name, surname, specialization string, priority roster.Priority, minHours, maxHours int, boxes ...roster.Box) roster.Physician {
	p := roster.Physician{
		ID:             roster.PhysicianID(id),
		Name:           name,
		Surname:        surname,
		Specialization: specialization,
		Competencies:   make(map[roster.Box]bool, len(boxes)),
		MinHours:       minHours,
		MaxHours:       maxHours,
		Priority:       priority,
	}
	for _, b := range boxes {
		p.Competencies[b] = true
	}
	return p
}

// savePhysicianWithAvailability stores p in the scenario environment and
// declares code(day) for every day of the month. Empty codes are skipped.
func savePhysicianWithAvailability(ctx context.Context, h *Handler, s scenarioEnv, p roster.Physician, code func(day int) string) error {
	p.EnvironmentID = s.env
	if _, err := h.Store.SavePhysician(ctx, p); err != nil {
		return err
	}
	days := make(map[int]string)
	for d := 1; d <= roster.DaysInMonth(s.year, s.month); d++ {
		if c := code(d); c != "" {
			days[d] = c
		}
	}
	return h.Store.SaveAvailability(ctx, roster.AvailabilityRecord{
		PhysicianID:   p.ID,
		EnvironmentID: s.env,
		Month:         s.month,
		Year:          s.year,
		Days:          days,
	})
}
