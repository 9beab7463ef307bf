/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Field names follow the
  wire format the React client already speaks (Italian keys: mese, anno,
  giorni, statistiche...), so the domain model can keep English names.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Physicians:   PhysicianDTO, CompetenciesDTO
  Availability: AvailabilityDTO
  Leave:        LeaveDTO
  Rotations:    RotationDTO
  Coverage:     CoverageDTO, CoverageRequirementDTO
  Rosters:      GenerateRequest, OverrideRequest, RosterResponse, DayDTO,
                BoxDTO, SlotDTO, StatisticsDTO, GapDTO
  Hours:        HoursDTO
  Scenarios:    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/catalog.go: ShiftJSON, returned as-is by /api/shifts
*/
package api

import (
	"fmt"
	"time"

	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

const (
	dayLayout  = "02/01/2006"
	dateLayout = "2006-01-02"
)

// =============================================================================
// PHYSICIANS
// =============================================================================

// CompetenciesDTO is the per-box competency flag set.
type CompetenciesDTO struct {
	Box1 bool `json:"box1"`
	Box2 bool `json:"box2"`
	Box3 bool `json:"box3"`
}

// PhysicianDTO represents a physician in requests and responses.
type PhysicianDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"nome"`
	Surname        string          `json:"cognome,omitempty"`
	EnvironmentID  string          `json:"ambienteId"`
	Specialization string          `json:"specializzazione,omitempty"`
	Competencies   CompetenciesDTO `json:"competenze"`
	MinHours       int             `json:"oreMinime"`
	MaxHours       int             `json:"oreMassime"`
	FixedHours     bool            `json:"oreFisse"`
	Priority       string          `json:"priorita"`
	Note           string          `json:"note,omitempty"`
}

func toPhysicianDTO(p roster.Physician) PhysicianDTO {
	return PhysicianDTO{
		ID:             string(p.ID),
		Name:           p.Name,
		Surname:        p.Surname,
		EnvironmentID:  p.EnvironmentID,
		Specialization: p.Specialization,
		Competencies: CompetenciesDTO{
			Box1: p.Competencies[roster.Box1],
			Box2: p.Competencies[roster.Box2],
			Box3: p.Competencies[roster.Box3],
		},
		MinHours:   p.MinHours,
		MaxHours:   p.MaxHours,
		FixedHours: p.FixedHours,
		Priority:   string(p.Priority),
		Note:       p.Note,
	}
}

func (d PhysicianDTO) toPhysician() (roster.Physician, error) {
	priority, err := roster.ParsePriority(d.Priority)
	if err != nil {
		return roster.Physician{}, err
	}
	if d.MinHours < 0 || d.MaxHours < 0 {
		return roster.Physician{}, fmt.Errorf("hour bounds must not be negative")
	}
	if d.MaxHours > 0 && d.MinHours > d.MaxHours {
		return roster.Physician{}, fmt.Errorf("oreMinime (%d) exceeds oreMassime (%d)", d.MinHours, d.MaxHours)
	}
	return roster.Physician{
		ID:             roster.PhysicianID(d.ID),
		Name:           d.Name,
		Surname:        d.Surname,
		EnvironmentID:  d.EnvironmentID,
		Specialization: d.Specialization,
		Competencies: map[roster.Box]bool{
			roster.Box1: d.Competencies.Box1,
			roster.Box2: d.Competencies.Box2,
			roster.Box3: d.Competencies.Box3,
		},
		MinHours:   d.MinHours,
		MaxHours:   d.MaxHours,
		FixedHours: d.FixedHours,
		Priority:   priority,
		Note:       d.Note,
	}, nil
}

// =============================================================================
// AVAILABILITY, LEAVE, ROTATIONS, COVERAGE
// =============================================================================

// AvailabilityDTO is a monthly declaration: day of month -> shift code.
type AvailabilityDTO struct {
	PhysicianID   string         `json:"medicoId"`
	Month         int            `json:"mese"`
	Year          int            `json:"anno"`
	EnvironmentID string         `json:"ambienteId"`
	Days          map[int]string `json:"giorni"`
}

// LeaveDTO represents a leave period. Dates are YYYY-MM-DD.
type LeaveDTO struct {
	ID            string  `json:"id,omitempty"`
	PhysicianID   string  `json:"medicoId"`
	EnvironmentID string  `json:"ambienteId,omitempty"`
	Start         string  `json:"dataInizio"`
	End           string  `json:"dataFine"`
	Kind          string  `json:"tipo"`
	DailyHours    float64 `json:"oreGiornaliere"`
	Note          string  `json:"note,omitempty"`
}

func toLeaveDTO(p leave.Period) LeaveDTO {
	hours, _ := p.DailyHours.Float64()
	return LeaveDTO{
		ID:            p.ID,
		PhysicianID:   p.PhysicianID,
		EnvironmentID: p.EnvironmentID,
		Start:         p.Start.Format(dateLayout),
		End:           p.End.Format(dateLayout),
		Kind:          string(p.Kind),
		DailyHours:    hours,
		Note:          p.Note,
	}
}

// RotationDTO represents a fixed rotation.
type RotationDTO struct {
	ID            string   `json:"id,omitempty"`
	PhysicianID   string   `json:"medicoId"`
	EnvironmentID string   `json:"ambienteId"`
	Sequence      []string `json:"sequenza"`
	StartDate     string   `json:"dataInizio,omitempty"`
	Active        bool     `json:"attivo"`
}

func toRotationDTO(fr roster.FixedRotation) RotationDTO {
	dto := RotationDTO{
		ID:            fr.ID,
		PhysicianID:   string(fr.PhysicianID),
		EnvironmentID: fr.EnvironmentID,
		Sequence:      fr.Sequence,
		Active:        fr.Active,
	}
	if !fr.StartDate.IsZero() {
		dto.StartDate = fr.StartDate.Format(dateLayout)
	}
	return dto
}

// CoverageRequirementDTO is one (box, band) requirement.
type CoverageRequirementDTO struct {
	Box      int    `json:"box"`
	Band     string `json:"fascia"`
	Required int    `json:"richiesti"`
}

// CoverageDTO is the full coverage of an environment.
type CoverageDTO struct {
	EnvironmentID string                   `json:"ambienteId"`
	Requirements  []CoverageRequirementDTO `json:"requisiti"`
}

func toCoverageDTO(env string, cv roster.Coverage) CoverageDTO {
	dto := CoverageDTO{EnvironmentID: env, Requirements: make([]CoverageRequirementDTO, len(cv))}
	for i, req := range cv {
		dto.Requirements[i] = CoverageRequirementDTO{Box: int(req.Box), Band: string(req.Band), Required: req.Required}
	}
	return dto
}

// =============================================================================
// ROSTERS
// =============================================================================

// GenerateRequest is the body of POST /api/rosters/generate.
type GenerateRequest struct {
	Month         int               `json:"mese"`
	Year          int               `json:"anno"`
	EnvironmentID string            `json:"ambienteId"`
	Parameters    roster.Parameters `json:"parametri"`
}

// OverrideRequest is the body of POST /api/rosters/{year}/{month}/override.
// A null medicoId clears the cell.
type OverrideRequest struct {
	EnvironmentID string  `json:"ambienteId"`
	Day           int     `json:"giorno"`
	Box           int     `json:"box"`
	Band          string  `json:"fascia"`
	PhysicianID   *string `json:"medicoId"`
}

// SlotDTO is a filled cell.
type SlotDTO struct {
	PhysicianID   string `json:"medico"`
	PhysicianName string `json:"nomeMedico,omitempty"`
	ShiftCode     string `json:"turno"`
}

// BoxDTO holds one box's bands. Missing cells are null.
type BoxDTO struct {
	Morning   *SlotDTO `json:"mattina"`
	Afternoon *SlotDTO `json:"pomeriggio"`
	Night     *SlotDTO `json:"notte"`
}

func (b *BoxDTO) set(band roster.Band, s *SlotDTO) {
	switch band {
	case roster.BandMorning:
		b.Morning = s
	case roster.BandAfternoon:
		b.Afternoon = s
	case roster.BandNight:
		b.Night = s
	}
}

// DayDTO is one roster day.
type DayDTO struct {
	Date string `json:"data"`
	Box1 BoxDTO `json:"box1"`
	Box2 BoxDTO `json:"box2"`
	Box3 BoxDTO `json:"box3"`
}

func (d *DayDTO) box(b roster.Box) *BoxDTO {
	switch b {
	case roster.Box1:
		return &d.Box1
	case roster.Box2:
		return &d.Box2
	}
	return &d.Box3
}

// GapDTO is an unfilled cell.
type GapDTO struct {
	Day  int    `json:"giorno"`
	Box  int    `json:"box"`
	Band string `json:"fascia"`
}

// StatisticsDTO is the statistics block of a roster.
type StatisticsDTO struct {
	TotalSlots   int                      `json:"turniTotali"`
	FilledSlots  int                      `json:"turniAssegnati"`
	AvgShifts    float64                  `json:"mediaTurniPerMedico"`
	Gaps         []GapDTO                 `json:"problemiCopertura"`
	CoverageGap  int                      `json:"scoperti"`
	Understaffed []CoverageRequirementDTO `json:"sottodimensionati,omitempty"`
}

func toStatisticsDTO(s roster.Statistics) StatisticsDTO {
	avg, _ := s.AvgShiftsPerPhysician.Float64()
	dto := StatisticsDTO{
		TotalSlots:  s.TotalSlots,
		FilledSlots: s.FilledSlots,
		AvgShifts:   avg,
		Gaps:        make([]GapDTO, len(s.Gaps)),
		CoverageGap: s.CoverageGap,
	}
	for i, g := range s.Gaps {
		dto.Gaps[i] = GapDTO{Day: g.Day, Box: int(g.Cell.Box), Band: string(g.Cell.Band)}
	}
	for _, u := range s.Understaffed {
		dto.Understaffed = append(dto.Understaffed, CoverageRequirementDTO{Box: int(u.Box), Band: string(u.Band), Required: u.Required})
	}
	return dto
}

// RosterResponse is returned by generate, get and override.
type RosterResponse struct {
	ID            string            `json:"id"`
	Month         int               `json:"mese"`
	Year          int               `json:"anno"`
	EnvironmentID string            `json:"ambienteId"`
	Days          []DayDTO          `json:"giorni"`
	Statistics    StatisticsDTO     `json:"statistiche"`
	Parameters    roster.Parameters `json:"parametriGenerazione"`
	Strategy      string            `json:"strategia,omitempty"`
	GeneratedAt   string            `json:"generatoIl,omitempty"`
	UpdatedAt     string            `json:"aggiornatoIl,omitempty"`
}

// toRosterResponse renders a roster. names maps physician IDs to display
// names and may be nil.
func toRosterResponse(g *roster.Generated, names map[roster.PhysicianID]string) RosterResponse {
	rec, r := g.Record, g.Roster
	resp := RosterResponse{
		ID:            rec.ID,
		Month:         int(rec.Month),
		Year:          rec.Year,
		EnvironmentID: rec.EnvironmentID,
		Days:          make([]DayDTO, r.DayCount()),
		Statistics:    toStatisticsDTO(rec.Statistics),
		Parameters:    rec.Parameters,
		Strategy:      rec.Strategy,
	}
	if !rec.GeneratedAt.IsZero() {
		resp.GeneratedAt = rec.GeneratedAt.Format(time.RFC3339)
	}
	if !rec.UpdatedAt.IsZero() {
		resp.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	for i := range r.Days {
		day := &resp.Days[i]
		day.Date = r.Days[i].Date.Format(dayLayout)
		for _, c := range r.Cells {
			a := r.Days[i].Get(c)
			if a == nil {
				continue
			}
			day.box(c.Box).set(c.Band, &SlotDTO{
				PhysicianID:   string(a.PhysicianID),
				PhysicianName: names[a.PhysicianID],
				ShiftCode:     a.ShiftCode,
			})
		}
	}
	return resp
}

// =============================================================================
// HOURS
// =============================================================================

// HoursDTO is one line of the hours report.
type HoursDTO struct {
	PhysicianID       string             `json:"medicoId"`
	Name              string             `json:"nome"`
	Total             float64            `json:"oreTotali"`
	ByBand            map[string]float64 `json:"orePerFascia"`
	ByBox             map[string]float64 `json:"orePerBox"`
	Shifts            int                `json:"turni"`
	LeaveHours        float64            `json:"oreAssenza"`
	MinHours          int                `json:"oreMinime"`
	MaxHours          int                `json:"oreMassime"`
	BelowMinimum      bool               `json:"sottoMinimo"`
	AboveMaximum      bool               `json:"sopraMassimo"`
	FixedHoursReached bool               `json:"oreFisseRaggiunte"`
}

func toHoursDTO(s roster.HoursSummary) HoursDTO {
	total, _ := s.Total.Float64()
	leaveHours, _ := s.LeaveHours.Float64()
	dto := HoursDTO{
		PhysicianID:       string(s.PhysicianID),
		Name:              s.Name,
		Total:             total,
		ByBand:            make(map[string]float64, len(s.ByBand)),
		ByBox:             make(map[string]float64, len(s.ByBox)),
		Shifts:            s.Shifts,
		LeaveHours:        leaveHours,
		MinHours:          s.MinHours,
		MaxHours:          s.MaxHours,
		BelowMinimum:      s.BelowMinimum,
		AboveMaximum:      s.AboveMaximum,
		FixedHoursReached: s.FixedHoursReached,
	}
	for band, h := range s.ByBand {
		dto.ByBand[string(band)], _ = h.Float64()
	}
	for box, h := range s.ByBox {
		dto.ByBox[box.String()], _ = h.Float64()
	}
	return dto
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario. Month and year
// default to the current month.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
	Month      int    `json:"mese,omitempty"`
	Year       int    `json:"anno,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
