/*
Package roster provides the emergency-department shift generation engine.

PURPOSE:
  Given a snapshot of physicians, their box competencies, monthly availability,
  fixed rotations, leave and coverage requirements, the engine produces a
  day-by-day assignment of physicians to (box, band) cells for one month,
  plus statistics describing how much of the grid could be filled.

KEY CONCEPTS IN THIS FILE (types.go):
  - Box: a treatment area needing independent coverage (1..3)
  - Band: morning / afternoon / night time window
  - Cell: one (box, band) slot of a day
  - Physician: the registry record the engine reads (never writes)
  - Assignment / RosterDay / Roster: the generated grid
  - Statistics / Parameters: derived aggregates and run options

DESIGN PRINCIPLES:
  1. Pure core: Builder, Filter, Assignor and Overrider do no I/O
  2. Determinism: identical snapshots produce identical rosters
  3. Unfilled cells are data, not errors (coverage gap)
  4. Precision: hours are decimal.Decimal, never float

USAGE:
  builder := roster.NewBuilder(roster.DefaultCatalog())
  result, err := builder.Build(roster.Snapshot{
      Month: time.March, Year: 2025,
      Physicians: physicians,
      Availability: availability,
      Coverage: roster.DefaultCoverage(),
  })

SEE ALSO:
  - catalog.go: Shift codes and band decomposition
  - eligibility.go: Candidate filtering rules
  - builder.go: The generation loop
  - generator.go: Loading snapshots from collaborators
*/
package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BOXES AND BANDS
// =============================================================================

// Box identifies a treatment area. Valid boxes are 1..MaxBox.
type Box int

const (
	Box1 Box = 1
	Box2 Box = 2
	Box3 Box = 3

	MaxBox = 3
)

func (b Box) Valid() bool    { return b >= 1 && b <= MaxBox }
func (b Box) String() string { return fmt.Sprintf("box%d", int(b)) }

// Boxes returns every box in iteration order.
func Boxes() []Box { return []Box{Box1, Box2, Box3} }

// Band is a time window within a day.
type Band string

const (
	BandMorning   Band = "mattina"
	BandAfternoon Band = "pomeriggio"
	BandNight     Band = "notte"
)

// Bands returns every band in iteration order.
func Bands() []Band { return []Band{BandMorning, BandAfternoon, BandNight} }

// Letter returns the shift-code letter for the band (M, P, N).
func (b Band) Letter() byte {
	switch b {
	case BandMorning:
		return 'M'
	case BandAfternoon:
		return 'P'
	case BandNight:
		return 'N'
	}
	return 0
}

// Code returns the single-band shift code assigned for this band.
func (b Band) Code() string {
	if l := b.Letter(); l != 0 {
		return string(l)
	}
	return ""
}

func (b Band) Valid() bool { return b.Letter() != 0 }

// ParseBand converts a wire name ("mattina", "pomeriggio", "notte") or a
// single letter into a Band.
func ParseBand(s string) (Band, error) {
	switch s {
	case "mattina", "M", "morning":
		return BandMorning, nil
	case "pomeriggio", "P", "afternoon":
		return BandAfternoon, nil
	case "notte", "N", "night":
		return BandNight, nil
	}
	return "", fmt.Errorf("unknown band %q", s)
}

// Cell is one (box, band) slot of a roster day.
type Cell struct {
	Box  Box
	Band Band
}

func (c Cell) String() string { return c.Box.String() + "/" + string(c.Band) }

// =============================================================================
// PHYSICIAN - Read-only registry record
// =============================================================================

type PhysicianID string

// Priority is the registry priority tag. Only consulted when
// Parameters.RespectPreferences is set.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Bassa"
)

// Rank orders priorities, high first. Unknown tags sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// ParsePriority accepts the tags in any letter case. Empty means Media.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}
	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow} {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

type Physician struct {
	ID             PhysicianID
	Name           string
	Surname        string
	EnvironmentID  string
	Specialization string
	Competencies   map[Box]bool
	MinHours       int
	MaxHours       int
	FixedHours     bool
	Priority       Priority
	Note           string
}

// CanWork reports whether the physician holds the competency for box.
func (p Physician) CanWork(b Box) bool { return p.Competencies[b] }

func (p Physician) FullName() string {
	if p.Surname == "" {
		return p.Name
	}
	return p.Name + " " + p.Surname
}

// =============================================================================
// ROSTER - The generated grid
// =============================================================================

// Assignment is a filled cell.
type Assignment struct {
	PhysicianID PhysicianID
	ShiftCode   string
}

// RosterDay holds the assignments of one calendar day, keyed by cell.
// A missing or nil entry is an unfilled cell.
type RosterDay struct {
	Date  time.Time
	Slots map[Cell]*Assignment
}

// Get returns the assignment for cell, or nil.
func (d *RosterDay) Get(c Cell) *Assignment { return d.Slots[c] }

// Holds reports whether physician id occupies any cell of the day.
func (d *RosterDay) Holds(id PhysicianID) bool {
	for _, a := range d.Slots {
		if a != nil && a.PhysicianID == id {
			return true
		}
	}
	return false
}

// Roster is a full month of RosterDays, Days[0] being day 1.
type Roster struct {
	Month         time.Month
	Year          int
	EnvironmentID string
	Cells         []Cell
	Days          []RosterDay
	Ledger        *HoursLedger
}

// NewRoster creates an empty grid for month/year laid out on cells.
func NewRoster(year int, month time.Month, environmentID string, cells []Cell) *Roster {
	n := DaysInMonth(year, month)
	r := &Roster{
		Month:         month,
		Year:          year,
		EnvironmentID: environmentID,
		Cells:         append([]Cell(nil), cells...),
		Days:          make([]RosterDay, n),
		Ledger:        NewHoursLedger(),
	}
	for i := range r.Days {
		r.Days[i] = RosterDay{
			Date:  time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC),
			Slots: make(map[Cell]*Assignment, len(cells)),
		}
	}
	return r
}

// DayCount returns the number of days in the roster.
func (r *Roster) DayCount() int { return len(r.Days) }

// Day returns the 1-based day, or nil when out of range.
func (r *Roster) Day(day int) *RosterDay {
	if day < 1 || day > len(r.Days) {
		return nil
	}
	return &r.Days[day-1]
}

// Get returns the assignment at (day, cell), or nil.
func (r *Roster) Get(day int, c Cell) *Assignment {
	d := r.Day(day)
	if d == nil {
		return nil
	}
	return d.Get(c)
}

// HasCell reports whether c is part of the grid layout.
func (r *Roster) HasCell(c Cell) bool {
	for _, rc := range r.Cells {
		if rc == c {
			return true
		}
	}
	return false
}

func (r *Roster) set(day int, c Cell, a *Assignment) {
	if d := r.Day(day); d != nil {
		d.Slots[c] = a
	}
}

// Filled returns the number of non-empty cells.
func (r *Roster) Filled() int {
	n := 0
	for i := range r.Days {
		for _, c := range r.Cells {
			if r.Days[i].Slots[c] != nil {
				n++
			}
		}
	}
	return n
}

// CellAssignment is the flattened form of one filled cell, used by stores.
type CellAssignment struct {
	Day         int         `json:"day"`
	Box         Box         `json:"box"`
	Band        Band        `json:"band"`
	PhysicianID PhysicianID `json:"physician_id"`
	ShiftCode   string      `json:"shift_code"`
}

// Flatten lists filled cells in iteration order (day, then layout order).
func (r *Roster) Flatten() []CellAssignment {
	var out []CellAssignment
	for i := range r.Days {
		for _, c := range r.Cells {
			if a := r.Days[i].Slots[c]; a != nil {
				out = append(out, CellAssignment{
					Day:         i + 1,
					Box:         c.Box,
					Band:        c.Band,
					PhysicianID: a.PhysicianID,
					ShiftCode:   a.ShiftCode,
				})
			}
		}
	}
	return out
}

// Restore rebuilds a roster from flattened assignments and recomputes its
// hours ledger from the catalog. Assignments outside the layout are rejected.
func Restore(year int, month time.Month, environmentID string, cells []Cell, items []CellAssignment, catalog *Catalog) (*Roster, error) {
	r := NewRoster(year, month, environmentID, cells)
	for _, it := range items {
		c := Cell{Box: it.Box, Band: it.Band}
		if r.Day(it.Day) == nil || !r.HasCell(c) {
			return nil, fmt.Errorf("restore roster: cell %s on day %d outside layout", c, it.Day)
		}
		st, err := catalog.Describe(it.ShiftCode)
		if err != nil {
			return nil, err
		}
		r.set(it.Day, c, &Assignment{PhysicianID: it.PhysicianID, ShiftCode: it.ShiftCode})
		r.Ledger.Add(it.PhysicianID, st.Duration)
	}
	return r, nil
}

// =============================================================================
// PARAMETERS AND STATISTICS
// =============================================================================

// Parameters are the caller-supplied generation options, echoed back in
// results. Zero values disable the corresponding rule.
type Parameters struct {
	MaxConsecutiveShifts int  `json:"maxConsecutiveShifts"`
	MinRestHours         int  `json:"minRestHours"`
	BalanceLoad          bool `json:"balanceLoad"`
	RespectPreferences   bool `json:"respectPreferences"`
	PrioritizeLeave      bool `json:"prioritizeLeave"`
}

// Gap is one unfilled cell.
type Gap struct {
	Day  int
	Cell Cell
}

// Statistics are derived from a finished roster.
type Statistics struct {
	TotalSlots            int
	FilledSlots           int
	CoverageGap           int
	AvgShiftsPerPhysician decimal.Decimal
	Gaps                  []Gap
	// Understaffed lists cells whose requirement exceeds the single
	// physician the grid can hold.
	Understaffed []CoverageRequirement
}

// ComputeStatistics derives statistics for r. physicianCount must be > 0.
func ComputeStatistics(r *Roster, physicianCount int, coverage Coverage) Statistics {
	stats := Statistics{
		TotalSlots:            r.DayCount() * len(r.Cells),
		AvgShiftsPerPhysician: decimal.Zero,
	}
	for i := range r.Days {
		for _, c := range r.Cells {
			if r.Days[i].Slots[c] != nil {
				stats.FilledSlots++
			} else {
				stats.Gaps = append(stats.Gaps, Gap{Day: i + 1, Cell: c})
			}
		}
	}
	stats.CoverageGap = stats.TotalSlots - stats.FilledSlots
	if physicianCount > 0 {
		stats.AvgShiftsPerPhysician = decimal.NewFromInt(int64(stats.FilledSlots)).
			DivRound(decimal.NewFromInt(int64(physicianCount)), 2)
	}
	for _, req := range coverage {
		if req.Required > 1 {
			stats.Understaffed = append(stats.Understaffed, req)
		}
	}
	return stats
}
