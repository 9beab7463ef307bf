/*
builder.go - Monthly roster generation

PURPOSE:
  Orchestrates the Eligibility Filter and the Slot Assignor over every day
  of the month and every cell of the layout, then computes statistics.

ITERATION ORDER (fixed):
  for day = 1..daysInMonth
    for box = 1..3
      for band = morning, afternoon, night   (cells without coverage skipped)
        candidates := filter.Candidates(day, cell)
        assignor.Assign(day, cell, band code, candidates)

STATE BETWEEN DAYS:
  Only the Hours Ledger and the assignments themselves (needed for the
  rest-after-night and same-band checks).

FAILURE SEMANTICS:
  Structural problems (no physicians, bad month, unknown codes, invalid
  coverage or rotations) are returned before the loop starts. Inside the
  loop nothing fails: unfillable cells become the coverage gap.

DETERMINISM:
  No randomness and no map iteration in the pick path. The same snapshot
  always produces the same roster.
*/
package roster

import (
	"fmt"
	"time"

	"github.com/warp/roster-engine/leave"
)

// Snapshot is everything one generation run reads.
type Snapshot struct {
	Month         time.Month
	Year          int
	EnvironmentID string
	Physicians    []Physician
	Availability  map[PhysicianID]AvailabilityRecord
	Leave         []leave.Period
	Rotations     []FixedRotation
	Coverage      Coverage
	Parameters    Parameters

	// SuppressLeave removes physicians on leave from availability.
	// Parameters.PrioritizeLeave forces it on.
	SuppressLeave bool
}

// Result is the output of one generation run.
type Result struct {
	Roster     *Roster
	Statistics Statistics
	Parameters Parameters
	Strategy   string
}

// Builder generates rosters. The zero Strategy means rotation, unless the
// snapshot asks for load balancing.
type Builder struct {
	Catalog  *Catalog
	Strategy Strategy
}

func NewBuilder(catalog *Catalog) *Builder {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Builder{Catalog: catalog}
}

// Validate checks the snapshot before generation.
func (b *Builder) Validate(snap Snapshot) error {
	if !ValidMonth(snap.Year, snap.Month) {
		return fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, snap.Year, snap.Month)
	}
	if len(snap.Physicians) == 0 {
		return ErrNoPhysiciansAvailable
	}
	coverage := snap.Coverage
	if coverage == nil {
		coverage = DefaultCoverage()
	}
	if err := coverage.Validate(); err != nil {
		return err
	}
	for _, rec := range snap.Availability {
		if err := rec.Validate(b.Catalog, snap.Year, snap.Month); err != nil {
			return err
		}
	}
	for _, fr := range snap.Rotations {
		if !fr.Active {
			continue
		}
		if err := fr.Validate(b.Catalog); err != nil {
			return err
		}
	}
	return nil
}

// Build runs one generation.
func (b *Builder) Build(snap Snapshot) (*Result, error) {
	if err := b.Validate(snap); err != nil {
		return nil, err
	}
	if snap.Coverage == nil {
		snap.Coverage = DefaultCoverage()
	}

	filter := b.filterFor(snap)
	assignor := NewAssignor(b.Catalog, b.strategyFor(snap.Parameters))
	r := NewRoster(snap.Year, snap.Month, snap.EnvironmentID, snap.Coverage.Cells())

	for day := 1; day <= r.DayCount(); day++ {
		for _, c := range r.Cells {
			candidates := filter.Candidates(day, c, snap.Physicians, r)
			if _, err := assignor.Assign(r, day, c, c.Band.Code(), candidates); err != nil {
				return nil, err
			}
		}
	}

	return &Result{
		Roster:     r,
		Statistics: ComputeStatistics(r, len(snap.Physicians), snap.Coverage),
		Parameters: snap.Parameters,
		Strategy:   assignor.strategy.Name(),
	}, nil
}

func (b *Builder) filterFor(snap Snapshot) *EligibilityFilter {
	var cal *leave.Calendar
	if snap.SuppressLeave || snap.Parameters.PrioritizeLeave {
		cal = leave.NewCalendar(snap.Leave)
	}
	resolver := NewAvailabilityResolver(snap.Year, snap.Month, snap.Availability, snap.Rotations, cal)
	return NewEligibilityFilter(b.Catalog, resolver, snap.Parameters)
}

func (b *Builder) strategyFor(p Parameters) Strategy {
	if b.Strategy != nil {
		return b.Strategy
	}
	if p.BalanceLoad {
		return LeastHoursStrategy{}
	}
	return NewRotatingStrategy()
}
