/*
override.go - Manual replacement of a single cell

PURPOSE:
  Lets a coordinator swap or clear one assignment after generation. The
  new physician is re-validated with the same rules the Eligibility Filter
  applies during generation; a refused override changes nothing.

VALIDATION:
  - day within the month, cell part of the roster layout
  - physician known to the registry snapshot
  - EligibilityFilter.Check passes (competency, availability, same-band
    double-booking, rest after a night on day-1, day+1 free after a night,
    plus any optional Parameters rules)

LEDGER:
  The previous occupant loses the old shift's duration, the new one gains
  it. Clearing a cell (nil physician) only removes.
*/
package roster

import "fmt"

// OverrideRequest targets one cell. A nil PhysicianID clears the cell.
type OverrideRequest struct {
	Day         int
	Cell        Cell
	PhysicianID *PhysicianID
}

// Overrider re-validates and applies manual overrides.
type Overrider struct {
	catalog    *Catalog
	filter     *EligibilityFilter
	physicians map[PhysicianID]Physician
}

// NewOverrider prepares an Overrider for rosters built from snap.
func NewOverrider(b *Builder, snap Snapshot) *Overrider {
	o := &Overrider{
		catalog:    b.Catalog,
		filter:     b.filterFor(snap),
		physicians: make(map[PhysicianID]Physician, len(snap.Physicians)),
	}
	for _, p := range snap.Physicians {
		o.physicians[p.ID] = p
	}
	return o
}

// Override applies req to r. On error r is left unchanged.
func (o *Overrider) Override(r *Roster, req OverrideRequest) (*Assignment, error) {
	fail := func(reason string) error {
		e := &InvalidOverrideError{Day: req.Day, Cell: req.Cell, Reason: reason}
		if req.PhysicianID != nil {
			e.PhysicianID = *req.PhysicianID
		}
		return e
	}

	if r.Day(req.Day) == nil {
		return nil, fail(fmt.Sprintf("day must be between 1 and %d", r.DayCount()))
	}
	if !r.HasCell(req.Cell) {
		return nil, fail("cell is not part of the roster layout")
	}

	var next *Assignment
	if req.PhysicianID != nil {
		p, ok := o.physicians[*req.PhysicianID]
		if !ok {
			return nil, fail("unknown physician")
		}
		if reason := o.filter.Check(p, req.Day, req.Cell, r); reason != "" {
			return nil, fail(reason)
		}
		next = &Assignment{PhysicianID: p.ID, ShiftCode: req.Cell.Band.Code()}
	}

	if prev := r.Get(req.Day, req.Cell); prev != nil {
		st, err := o.catalog.Describe(prev.ShiftCode)
		if err != nil {
			return nil, err
		}
		r.Ledger.Remove(prev.PhysicianID, st.Duration)
	}
	r.set(req.Day, req.Cell, next)
	if next != nil {
		r.Ledger.Add(next.PhysicianID, o.catalog.ForBand(req.Cell.Band).Duration)
	}
	return next, nil
}
