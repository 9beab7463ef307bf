/*
eligibility.go - Candidate filtering for one (day, box, band) cell

PURPOSE:
  Computes who may fill a cell. The filter never picks; it returns the full
  eligible set in registry order for the Slot Assignor.

RULES (all must hold):
  1. Competency:      physician.Competencies[box] is true
  2. Availability:    AvailabilityResolver.IsAvailable(p, day, band)
  3. No double-booking: p holds no other cell of the same band that day.
     During generation only cells already visited can be filled, so the
     check is naturally order-dependent.
  4. Rest after night: p did not work a night shift on day-1 (day 1 passes)

  For a night cell, p must also be free on day+1. This only matters for
  manual overrides: during generation day+1 is still empty.

OPTIONAL RULES (Parameters, zero disables):
  - MaxConsecutiveShifts: p worked each of the previous N days -> rejected
  - MinRestHours: fewer than N hours between another of p's shifts and this one

ORDERING:
  Registry order, or stably by priority (Alta, Media, Bassa) when
  RespectPreferences is set.

SEE ALSO:
  - assignor.go: Picks from the returned set
  - override.go: Reuses Check for re-validation
*/
package roster

import (
	"fmt"
	"sort"
	"time"
)

// EligibilityFilter applies the eligibility rules.
type EligibilityFilter struct {
	catalog  *Catalog
	resolver *AvailabilityResolver
	params   Parameters
}

func NewEligibilityFilter(catalog *Catalog, resolver *AvailabilityResolver, params Parameters) *EligibilityFilter {
	return &EligibilityFilter{catalog: catalog, resolver: resolver, params: params}
}

// Candidates returns the IDs of every physician eligible for (day, c).
func (f *EligibilityFilter) Candidates(day int, c Cell, physicians []Physician, r *Roster) []PhysicianID {
	eligible := make([]Physician, 0, len(physicians))
	for _, p := range physicians {
		if f.Check(p, day, c, r) == "" {
			eligible = append(eligible, p)
		}
	}
	if f.params.RespectPreferences {
		sort.SliceStable(eligible, func(i, j int) bool {
			return eligible[i].Priority.Rank() < eligible[j].Priority.Rank()
		})
	}
	ids := make([]PhysicianID, len(eligible))
	for i, p := range eligible {
		ids[i] = p.ID
	}
	return ids
}

// Check returns an empty string when p is eligible for (day, c), otherwise
// the first rule that fails. The cell c itself is ignored when scanning r.
func (f *EligibilityFilter) Check(p Physician, day int, c Cell, r *Roster) string {
	if !p.CanWork(c.Box) {
		return fmt.Sprintf("no competency for %s", c.Box)
	}
	if !f.resolver.IsAvailable(p.ID, day, c.Band) {
		return fmt.Sprintf("not available for %s", c.Band)
	}
	for _, other := range r.Cells {
		if other == c || other.Band != c.Band {
			continue
		}
		if a := r.Get(day, other); a != nil && a.PhysicianID == p.ID {
			return fmt.Sprintf("already assigned to %s", other)
		}
	}
	if f.workedNight(p.ID, day-1, r) {
		return fmt.Sprintf("resting after a night shift on day %d", day-1)
	}

	target := f.catalog.ForBand(c.Band)
	if target.IsNight {
		if next := r.Day(day + 1); next != nil && next.Holds(p.ID) {
			return fmt.Sprintf("assigned on day %d, which must be a rest day", day+1)
		}
	}

	if k := f.params.MaxConsecutiveShifts; k > 0 {
		run := 0
		for d := day - 1; d >= 1 && r.Day(d).Holds(p.ID); d-- {
			run++
		}
		if run >= k {
			return fmt.Sprintf("already worked %d consecutive days", run)
		}
	}

	if h := f.params.MinRestHours; h > 0 {
		if gap, ok := f.shortestGap(p.ID, day, c, target, r); ok && gap < time.Duration(h)*time.Hour {
			return fmt.Sprintf("only %s rest between shifts (minimum %dh)", gap, h)
		}
	}
	return ""
}

func (f *EligibilityFilter) workedNight(id PhysicianID, day int, r *Roster) bool {
	d := r.Day(day)
	if d == nil {
		return false
	}
	for _, a := range d.Slots {
		if a == nil || a.PhysicianID != id {
			continue
		}
		if st, err := f.catalog.Describe(a.ShiftCode); err == nil && st.IsNight {
			return true
		}
	}
	return false
}

// shortestGap measures the rest between the candidate shift and every other
// shift p holds on day-1, day and day+1. Overlapping shifts give a zero gap.
func (f *EligibilityFilter) shortestGap(id PhysicianID, day int, c Cell, target ShiftType, r *Roster) (time.Duration, bool) {
	start := time.Duration(day-1)*24*time.Hour + target.Start
	end := time.Duration(day-1)*24*time.Hour + target.EndOffset()

	var best time.Duration
	found := false
	for d := day - 1; d <= day+1; d++ {
		rd := r.Day(d)
		if rd == nil {
			continue
		}
		for cell, a := range rd.Slots {
			if a == nil || a.PhysicianID != id || (d == day && cell == c) {
				continue
			}
			st, err := f.catalog.Describe(a.ShiftCode)
			if err != nil {
				continue
			}
			oStart := time.Duration(d-1)*24*time.Hour + st.Start
			oEnd := time.Duration(d-1)*24*time.Hour + st.EndOffset()
			var gap time.Duration
			switch {
			case oEnd <= start:
				gap = start - oEnd
			case end <= oStart:
				gap = oStart - end
			}
			if !found || gap < best {
				best, found = gap, true
			}
		}
	}
	return best, found
}
