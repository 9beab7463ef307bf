/*
assignor.go - Picking one physician for a cell

PURPOSE:
  The Slot Assignor turns an eligible candidate list into an assignment.
  Selection is delegated to a Strategy so the deterministic rotation can be
  replaced without touching the Eligibility Filter.

STRATEGIES:
  RotatingStrategy (default):
    candidates[(day + offset[cell]) mod len(candidates)]
    Offsets decorrelate consecutive cells of the same day:
      box1: M 0, P 1, N 2
      box2: M 3, P 0, N 1
      box3: M 2, P 3

  LeastHoursStrategy (Parameters.BalanceLoad):
    the candidate with the fewest accumulated hours; ties by list position.

EMPTY CANDIDATES:
  Not an error. The cell stays empty and shows up in the coverage gap.
*/
package roster

import "fmt"

// Strategy picks one candidate. candidates is never empty.
type Strategy interface {
	Name() string
	Pick(day int, c Cell, candidates []PhysicianID, ledger *HoursLedger) PhysicianID
}

// =============================================================================
// ROTATING STRATEGY
// =============================================================================

// DefaultOffsets are the per-cell additive offsets of the rotation.
var DefaultOffsets = map[Cell]int{
	{Box1, BandMorning}:   0,
	{Box1, BandAfternoon}: 1,
	{Box1, BandNight}:     2,
	{Box2, BandMorning}:   3,
	{Box2, BandAfternoon}: 0,
	{Box2, BandNight}:     1,
	{Box3, BandMorning}:   2,
	{Box3, BandAfternoon}: 3,
}

type RotatingStrategy struct {
	Offsets map[Cell]int
}

func NewRotatingStrategy() *RotatingStrategy {
	return &RotatingStrategy{Offsets: DefaultOffsets}
}

func (s *RotatingStrategy) Name() string { return "rotation" }

func (s *RotatingStrategy) Pick(day int, c Cell, candidates []PhysicianID, _ *HoursLedger) PhysicianID {
	i := (day + s.Offsets[c]) % len(candidates)
	return candidates[i]
}

// =============================================================================
// LEAST-HOURS STRATEGY
// =============================================================================

type LeastHoursStrategy struct{}

func (LeastHoursStrategy) Name() string { return "least_hours" }

func (LeastHoursStrategy) Pick(_ int, _ Cell, candidates []PhysicianID, ledger *HoursLedger) PhysicianID {
	best := candidates[0]
	for _, id := range candidates[1:] {
		if ledger.Hours(id).LessThan(ledger.Hours(best)) {
			best = id
		}
	}
	return best
}

// =============================================================================
// ASSIGNOR
// =============================================================================

// Assignor writes picks into a roster and its ledger.
type Assignor struct {
	catalog  *Catalog
	strategy Strategy
}

func NewAssignor(catalog *Catalog, strategy Strategy) *Assignor {
	if strategy == nil {
		strategy = NewRotatingStrategy()
	}
	return &Assignor{catalog: catalog, strategy: strategy}
}

// Assign fills (day, c) with code using the strategy. With no candidates the
// cell is left empty and (nil, nil) is returned. Placeholder codes fail with
// ErrUnassignableShift.
func (a *Assignor) Assign(r *Roster, day int, c Cell, code string, candidates []PhysicianID) (*Assignment, error) {
	st, err := a.catalog.Describe(code)
	if err != nil {
		return nil, err
	}
	if !st.Assignable() {
		return nil, fmt.Errorf("%w: %q", ErrUnassignableShift, code)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	id := a.strategy.Pick(day, c, candidates, r.Ledger)
	assignment := &Assignment{PhysicianID: id, ShiftCode: st.Code}
	r.set(day, c, assignment)
	r.Ledger.Add(id, st.Duration)
	return assignment, nil
}
