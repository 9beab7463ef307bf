package roster

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS LEDGER - Per-run accumulated hours
// =============================================================================

// HoursLedger accumulates worked hours and shift counts per physician for
// one generation run. It is derived data: Restore recomputes it from the
// assignments, so it is never persisted on its own.
type HoursLedger struct {
	hours  map[PhysicianID]decimal.Decimal
	shifts map[PhysicianID]int
}

func NewHoursLedger() *HoursLedger {
	return &HoursLedger{
		hours:  make(map[PhysicianID]decimal.Decimal),
		shifts: make(map[PhysicianID]int),
	}
}

// Add records one shift of the given duration.
func (l *HoursLedger) Add(id PhysicianID, hours decimal.Decimal) {
	l.hours[id] = l.hours[id].Add(hours)
	l.shifts[id]++
}

// Remove reverses a previous Add.
func (l *HoursLedger) Remove(id PhysicianID, hours decimal.Decimal) {
	l.hours[id] = l.hours[id].Sub(hours)
	l.shifts[id]--
	if l.shifts[id] <= 0 {
		delete(l.shifts, id)
		delete(l.hours, id)
	}
}

// Hours returns accumulated hours (zero when unknown).
func (l *HoursLedger) Hours(id PhysicianID) decimal.Decimal {
	if h, ok := l.hours[id]; ok {
		return h
	}
	return decimal.Zero
}

func (l *HoursLedger) Shifts(id PhysicianID) int { return l.shifts[id] }

// LedgerEntry is one row of a ledger snapshot.
type LedgerEntry struct {
	PhysicianID PhysicianID
	Hours       decimal.Decimal
	Shifts      int
}

// Entries returns all rows sorted by physician ID.
func (l *HoursLedger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.hours))
	for id, h := range l.hours {
		out = append(out, LedgerEntry{PhysicianID: id, Hours: h, Shifts: l.shifts[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PhysicianID < out[j].PhysicianID })
	return out
}
