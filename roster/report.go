package roster

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/leave"
)

// =============================================================================
// HOURS REPORT - Per-physician monthly summary
// =============================================================================

// HoursSummary is one physician's line of the monthly hours report.
type HoursSummary struct {
	PhysicianID PhysicianID
	Name        string
	Total       decimal.Decimal
	ByBand      map[Band]decimal.Decimal
	ByBox       map[Box]decimal.Decimal
	Shifts      int
	LeaveHours  decimal.Decimal
	MinHours    int
	MaxHours    int

	BelowMinimum bool
	AboveMaximum bool
	// FixedHoursReached is only meaningful for fixed-hours physicians:
	// worked plus leave hours cover the monthly minimum.
	FixedHoursReached bool
}

// HoursReport summarizes r for every physician in the registry, in registry
// order. Physicians with no assignment still get a zero line. A zero MaxHours
// means no upper bound.
func HoursReport(r *Roster, catalog *Catalog, physicians []Physician, periods []leave.Period) ([]HoursSummary, error) {
	cal := leave.NewCalendar(periods)
	lines := make(map[PhysicianID]*HoursSummary, len(physicians))
	out := make([]HoursSummary, len(physicians))
	for i, p := range physicians {
		out[i] = HoursSummary{
			PhysicianID: p.ID,
			Name:        p.FullName(),
			Total:       decimal.Zero,
			ByBand:      make(map[Band]decimal.Decimal),
			ByBox:       make(map[Box]decimal.Decimal),
			LeaveHours:  cal.HoursIn(string(p.ID), r.Year, r.Month),
			MinHours:    p.MinHours,
			MaxHours:    p.MaxHours,
		}
		lines[p.ID] = &out[i]
	}

	for _, it := range r.Flatten() {
		line, ok := lines[it.PhysicianID]
		if !ok {
			continue
		}
		st, err := catalog.Describe(it.ShiftCode)
		if err != nil {
			return nil, err
		}
		line.Total = line.Total.Add(st.Duration)
		line.ByBand[it.Band] = line.ByBand[it.Band].Add(st.Duration)
		line.ByBox[it.Box] = line.ByBox[it.Box].Add(st.Duration)
		line.Shifts++
	}

	fixed := make(map[PhysicianID]bool, len(physicians))
	for _, p := range physicians {
		fixed[p.ID] = p.FixedHours
	}
	for i := range out {
		line := &out[i]
		floor := decimal.NewFromInt(int64(line.MinHours))
		line.BelowMinimum = line.Total.LessThan(floor)
		line.AboveMaximum = line.MaxHours > 0 && line.Total.GreaterThan(decimal.NewFromInt(int64(line.MaxHours)))
		if fixed[line.PhysicianID] {
			line.FixedHoursReached = line.Total.Add(line.LeaveHours).GreaterThanOrEqual(floor)
		}
	}
	return out, nil
}

// SortByTotal orders a report by hours worked, highest first.
func SortByTotal(lines []HoursSummary) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Total.GreaterThan(lines[j].Total)
	})
}
