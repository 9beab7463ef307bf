package leave

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Calendar indexes leave periods by physician for fast day lookups.
// A nil *Calendar answers "not on leave" for every query.
type Calendar struct {
	byPhysician map[string][]Period
}

func NewCalendar(periods []Period) *Calendar {
	c := &Calendar{byPhysician: make(map[string][]Period)}
	for _, p := range periods {
		c.byPhysician[p.PhysicianID] = append(c.byPhysician[p.PhysicianID], p)
	}
	for id := range c.byPhysician {
		ps := c.byPhysician[id]
		sort.Slice(ps, func(i, j int) bool { return ps[i].Start.Before(ps[j].Start) })
	}
	return c
}

// OnLeave reports whether the physician has leave covering date.
func (c *Calendar) OnLeave(physicianID string, date time.Time) bool {
	if c == nil {
		return false
	}
	for _, p := range c.byPhysician[physicianID] {
		if p.Covers(date) {
			return true
		}
	}
	return false
}

// HoursIn sums leave hours of the physician in month/year.
func (c *Calendar) HoursIn(physicianID string, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, p := range c.byPhysician[physicianID] {
		total = total.Add(p.HoursIn(year, month))
	}
	return total
}

// Periods returns the physician's periods ordered by start date.
func (c *Calendar) Periods(physicianID string) []Period {
	if c == nil {
		return nil
	}
	return append([]Period(nil), c.byPhysician[physicianID]...)
}
