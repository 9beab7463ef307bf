/*
availability.go - Declared availability and its decoding

PURPOSE:
  Answers "can physician p work band b on day d?" from what the physician
  declared for the month, optionally narrowed by leave and fixed rotations.

RESOLUTION ORDER (per physician/day):
  1. Leave covering the day (when suppression is on)  -> unavailable
  2. Active fixed rotation for the day                -> rotation code
  3. Monthly AvailabilityRecord                       -> declared code
  4. No record / no code for the day                  -> unavailable

DECODING:
  The code's band set (BandsOf) must contain the requested band:
    M, MP, MN, MPN   -> morning
    P, MP, PN, MPN   -> afternoon
    N, MN, PN, MPN   -> night
  S and R decode to the empty set.

PURITY:
  IsAvailable has no side effects and can be called any number of times.
*/
package roster

import (
	"fmt"
	"time"

	"github.com/warp/roster-engine/leave"
)

// AvailabilityRecord is what a physician declared for one month:
// day-of-month -> shift code (possibly combined).
type AvailabilityRecord struct {
	PhysicianID   PhysicianID
	EnvironmentID string
	Month         time.Month
	Year          int
	Days          map[int]string
}

// Validate checks day numbers against month/year and codes against the
// catalog.
func (a AvailabilityRecord) Validate(catalog *Catalog, year int, month time.Month) error {
	n := DaysInMonth(year, month)
	for day, code := range a.Days {
		if day < 1 || day > n {
			return fmt.Errorf("%w: availability for %s has day %d outside %d-%02d",
				ErrInvalidMonth, a.PhysicianID, day, year, month)
		}
		if code == "" {
			continue
		}
		if err := catalog.ValidateCode(code); err != nil {
			return fmt.Errorf("availability for %s day %d: %w", a.PhysicianID, day, err)
		}
	}
	return nil
}

// AvailabilityResolver decodes availability for one month.
type AvailabilityResolver struct {
	year      int
	month     time.Month
	records   map[PhysicianID]AvailabilityRecord
	rotations map[PhysicianID][]FixedRotation
	leave     *leave.Calendar
}

// NewAvailabilityResolver builds a resolver. Pass a nil calendar to ignore
// leave during resolution.
func NewAvailabilityResolver(year int, month time.Month, records map[PhysicianID]AvailabilityRecord, rotations []FixedRotation, cal *leave.Calendar) *AvailabilityResolver {
	r := &AvailabilityResolver{
		year:      year,
		month:     month,
		records:   records,
		rotations: make(map[PhysicianID][]FixedRotation),
		leave:     cal,
	}
	for _, fr := range rotations {
		if fr.Active {
			r.rotations[fr.PhysicianID] = append(r.rotations[fr.PhysicianID], fr)
		}
	}
	return r
}

// CodeFor returns the effective code for physician/day and whether one exists.
func (r *AvailabilityResolver) CodeFor(id PhysicianID, day int) (string, bool) {
	date := DateOf(r.year, r.month, day)
	if r.leave.OnLeave(string(id), date) {
		return "", false
	}
	for _, fr := range r.rotations[id] {
		if code, ok := fr.CodeOn(date); ok {
			return code, true
		}
	}
	rec, ok := r.records[id]
	if !ok {
		return "", false
	}
	code, ok := rec.Days[day]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// IsAvailable reports whether the physician declared band on day.
func (r *AvailabilityResolver) IsAvailable(id PhysicianID, day int, band Band) bool {
	code, ok := r.CodeFor(id, day)
	if !ok {
		return false
	}
	set, err := BandsOf(code)
	if err != nil {
		return false
	}
	return set.Has(band)
}
