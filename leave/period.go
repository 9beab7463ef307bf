/*
Package leave models physician leave and permits (ferie, permesso 104, altro).

PURPOSE:
  A leave period removes a physician from the roster for a span of days and
  counts towards their monthly hours at a fixed number of hours per day.

INVARIANT:
  No overlapping leave for the same physician. You cannot be on leave twice
  on the same day, whatever the kind. Stores reject the second period with
  OverlapError.

KINDS:
  ferie        Annual leave
  permesso104  Law 104 permit (care leave)
  altro        Any other permit

HOURS:
  Each leave day counts DailyHours (default 6) towards the month's worked
  hours in the fixed-hours report, whether or not it falls on a weekend.

SEE ALSO:
  - calendar.go: Per-physician lookup used during generation
  - roster/report.go: Leave hours in the hours report
*/
package leave

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a period is malformed.
	ErrInvalidPeriod = errors.New("invalid leave period")

	// ErrOverlap is returned when a period overlaps an existing one.
	ErrOverlap = errors.New("overlapping leave period")
)

// OverlapError names the existing period that conflicts.
type OverlapError struct {
	PhysicianID string
	ExistingID  string
	From        time.Time
	To          time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("leave for %s overlaps %s (%s - %s)",
		e.PhysicianID, e.ExistingID, e.From.Format("2006-01-02"), e.To.Format("2006-01-02"))
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }

// =============================================================================
// PERIOD
// =============================================================================

type Kind string

const (
	KindFerie       Kind = "ferie"
	KindPermesso104 Kind = "permesso104"
	KindAltro       Kind = "altro"
)

func (k Kind) Valid() bool {
	return k == KindFerie || k == KindPermesso104 || k == KindAltro
}

// DefaultDailyHours is used when a period does not specify its own.
var DefaultDailyHours = decimal.NewFromInt(6)

// Period is an inclusive span of leave days.
type Period struct {
	ID            string
	PhysicianID   string
	EnvironmentID string
	Start         time.Time
	End           time.Time
	Kind          Kind
	DailyHours    decimal.Decimal
	Note          string
}

// Normalize truncates Start/End to UTC dates and applies defaults.
func (p Period) Normalize() Period {
	p.Start = dateOnly(p.Start)
	p.End = dateOnly(p.End)
	if p.Kind == "" {
		p.Kind = KindFerie
	}
	if p.DailyHours.IsZero() {
		p.DailyHours = DefaultDailyHours
	}
	return p
}

// Validate checks a normalized period.
func (p Period) Validate() error {
	switch {
	case p.PhysicianID == "":
		return fmt.Errorf("%w: physician is required", ErrInvalidPeriod)
	case p.Start.IsZero() || p.End.IsZero():
		return fmt.Errorf("%w: start and end are required", ErrInvalidPeriod)
	case p.End.Before(p.Start):
		return fmt.Errorf("%w: end before start", ErrInvalidPeriod)
	case !p.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPeriod, p.Kind)
	case !p.DailyHours.IsPositive():
		return fmt.Errorf("%w: daily hours must be positive", ErrInvalidPeriod)
	}
	return nil
}

// Covers reports whether date falls inside [Start, End].
func (p Period) Covers(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(p.Start)) && !d.After(dateOnly(p.End))
}

// Overlaps reports whether two periods share at least one day.
func (p Period) Overlaps(o Period) bool {
	return !dateOnly(p.End).Before(dateOnly(o.Start)) && !dateOnly(o.End).Before(dateOnly(p.Start))
}

// DaysIn counts the leave days falling in month/year.
func (p Period) DaysIn(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	from, to := dateOnly(p.Start), dateOnly(p.End)
	if from.Before(first) {
		from = first
	}
	if to.After(last) {
		to = last
	}
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// HoursIn returns DaysIn * DailyHours.
func (p Period) HoursIn(year int, month time.Month) decimal.Decimal {
	return p.DailyHours.Mul(decimal.NewFromInt(int64(p.DaysIn(year, month))))
}

// CheckOverlap returns OverlapError if candidate overlaps any existing
// period of the same physician. A period never conflicts with itself (same ID).
func CheckOverlap(existing []Period, candidate Period) error {
	for _, e := range existing {
		if e.PhysicianID != candidate.PhysicianID {
			continue
		}
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if e.Overlaps(candidate) {
			return &OverlapError{
				PhysicianID: candidate.PhysicianID,
				ExistingID:  e.ID,
				From:        e.Start,
				To:          e.End,
			}
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
