package roster

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// FIXED ROTATIONS (turni fissi)
// =============================================================================

// FixedRotation is a cyclic sequence of codes a physician works from
// StartDate on. A zero StartDate anchors the cycle at day 1 of whatever month
// is being generated.
type FixedRotation struct {
	ID            string
	PhysicianID   PhysicianID
	EnvironmentID string
	Sequence      []string
	StartDate     time.Time
	Active        bool
}

// Validate checks the codes against the catalog and that every code
// containing a night is followed, cyclically, by S.
func (fr FixedRotation) Validate(catalog *Catalog) error {
	if len(fr.Sequence) == 0 {
		return &RotationError{PhysicianID: fr.PhysicianID, Index: 0, Reason: "empty sequence"}
	}
	for i, code := range fr.Sequence {
		if err := catalog.ValidateCode(code); err != nil {
			return &RotationError{PhysicianID: fr.PhysicianID, Index: i, Reason: err.Error()}
		}
	}
	for i, code := range fr.Sequence {
		if !strings.ContainsRune(code, 'N') {
			continue
		}
		next := fr.Sequence[(i+1)%len(fr.Sequence)]
		if next != CodeRestAfterNight {
			return &RotationError{
				PhysicianID: fr.PhysicianID,
				Index:       i,
				Reason:      fmt.Sprintf("night code %q must be followed by %s, got %q", code, CodeRestAfterNight, next),
			}
		}
	}
	return nil
}

// CodeOn returns the rotation code for date, or false when the rotation is
// inactive or has not started.
func (fr FixedRotation) CodeOn(date time.Time) (string, bool) {
	if !fr.Active || len(fr.Sequence) == 0 {
		return "", false
	}
	start := fr.StartDate
	if start.IsZero() {
		start = StartOfMonth(date.Year(), date.Month())
	}
	n := DaysBetween(start, date)
	if n < 0 {
		return "", false
	}
	return fr.Sequence[n%len(fr.Sequence)], true
}
