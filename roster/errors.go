/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers test with errors.Is against the sentinels; structured errors
  carry the offending code / cell / physician.

ERROR CATEGORIES:
  1. Input errors - Empty physician list, bad month, unknown codes, bad coverage
  2. Override errors - Manual override rejected by re-validation
  3. Lookup errors - Stored roster missing

NOT AN ERROR:
  An unfilled cell. It is recorded in Statistics.CoverageGap instead.

SEE ALSO:
  - catalog.go: Raises UnknownShiftCodeError
  - override.go: Raises InvalidOverrideError
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoPhysiciansAvailable is returned before generation starts when the
	// environment has no physicians.
	ErrNoPhysiciansAvailable = errors.New("no physicians available")

	// ErrUnknownShiftCode is returned when a code outside the catalog is used.
	ErrUnknownShiftCode = errors.New("unknown shift code")

	// ErrUnassignableShift is returned when a rest placeholder (S, R) is used
	// as the target of an assignment.
	ErrUnassignableShift = errors.New("shift code is not assignable")

	// ErrInvalidOverride is returned when a manual override fails re-validation.
	ErrInvalidOverride = errors.New("invalid override")

	ErrInvalidMonth    = errors.New("invalid month or year")
	ErrInvalidCoverage = errors.New("invalid coverage requirements")
	ErrInvalidRotation = errors.New("invalid fixed rotation")

	// ErrRosterNotFound is returned when no roster is stored for the key.
	ErrRosterNotFound = errors.New("roster not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// UnknownShiftCodeError names the code that was not found.
type UnknownShiftCodeError struct {
	Code string
}

func (e *UnknownShiftCodeError) Error() string {
	return fmt.Sprintf("unknown shift code %q", e.Code)
}

func (e *UnknownShiftCodeError) Unwrap() error { return ErrUnknownShiftCode }

// InvalidOverrideError explains why an override was refused.
type InvalidOverrideError struct {
	Day         int
	Cell        Cell
	PhysicianID PhysicianID
	Reason      string
}

func (e *InvalidOverrideError) Error() string {
	if e.PhysicianID == "" {
		return fmt.Sprintf("invalid override of %s on day %d: %s", e.Cell, e.Day, e.Reason)
	}
	return fmt.Sprintf("invalid override of %s on day %d with %s: %s", e.Cell, e.Day, e.PhysicianID, e.Reason)
}

func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }

// RotationError reports the position of the first invalid entry in a
// fixed-rotation sequence.
type RotationError struct {
	PhysicianID PhysicianID
	Index       int
	Reason      string
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("rotation for %s: position %d: %s", e.PhysicianID, e.Index, e.Reason)
}

func (e *RotationError) Unwrap() error { return ErrInvalidRotation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoPhysiciansAvailable) ||
		errors.Is(err, ErrUnknownShiftCode) ||
		errors.Is(err, ErrUnassignableShift) ||
		errors.Is(err, ErrInvalidOverride) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidCoverage) ||
		errors.Is(err, ErrInvalidRotation)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRosterNotFound)
}
