/*
store.go - Collaborator interfaces of the roster engine

PURPOSE:
  The engine never reads a database. The Generator loads a Snapshot through
  these interfaces, runs the pure Builder, and hands the result to a
  RosterSink. Each interface is narrow so callers can satisfy only what
  they need.

MISSING DATA:
  Lookups that can miss return a nil value and a nil error (no availability
  record, no coverage configured, no stored roster). Only I/O failures are
  errors.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - roster/store/memory.go: In-memory for testing

SEE ALSO:
  - generator.go: The only consumer
*/
package roster

import (
	"context"
	"time"

	"github.com/warp/roster-engine/leave"
)

// PhysicianRegistry lists the physicians of an environment in a stable
// order. The order feeds the deterministic rotation.
type PhysicianRegistry interface {
	ListPhysicians(ctx context.Context, environmentID string) ([]Physician, error)
}

// AvailabilityStore returns a physician's declaration for a month, or nil.
type AvailabilityStore interface {
	GetAvailability(ctx context.Context, id PhysicianID, year int, month time.Month) (*AvailabilityRecord, error)
}

// LeaveStore returns every leave period of a physician.
type LeaveStore interface {
	GetLeavePeriods(ctx context.Context, id PhysicianID) ([]leave.Period, error)
}

// RotationStore returns the fixed rotations of an environment.
type RotationStore interface {
	ListRotations(ctx context.Context, environmentID string) ([]FixedRotation, error)
}

// CoverageConfig returns the requirements for an environment, or nil to use
// DefaultCoverage.
type CoverageConfig interface {
	GetCoverageRequirements(ctx context.Context, environmentID string) (Coverage, error)
}

// RosterSink persists generated rosters. SaveRoster upserts on
// (month, year, environment); LoadRoster returns nil when absent.
type RosterSink interface {
	SaveRoster(ctx context.Context, rec RosterRecord) error
	LoadRoster(ctx context.Context, year int, month time.Month, environmentID string) (*RosterRecord, error)
}

// Store bundles every collaborator.
type Store interface {
	PhysicianRegistry
	AvailabilityStore
	LeaveStore
	RotationStore
	CoverageConfig
	RosterSink
}

// RosterRecord is the persisted form of a generated roster.
type RosterRecord struct {
	ID            string           `json:"id"`
	Month         time.Month       `json:"month"`
	Year          int              `json:"year"`
	EnvironmentID string           `json:"environment_id"`
	Cells         []Cell           `json:"cells"`
	Assignments   []CellAssignment `json:"assignments"`
	Statistics    Statistics       `json:"statistics"`
	Parameters    Parameters       `json:"parameters"`
	Strategy      string           `json:"strategy"`
	GeneratedAt   time.Time        `json:"generated_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
