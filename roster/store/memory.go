// Package store provides in-memory implementations of the roster
// collaborator interfaces.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements roster.Store. Physicians are listed in insertion order.
type Memory struct {
	mu           sync.RWMutex
	physicians   []roster.Physician
	availability map[availabilityKey]roster.AvailabilityRecord
	leave        []leave.Period
	rotations    []roster.FixedRotation
	coverage     map[string]roster.Coverage
	rosters      map[rosterKey]roster.RosterRecord
}

type availabilityKey struct {
	PhysicianID roster.PhysicianID
	Year        int
	Month       time.Month
}

type rosterKey struct {
	Year          int
	Month         time.Month
	EnvironmentID string
}

var _ roster.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		availability: make(map[availabilityKey]roster.AvailabilityRecord),
		coverage:     make(map[string]roster.Coverage),
		rosters:      make(map[rosterKey]roster.RosterRecord),
	}
}

// SavePhysician inserts or replaces a physician, keeping its position.
func (m *Memory) SavePhysician(p roster.Physician) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.physicians {
		if m.physicians[i].ID == p.ID {
			m.physicians[i] = p
			return
		}
	}
	m.physicians = append(m.physicians, p)
}

func (m *Memory) ListPhysicians(_ context.Context, environmentID string) ([]roster.Physician, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []roster.Physician
	for _, p := range m.physicians {
		if environmentID == "" || p.EnvironmentID == environmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

// SetAvailability replaces a physician's declaration for a month.
func (m *Memory) SetAvailability(rec roster.AvailabilityRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availability[availabilityKey{rec.PhysicianID, rec.Year, rec.Month}] = rec
}

func (m *Memory) GetAvailability(_ context.Context, id roster.PhysicianID, year int, month time.Month) (*roster.AvailabilityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.availability[availabilityKey{id, year, month}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// AddLeave validates and stores a period, rejecting overlaps.
func (m *Memory) AddLeave(p leave.Period) (leave.Period, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return p, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := leave.CheckOverlap(m.leave, p); err != nil {
		return p, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.leave = append(m.leave, p)
	return p, nil
}

func (m *Memory) GetLeavePeriods(_ context.Context, id roster.PhysicianID) ([]leave.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []leave.Period
	for _, p := range m.leave {
		if p.PhysicianID == string(id) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// SaveRotation inserts or replaces a rotation by ID.
func (m *Memory) SaveRotation(fr roster.FixedRotation) roster.FixedRotation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fr.ID == "" {
		fr.ID = uuid.NewString()
	}
	for i := range m.rotations {
		if m.rotations[i].ID == fr.ID {
			m.rotations[i] = fr
			return fr
		}
	}
	m.rotations = append(m.rotations, fr)
	return fr
}

func (m *Memory) ListRotations(_ context.Context, environmentID string) ([]roster.FixedRotation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []roster.FixedRotation
	for _, fr := range m.rotations {
		if environmentID == "" || fr.EnvironmentID == environmentID {
			out = append(out, fr)
		}
	}
	return out, nil
}

func (m *Memory) SetCoverage(environmentID string, cv roster.Coverage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coverage[environmentID] = append(roster.Coverage(nil), cv...)
}

func (m *Memory) GetCoverageRequirements(_ context.Context, environmentID string) (roster.Coverage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cv, ok := m.coverage[environmentID]
	if !ok {
		return nil, nil
	}
	return append(roster.Coverage(nil), cv...), nil
}

func (m *Memory) SaveRoster(_ context.Context, rec roster.RosterRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("roster record without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[rosterKey{rec.Year, rec.Month, rec.EnvironmentID}] = rec
	return nil
}

func (m *Memory) LoadRoster(_ context.Context, year int, month time.Month, environmentID string) (*roster.RosterRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.rosters[rosterKey{year, month, environmentID}]
	if !ok {
		return nil, nil
	}
	rec.Assignments = append([]roster.CellAssignment(nil), rec.Assignments...)
	return &rec, nil
}
