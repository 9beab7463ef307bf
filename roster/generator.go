/*
generator.go - Loading snapshots, running the builder, persisting results

PURPOSE:
  Generator is the service layer around the pure engine. It is the only
  part of this package that does I/O (through the collaborator interfaces
  in store.go) and the only part that logs.

OPERATIONS:
  Generate  load snapshot -> Builder.Build -> SaveRoster
  Load      LoadRoster -> Restore (ledger recomputed)
  Override  Load -> Overrider.Override -> recompute statistics -> SaveRoster
  Hours     Load -> HoursReport

CONCURRENCY:
  Runs for different (month, year, environment) keys proceed in parallel.
  Runs for the same key are serialized with a per-key mutex so the sink
  sees at most one writer per key. The Builder itself holds no shared
  state.

SEE ALSO:
  - builder.go: The generation loop
  - override.go: Manual override re-validation
*/
package roster

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/roster-engine/leave"
)

// GeneratorOptions are deployment-level settings.
type GeneratorOptions struct {
	// SuppressLeave removes physicians on leave from availability for every
	// run, regardless of Parameters.PrioritizeLeave.
	SuppressLeave bool

	// Coverage replaces DefaultCoverage for environments with no stored
	// requirements.
	Coverage Coverage
}

// GenerateRequest is one generation call.
type GenerateRequest struct {
	Month         time.Month
	Year          int
	EnvironmentID string
	Parameters    Parameters
}

// Generated pairs the stored record with the in-memory roster it describes.
type Generated struct {
	Record RosterRecord
	Roster *Roster
}

type Generator struct {
	store   Store
	builder *Builder
	opts    GeneratorOptions
	locks   keyedMutex

	// Now is overridable for tests.
	Now func() time.Time
}

func NewGenerator(store Store, builder *Builder, opts GeneratorOptions) *Generator {
	if builder == nil {
		builder = NewBuilder(nil)
	}
	return &Generator{
		store:   store,
		builder: builder,
		opts:    opts,
		locks:   keyedMutex{locks: make(map[string]*keyLock)},
		Now:     time.Now,
	}
}

// Catalog returns the shift catalog in use.
func (g *Generator) Catalog() *Catalog { return g.builder.Catalog }

// Snapshot loads everything a run for (year, month, environment) reads.
func (g *Generator) Snapshot(ctx context.Context, year int, month time.Month, environmentID string, params Parameters) (Snapshot, error) {
	snap := Snapshot{
		Month:         month,
		Year:          year,
		EnvironmentID: environmentID,
		Availability:  make(map[PhysicianID]AvailabilityRecord),
		Parameters:    params,
		SuppressLeave: g.opts.SuppressLeave,
	}

	physicians, err := g.store.ListPhysicians(ctx, environmentID)
	if err != nil {
		return snap, fmt.Errorf("list physicians: %w", err)
	}
	snap.Physicians = physicians

	for _, p := range physicians {
		rec, err := g.store.GetAvailability(ctx, p.ID, year, month)
		if err != nil {
			return snap, fmt.Errorf("availability for %s: %w", p.ID, err)
		}
		if rec != nil {
			snap.Availability[p.ID] = *rec
		}

		periods, err := g.store.GetLeavePeriods(ctx, p.ID)
		if err != nil {
			return snap, fmt.Errorf("leave for %s: %w", p.ID, err)
		}
		snap.Leave = append(snap.Leave, periods...)
	}

	rotations, err := g.store.ListRotations(ctx, environmentID)
	if err != nil {
		return snap, fmt.Errorf("list rotations: %w", err)
	}
	snap.Rotations = rotations

	coverage, err := g.Coverage(ctx, environmentID)
	if err != nil {
		return snap, err
	}
	snap.Coverage = coverage
	return snap, nil
}

// Coverage returns the stored requirements of an environment, falling back
// to the configured coverage and then to DefaultCoverage.
func (g *Generator) Coverage(ctx context.Context, environmentID string) (Coverage, error) {
	coverage, err := g.store.GetCoverageRequirements(ctx, environmentID)
	if err != nil {
		return nil, fmt.Errorf("coverage: %w", err)
	}
	if coverage == nil {
		coverage = g.opts.Coverage
	}
	if coverage == nil {
		coverage = DefaultCoverage()
	}
	return coverage, nil
}

// Generate builds and stores the roster for req. An existing roster for the
// same key is replaced, keeping its ID.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Generated, error) {
	if !ValidMonth(req.Year, req.Month) {
		return nil, fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, req.Year, req.Month)
	}
	unlock := g.locks.Lock(rosterKey(req.Year, req.Month, req.EnvironmentID))
	defer unlock()

	snap, err := g.Snapshot(ctx, req.Year, req.Month, req.EnvironmentID, req.Parameters)
	if err != nil {
		return nil, err
	}
	result, err := g.builder.Build(snap)
	if err != nil {
		return nil, err
	}

	now := g.Now()
	rec := RosterRecord{
		ID:            uuid.NewString(),
		Month:         req.Month,
		Year:          req.Year,
		EnvironmentID: req.EnvironmentID,
		Cells:         result.Roster.Cells,
		Assignments:   result.Roster.Flatten(),
		Statistics:    result.Statistics,
		Parameters:    result.Parameters,
		Strategy:      result.Strategy,
		GeneratedAt:   now,
		UpdatedAt:     now,
	}
	existing, err := g.store.LoadRoster(ctx, req.Year, req.Month, req.EnvironmentID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if existing != nil {
		rec.ID = existing.ID
	}
	if err := g.store.SaveRoster(ctx, rec); err != nil {
		return nil, fmt.Errorf("save roster: %w", err)
	}

	log.Printf("[Generator] %s: %d/%d slots filled, gap %d (%s)",
		rosterKey(req.Year, req.Month, req.EnvironmentID),
		result.Statistics.FilledSlots, result.Statistics.TotalSlots,
		result.Statistics.CoverageGap, result.Strategy)

	return &Generated{Record: rec, Roster: result.Roster}, nil
}

// Load returns the stored roster or ErrRosterNotFound.
func (g *Generator) Load(ctx context.Context, year int, month time.Month, environmentID string) (*Generated, error) {
	rec, err := g.store.LoadRoster(ctx, year, month, environmentID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrRosterNotFound, rosterKey(year, month, environmentID))
	}
	r, err := Restore(rec.Year, rec.Month, rec.EnvironmentID, rec.Cells, rec.Assignments, g.builder.Catalog)
	if err != nil {
		return nil, err
	}
	return &Generated{Record: *rec, Roster: r}, nil
}

// Override applies a manual override to the stored roster and saves it.
// The stored roster is untouched when re-validation fails.
func (g *Generator) Override(ctx context.Context, year int, month time.Month, environmentID string, req OverrideRequest) (*Generated, error) {
	unlock := g.locks.Lock(rosterKey(year, month, environmentID))
	defer unlock()

	current, err := g.Load(ctx, year, month, environmentID)
	if err != nil {
		return nil, err
	}
	snap, err := g.Snapshot(ctx, year, month, environmentID, current.Record.Parameters)
	if err != nil {
		return nil, err
	}

	if _, err := NewOverrider(g.builder, snap).Override(current.Roster, req); err != nil {
		return nil, err
	}

	rec := current.Record
	rec.Assignments = current.Roster.Flatten()
	rec.Statistics = ComputeStatistics(current.Roster, len(snap.Physicians), snap.Coverage)
	rec.UpdatedAt = g.Now()
	if err := g.store.SaveRoster(ctx, rec); err != nil {
		return nil, fmt.Errorf("save roster: %w", err)
	}

	who := "nobody"
	if req.PhysicianID != nil {
		who = string(*req.PhysicianID)
	}
	log.Printf("[Generator] %s: day %d %s overridden with %s",
		rosterKey(year, month, environmentID), req.Day, req.Cell, who)

	return &Generated{Record: rec, Roster: current.Roster}, nil
}

// Hours reports per-physician hours for the stored roster.
func (g *Generator) Hours(ctx context.Context, year int, month time.Month, environmentID string) ([]HoursSummary, error) {
	current, err := g.Load(ctx, year, month, environmentID)
	if err != nil {
		return nil, err
	}
	physicians, err := g.store.ListPhysicians(ctx, environmentID)
	if err != nil {
		return nil, fmt.Errorf("list physicians: %w", err)
	}
	var periods []leave.Period
	for _, p := range physicians {
		ps, err := g.store.GetLeavePeriods(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("leave for %s: %w", p.ID, err)
		}
		periods = append(periods, ps...)
	}
	return HoursReport(current.Roster, g.builder.Catalog, physicians, periods)
}

func rosterKey(year int, month time.Month, environmentID string) string {
	return fmt.Sprintf("%s/%04d-%02d", environmentID, year, int(month))
}

// =============================================================================
// KEYED MUTEX
// =============================================================================

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// Lock acquires the mutex for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
