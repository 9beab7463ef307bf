package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func savePhysician(t *testing.T, s *sqlite.Store, id, env string, boxes ...roster.Box) roster.Physician {
	t.Helper()
	p := roster.Physician{
		ID:            roster.PhysicianID(id),
		Name:          "Nome " + id,
		Surname:       "Cognome",
		EnvironmentID: env,
		Competencies:  map[roster.Box]bool{},
		MinHours:      120,
		MaxHours:      160,
		Priority:      roster.PriorityHigh,
	}
	for _, b := range boxes {
		p.Competencies[b] = true
	}
	saved, err := s.SavePhysician(context.Background(), p)
	require.NoError(t, err)
	return saved
}

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// PHYSICIANS
// =============================================================================

func TestStore_PhysicianRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := savePhysician(t, s, "med-1", "ps", roster.Box1, roster.Box3)
	p.FixedHours = true
	p.Note = "part-time"
	_, err := s.SavePhysician(ctx, p)
	require.NoError(t, err)

	got, err := s.GetPhysician(ctx, "med-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	missing, err := s.GetPhysician(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	generated, err := s.SavePhysician(ctx, roster.Physician{Name: "Senza ID", EnvironmentID: "ps"})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)
}

func TestStore_ListPhysiciansRegistryOrder(t *testing.T) {
	// GIVEN: Physicians inserted as z, a, m; one in another environment
	// WHEN: Listing the environment
	// THEN: Insertion order is kept, updates do not move a physician

	ctx := context.Background()
	s := newTestStore(t)
	savePhysician(t, s, "z", "ps", roster.Box1)
	savePhysician(t, s, "a", "ps", roster.Box1)
	savePhysician(t, s, "x", "medicina", roster.Box1)
	savePhysician(t, s, "m", "ps", roster.Box1)
	savePhysician(t, s, "z", "ps", roster.Box2)

	list, err := s.ListPhysicians(ctx, "ps")
	require.NoError(t, err)
	ids := make([]roster.PhysicianID, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	assert.Equal(t, []roster.PhysicianID{"z", "a", "m"}, ids)
	assert.True(t, list[0].CanWork(roster.Box2))

	envs, err := s.ListEnvironments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"medicina", "ps"}, envs)
}

func TestStore_DeletePhysicianCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	savePhysician(t, s, "med-1", "ps", roster.Box1)

	require.NoError(t, s.SaveAvailability(ctx, roster.AvailabilityRecord{PhysicianID: "med-1", EnvironmentID: "ps", Year: 2025, Month: time.March, Days: map[int]string{1: "M"}}))
	_, err := s.AddLeave(ctx, leave.Period{PhysicianID: "med-1", Start: date(time.March, 2), End: date(time.March, 3)})
	require.NoError(t, err)
	_, err = s.SaveRotation(ctx, roster.FixedRotation{PhysicianID: "med-1", EnvironmentID: "ps", Sequence: []string{"M"}, Active: true})
	require.NoError(t, err)

	require.NoError(t, s.DeletePhysician(ctx, "med-1"))

	rec, err := s.GetAvailability(ctx, "med-1", 2025, time.March)
	assert.NoError(t, err)
	assert.Nil(t, rec)
	periods, err := s.GetLeavePeriods(ctx, "med-1")
	assert.NoError(t, err)
	assert.Empty(t, periods)
	rotations, err := s.ListRotations(ctx, "ps")
	assert.NoError(t, err)
	assert.Empty(t, rotations)
}

// =============================================================================
// AVAILABILITY / LEAVE / ROTATIONS / COVERAGE
// =============================================================================

func TestStore_AvailabilityUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	savePhysician(t, s, "med-1", "ps", roster.Box1)

	rec := roster.AvailabilityRecord{PhysicianID: "med-1", EnvironmentID: "ps", Year: 2025, Month: time.March, Days: map[int]string{1: "MPN", 15: "MN"}}
	require.NoError(t, s.SaveAvailability(ctx, rec))
	rec.Days = map[int]string{2: "P"}
	require.NoError(t, s.SaveAvailability(ctx, rec))

	got, err := s.GetAvailability(ctx, "med-1", 2025, time.March)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, map[int]string{2: "P"}, got.Days)

	other, err := s.GetAvailability(ctx, "med-1", 2025, time.April)
	assert.NoError(t, err)
	assert.Nil(t, other)
}

func TestStore_LeaveOverlapRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	savePhysician(t, s, "med-1", "ps", roster.Box1)

	first, err := s.AddLeave(ctx, leave.Period{PhysicianID: "med-1", Start: date(time.March, 10), End: date(time.March, 14), Kind: leave.KindFerie})
	require.NoError(t, err)

	_, err = s.AddLeave(ctx, leave.Period{PhysicianID: "med-1", Start: date(time.March, 14), End: date(time.March, 14), Kind: leave.KindPermesso104})
	var overlap *leave.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, first.ID, overlap.ExistingID)

	second, err := s.AddLeave(ctx, leave.Period{PhysicianID: "med-1", Start: date(time.March, 1), End: date(time.March, 1), Kind: leave.KindPermesso104, DailyHours: decimal.NewFromFloat(3.5)})
	require.NoError(t, err)

	periods, err := s.GetLeavePeriods(ctx, "med-1")
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, second.ID, periods[0].ID)
	assert.Equal(t, "3.5", periods[0].DailyHours.String())
	assert.Equal(t, date(time.March, 10), periods[1].Start)

	deleted, err := s.DeleteLeave(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = s.DeleteLeave(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_Rotations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	savePhysician(t, s, "med-1", "ps", roster.Box1)

	fr, err := s.SaveRotation(ctx, roster.FixedRotation{
		PhysicianID:   "med-1",
		EnvironmentID: "ps",
		Sequence:      []string{"M", "P", "N", "S", "R"},
		StartDate:     date(time.March, 1),
		Active:        true,
	})
	require.NoError(t, err)

	fr.Active = false
	_, err = s.SaveRotation(ctx, fr)
	require.NoError(t, err)

	list, err := s.ListRotations(ctx, "ps")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fr, list[0])
}

func TestStore_Coverage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cv, err := s.GetCoverageRequirements(ctx, "ps")
	require.NoError(t, err)
	assert.Nil(t, cv, "nothing stored")

	require.NoError(t, s.SetCoverage(ctx, "ps", roster.DefaultCoverage()))
	cv, err = s.GetCoverageRequirements(ctx, "ps")
	require.NoError(t, err)
	assert.Equal(t, roster.DefaultCoverage(), cv)

	err = s.SetCoverage(ctx, "ps", roster.Coverage{{Box: roster.Box3, Band: roster.BandNight, Required: 1}})
	assert.ErrorIs(t, err, roster.ErrInvalidCoverage)

	cv, err = s.GetCoverageRequirements(ctx, "ps")
	require.NoError(t, err)
	assert.Len(t, cv, 9, "rejected update leaves the old requirements")
}

// =============================================================================
// ROSTERS (end to end through the Generator)
// =============================================================================

func TestStore_GeneratorEndToEnd(t *testing.T) {
	// GIVEN: Two physicians with March availability in SQLite
	// WHEN: Generating, overriding and reloading
	// THEN: The stored roster reflects each step, under one ID

	ctx := context.Background()
	s := newTestStore(t)
	for _, p := range []struct {
		id    string
		boxes []roster.Box
	}{{"A", []roster.Box{roster.Box1, roster.Box2}}, {"B", []roster.Box{roster.Box3}}} {
		savePhysician(t, s, p.id, "ps", p.boxes...)
		days := map[int]string{}
		for d := 1; d <= 31; d++ {
			days[d] = "MPN"
		}
		require.NoError(t, s.SaveAvailability(ctx, roster.AvailabilityRecord{PhysicianID: roster.PhysicianID(p.id), EnvironmentID: "ps", Year: 2025, Month: time.March, Days: days}))
	}

	g := roster.NewGenerator(s, nil, roster.GeneratorOptions{SuppressLeave: true})
	gen, err := g.Generate(ctx, roster.GenerateRequest{Month: time.March, Year: 2025, EnvironmentID: "ps"})
	require.NoError(t, err)

	stored, err := s.LoadRoster(ctx, 2025, time.March, "ps")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, gen.Record.ID, stored.ID)
	assert.Equal(t, gen.Record.Assignments, stored.Assignments)
	assert.Equal(t, gen.Record.Cells, stored.Cells)
	assert.Equal(t, 248, stored.Statistics.TotalSlots)
	assert.Equal(t, "rotation", stored.Strategy)
	assert.True(t, gen.Record.GeneratedAt.Equal(stored.GeneratedAt))

	_, err = g.Override(ctx, 2025, time.March, "ps", roster.OverrideRequest{Day: 1, Cell: roster.Cell{Box: roster.Box3, Band: roster.BandMorning}})
	require.NoError(t, err)

	again, err := g.Generate(ctx, roster.GenerateRequest{Month: time.March, Year: 2025, EnvironmentID: "ps", Parameters: roster.Parameters{BalanceLoad: true}})
	require.NoError(t, err)
	assert.Equal(t, gen.Record.ID, again.Record.ID)

	stored, err = s.LoadRoster(ctx, 2025, time.March, "ps")
	require.NoError(t, err)
	assert.True(t, stored.Parameters.BalanceLoad)
	assert.NotNil(t, findAssignment(stored.Assignments, 1, roster.Box3, roster.BandMorning), "regeneration refills the cleared cell")

	none, err := s.LoadRoster(ctx, 2025, time.April, "ps")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	savePhysician(t, s, "med-1", "ps", roster.Box1)
	require.NoError(t, s.SetCoverage(ctx, "ps", roster.DefaultCoverage()))

	require.NoError(t, s.Reset(ctx))

	list, err := s.ListPhysicians(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	cv, err := s.GetCoverageRequirements(ctx, "ps")
	require.NoError(t, err)
	assert.Nil(t, cv)
}

func findAssignment(items []roster.CellAssignment, day int, box roster.Box, band roster.Band) *roster.CellAssignment {
	for i := range items {
		if items[i].Day == day && items[i].Box == box && items[i].Band == band {
			return &items[i]
		}
	}
	return nil
}
