package roster

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pid(s string) *PhysicianID {
	id := PhysicianID(s)
	return &id
}

func overrideFixture(t *testing.T) (*Overrider, *Roster) {
	t.Helper()
	snap := twoPhysicianSnapshot()
	b := NewBuilder(nil)
	res, err := b.Build(snap)
	require.NoError(t, err)
	return NewOverrider(b, snap), res.Roster
}

func TestOverride_RefusedWithoutCompetency(t *testing.T) {
	// GIVEN: A generated roster where A holds box1 morning on day 1
	// WHEN: Overriding that cell with B, who lacks box 1
	// THEN: ErrInvalidOverride, and the previous assignment is untouched

	o, r := overrideFixture(t)
	before := *r.Get(1, Cell{Box1, BandMorning})
	hoursA := r.Ledger.Hours("A")

	_, err := o.Override(r, OverrideRequest{Day: 1, Cell: Cell{Box1, BandMorning}, PhysicianID: pid("B")})
	require.ErrorIs(t, err, ErrInvalidOverride)

	var invalid *InvalidOverrideError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, PhysicianID("B"), invalid.PhysicianID)
	assert.Contains(t, invalid.Reason, "competency")

	assert.Equal(t, before, *r.Get(1, Cell{Box1, BandMorning}))
	assert.True(t, hoursA.Equal(r.Ledger.Hours("A")))
}

func TestOverride_RefusedAfterNight(t *testing.T) {
	o, r := overrideFixture(t)

	_, err := o.Override(r, OverrideRequest{Day: 2, Cell: Cell{Box1, BandMorning}, PhysicianID: pid("A")})
	assert.ErrorIs(t, err, ErrInvalidOverride)
	assert.Nil(t, r.Get(2, Cell{Box1, BandMorning}))
}

func TestOverride_ClearThenReassign(t *testing.T) {
	// GIVEN: A works the night of day 1 and rests on day 2
	// WHEN: Clearing the night, then giving A the morning of day 2
	// THEN: Both succeed and the ledger follows

	o, r := overrideFixture(t)
	start := r.Ledger.Hours("A")

	a, err := o.Override(r, OverrideRequest{Day: 1, Cell: Cell{Box1, BandNight}})
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Nil(t, r.Get(1, Cell{Box1, BandNight}))
	assert.True(t, start.Sub(decimal.NewFromInt(12)).Equal(r.Ledger.Hours("A")))

	a, err = o.Override(r, OverrideRequest{Day: 2, Cell: Cell{Box1, BandMorning}, PhysicianID: pid("A")})
	require.NoError(t, err)
	assert.Equal(t, "M", a.ShiftCode)
	assert.Equal(t, PhysicianID("A"), r.Get(2, Cell{Box1, BandMorning}).PhysicianID)
	assert.True(t, start.Sub(decimal.NewFromInt(6)).Equal(r.Ledger.Hours("A")))
}

func TestOverride_NightRefusedWhenNextDayBusy(t *testing.T) {
	o, r := overrideFixture(t)
	_, err := o.Override(r, OverrideRequest{Day: 1, Cell: Cell{Box1, BandNight}})
	require.NoError(t, err)

	// A works day 3, so a night on day 2 would leave no rest day.
	_, err = o.Override(r, OverrideRequest{Day: 2, Cell: Cell{Box1, BandNight}, PhysicianID: pid("A")})
	var invalid *InvalidOverrideError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "day 3")
}

func TestOverride_InvalidTargets(t *testing.T) {
	o, r := overrideFixture(t)
	filled := r.Filled()

	tests := []struct {
		name string
		req  OverrideRequest
	}{
		{"day zero", OverrideRequest{Day: 0, Cell: Cell{Box1, BandMorning}}},
		{"day past month", OverrideRequest{Day: 32, Cell: Cell{Box1, BandMorning}}},
		{"box3 night not in layout", OverrideRequest{Day: 1, Cell: Cell{Box3, BandNight}, PhysicianID: pid("B")}},
		{"unknown physician", OverrideRequest{Day: 2, Cell: Cell{Box1, BandMorning}, PhysicianID: pid("Z")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Override(r, tt.req)
			assert.ErrorIs(t, err, ErrInvalidOverride)
			assert.True(t, IsClientError(err))
		})
	}
	assert.Equal(t, filled, r.Filled())
}
