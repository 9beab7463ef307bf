package roster

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignor_EmptyCandidatesIsNotAnError(t *testing.T) {
	r := NewRoster(2025, time.March, "", DefaultCoverage().Cells())
	a, err := NewAssignor(DefaultCatalog(), nil).Assign(r, 1, Cell{Box1, BandMorning}, "M", nil)
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Equal(t, 0, r.Filled())
}

func TestAssignor_PlaceholderRejected(t *testing.T) {
	r := NewRoster(2025, time.March, "", DefaultCoverage().Cells())
	for _, code := range []string{"S", "R"} {
		_, err := NewAssignor(DefaultCatalog(), nil).Assign(r, 1, Cell{Box1, BandMorning}, code, []PhysicianID{"A"})
		assert.ErrorIs(t, err, ErrUnassignableShift, code)
	}
	_, err := NewAssignor(DefaultCatalog(), nil).Assign(r, 1, Cell{Box1, BandMorning}, "Z", []PhysicianID{"A"})
	assert.ErrorIs(t, err, ErrUnknownShiftCode)
}

func TestAssignor_RecordsHours(t *testing.T) {
	r := NewRoster(2025, time.March, "", DefaultCoverage().Cells())
	a, err := NewAssignor(DefaultCatalog(), nil).Assign(r, 2, Cell{Box1, BandNight}, "N", []PhysicianID{"A", "B", "C"})
	require.NoError(t, err)

	// (2 + 2) mod 3 = 1
	assert.Equal(t, PhysicianID("B"), a.PhysicianID)
	assert.Same(t, a, r.Get(2, Cell{Box1, BandNight}))
	assert.True(t, decimal.NewFromInt(12).Equal(r.Ledger.Hours("B")))
	assert.Equal(t, 1, r.Ledger.Shifts("B"))
}

func TestRotatingStrategy_Offsets(t *testing.T) {
	s := NewRotatingStrategy()
	cands := []PhysicianID{"p0", "p1", "p2", "p3", "p4"}

	assert.Equal(t, PhysicianID("p3"), s.Pick(3, Cell{Box1, BandMorning}, cands, nil))
	assert.Equal(t, PhysicianID("p1"), s.Pick(3, Cell{Box2, BandMorning}, cands, nil))
	assert.Equal(t, PhysicianID("p1"), s.Pick(3, Cell{Box3, BandAfternoon}, cands, nil))
}

func TestLeastHoursStrategy(t *testing.T) {
	l := NewHoursLedger()
	l.Add("A", decimal.NewFromInt(12))
	l.Add("B", decimal.NewFromInt(6))

	pick := LeastHoursStrategy{}.Pick(1, Cell{Box1, BandMorning}, []PhysicianID{"A", "B", "C"}, l)
	assert.Equal(t, PhysicianID("C"), pick)

	pick = LeastHoursStrategy{}.Pick(1, Cell{Box1, BandMorning}, []PhysicianID{"A", "B"}, l)
	assert.Equal(t, PhysicianID("B"), pick)
}

func TestHoursLedger(t *testing.T) {
	l := NewHoursLedger()
	l.Add("B", decimal.NewFromInt(6))
	l.Add("A", decimal.NewFromInt(12))
	l.Add("A", decimal.NewFromFloat(6.5))

	assert.True(t, decimal.NewFromFloat(18.5).Equal(l.Hours("A")))
	assert.Equal(t, 2, l.Shifts("A"))
	assert.True(t, l.Hours("nobody").IsZero())

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, PhysicianID("A"), entries[0].PhysicianID)

	l.Remove("B", decimal.NewFromInt(6))
	assert.Len(t, l.Entries(), 1)
	assert.Equal(t, 0, l.Shifts("B"))
}

func TestCoverage(t *testing.T) {
	cv := DefaultCoverage()
	require.NoError(t, cv.Validate())
	assert.Len(t, cv.Cells(), 8)
	assert.Equal(t, 0, cv.Required(Cell{Box3, BandNight}))
	assert.Equal(t, 2, cv.Required(Cell{Box1, BandNight}))

	dup := Coverage{{Box: Box1, Band: BandMorning, Required: 1}, {Box: Box1, Band: BandMorning, Required: 2}}
	assert.ErrorIs(t, dup.Validate(), ErrInvalidCoverage)
	assert.ErrorIs(t, Coverage{{Box: 4, Band: BandMorning, Required: 1}}.Validate(), ErrInvalidCoverage)
	assert.ErrorIs(t, Coverage{{Box: Box1, Band: "sera", Required: 1}}.Validate(), ErrInvalidCoverage)
	assert.ErrorIs(t, Coverage{{Box: Box1, Band: BandMorning, Required: -1}}.Validate(), ErrInvalidCoverage)
	assert.NoError(t, Coverage{{Box: Box3, Band: BandNight, Required: 0}}.Validate())
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"alta": PriorityHigh, "MEDIA": PriorityMedium, "": PriorityMedium, "Bassa": PriorityLow} {
		got, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePriority("urgente")
	assert.Error(t, err)
}
