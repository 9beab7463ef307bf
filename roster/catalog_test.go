package roster

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_DescribeSingleCodes(t *testing.T) {
	c := DefaultCatalog()

	m, err := c.Describe("M")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, m.Start)
	assert.Equal(t, 14*time.Hour, m.End)
	assert.True(t, decimal.NewFromInt(6).Equal(m.Duration))
	assert.True(t, m.Assignable())

	n, err := c.Describe("N")
	require.NoError(t, err)
	assert.True(t, n.IsNight)
	assert.True(t, n.RequiresRestAfter)
	assert.Equal(t, 32*time.Hour, n.EndOffset(), "night wraps past midnight")
}

func TestCatalog_PlaceholdersAreNotAssignable(t *testing.T) {
	c := DefaultCatalog()
	for _, code := range []string{"S", "R"} {
		st, err := c.Describe(code)
		require.NoError(t, err)
		assert.True(t, st.Duration.IsZero(), code)
		assert.False(t, st.Assignable(), code)
	}
}

func TestCatalog_CombinedCodes(t *testing.T) {
	// GIVEN: The default catalog
	// WHEN: Describing combined codes
	// THEN: Window spans first to last band, durations add up, flags OR-ed

	c := DefaultCatalog()

	mn, err := c.Describe("MN")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, mn.Start)
	assert.Equal(t, 8*time.Hour, mn.End)
	assert.True(t, decimal.NewFromInt(18).Equal(mn.Duration))
	assert.True(t, mn.IsNight)

	mp, err := c.Describe("MP")
	require.NoError(t, err)
	assert.False(t, mp.IsNight)
	assert.Equal(t, 20*time.Hour, mp.End)

	mpn, err := c.Describe("MPN")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(24).Equal(mpn.Duration))
}

func TestCatalog_UnknownCodes(t *testing.T) {
	c := DefaultCatalog()
	for _, code := range []string{"", "X", "NM", "MM", "m", "SR"} {
		_, err := c.Describe(code)
		var unknown *UnknownShiftCodeError
		require.ErrorAs(t, err, &unknown, "code %q", code)
		assert.Equal(t, code, unknown.Code)
		assert.ErrorIs(t, err, ErrUnknownShiftCode)
	}
}

func TestBandsOf(t *testing.T) {
	tests := []struct {
		code string
		want []Band
	}{
		{"M", []Band{BandMorning}},
		{"PN", []Band{BandAfternoon, BandNight}},
		{"MN", []Band{BandMorning, BandNight}},
		{"MPN", []Band{BandMorning, BandAfternoon, BandNight}},
		{"S", nil},
		{"R", nil},
	}
	for _, tt := range tests {
		set, err := BandsOf(tt.code)
		require.NoError(t, err, tt.code)
		assert.Equal(t, tt.want, set.Bands(), tt.code)
	}
}

func TestNewCatalog_Rejects(t *testing.T) {
	six := decimal.NewFromInt(6)
	base := []ShiftType{
		{Code: "M", Duration: six},
		{Code: "P", Duration: six},
		{Code: "N", Duration: six},
	}

	_, err := NewCatalog(base[:2])
	assert.Error(t, err, "missing N")

	_, err = NewCatalog(append(base, ShiftType{Code: "M", Duration: six}))
	assert.Error(t, err, "duplicate")

	_, err = NewCatalog(append(base, ShiftType{Code: "X", Duration: six}))
	assert.ErrorIs(t, err, ErrUnknownShiftCode)

	_, err = NewCatalog(append(base, ShiftType{Code: "MP", Duration: decimal.NewFromInt(-1)}))
	assert.Error(t, err, "negative duration")

	c, err := NewCatalog(base)
	require.NoError(t, err)
	assert.Len(t, c.Types(), 3)
}

func TestClock(t *testing.T) {
	d, err := ParseClock("20:30")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Hour+30*time.Minute, d)
	assert.Equal(t, "20:30", FormatClock(d))
	assert.Equal(t, "08:00", FormatClock(32*time.Hour))

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}
