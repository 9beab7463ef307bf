package factory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/roster-engine/roster"
)

const edYAML = `
shifts:
  - code: M
    description: Mattina
    start: "07:00"
    end: "13:00"
  - code: P
    description: Pomeriggio
    start: "13:00"
    end: "19:00"
  - code: N
    description: Notte
    start: "19:00"
    end: "07:00"
    night: true
    rest_after: true
  - code: S
    description: Smonto
  - code: R
    description: Riposo
coverage:
  - {box: 1, band: mattina, required: 1}
  - {box: 1, band: notte, required: 1}
  - {box: 3, band: P, required: 1}
`

func TestParse_YAML(t *testing.T) {
	// GIVEN: A catalog with 7-13-19 shifts and a reduced coverage
	// WHEN: Parsing it
	// THEN: Durations come from the windows, coverage keeps three cells

	def, err := NewCatalogFactory().Parse([]byte(edYAML))
	require.NoError(t, err)

	n, err := def.Catalog.Describe("N")
	require.NoError(t, err)
	assert.Equal(t, "12", n.Duration.String())
	assert.Equal(t, 19*time.Hour, n.Start)
	assert.True(t, n.IsNight)

	s, err := def.Catalog.Describe("S")
	require.NoError(t, err)
	assert.False(t, s.Assignable())

	mp, err := def.Catalog.Describe("MP")
	require.NoError(t, err)
	assert.Equal(t, "12", mp.Duration.String())

	assert.Equal(t, []roster.Cell{
		{Box: roster.Box1, Band: roster.BandMorning},
		{Box: roster.Box1, Band: roster.BandNight},
		{Box: roster.Box3, Band: roster.BandAfternoon},
	}, def.Coverage.Cells())
}

func TestParse_JSONAndExplicitHours(t *testing.T) {
	doc := DefinitionFile{Shifts: []ShiftJSON{
		{Code: "M", Start: "08:00", End: "14:00"},
		{Code: "P", Start: "14:00", End: "20:00", Hours: ptr(5.5)},
		{Code: "N", Start: "20:00", End: "08:00", Night: true, RestAfter: true},
	}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	def, err := NewCatalogFactory().Parse(data)
	require.NoError(t, err)

	p, err := def.Catalog.Describe("P")
	require.NoError(t, err)
	assert.Equal(t, "5.5", p.Duration.String())
	assert.Equal(t, roster.DefaultCoverage(), def.Coverage, "no coverage section")
}

func TestParse_EmptyDocumentUsesDefaults(t *testing.T) {
	def, err := NewCatalogFactory().Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Len(t, def.Catalog.Types(), 5)
	assert.Len(t, def.Coverage.Cells(), 8)
}

func TestParse_Errors(t *testing.T) {
	f := NewCatalogFactory()
	tests := map[string]string{
		"bad clock":        "shifts:\n  - {code: M, start: '8am', end: '14:00'}\n  - {code: P, start: '14:00', end: '20:00'}\n  - {code: N, start: '20:00', end: '08:00'}\n",
		"missing N":        "shifts:\n  - {code: M, start: '08:00', end: '14:00'}\n  - {code: P, start: '14:00', end: '20:00'}\n",
		"zero hours":       "shifts:\n  - {code: M, start: '08:00', end: '14:00', hours: 0}\n  - {code: P, start: '14:00', end: '20:00'}\n  - {code: N, start: '20:00', end: '08:00'}\n",
		"box3 night":       "coverage:\n  - {box: 3, band: notte, required: 1}\n",
		"unknown band":     "coverage:\n  - {box: 1, band: sera, required: 1}\n",
		"not a definition": "shifts: 12\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := f.ParseCoverage([]CoverageJSON{{Box: 3, Band: "notte", Required: 2}})
	assert.ErrorIs(t, err, roster.ErrInvalidCoverage)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shifts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(edYAML), 0o644))

	def, err := NewCatalogFactory().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, def.Coverage, 3)

	_, err = NewCatalogFactory().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExport_RoundTripsDefaultCatalog(t *testing.T) {
	f := NewCatalogFactory()
	entries := f.Export(roster.DefaultCatalog())
	require.Len(t, entries, 5)
	assert.Equal(t, "M", entries[0].Code)
	assert.Equal(t, "08:00", entries[0].Start)

	c, err := f.ParseShifts(entries)
	require.NoError(t, err)
	want := roster.DefaultCatalog().Types()
	got := c.Types()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Code, got[i].Code)
		assert.Equal(t, want[i].Start, got[i].Start)
		assert.Equal(t, want[i].IsNight, got[i].IsNight)
		assert.True(t, want[i].Duration.Equal(got[i].Duration), want[i].Code)
	}
}

func ptr(f float64) *float64 { return &f }
