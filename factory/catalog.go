/*
Package factory converts shift-catalog and coverage definitions into engine
types.

PURPOSE:
  Lets an environment describe its shift codes and coverage requirements in
  a file instead of code. YAML is a superset of JSON, so both formats go
  through the same yaml.v3 decoder.

SCHEMA:
  shifts:
    - code: M
      description: Mattina
      start: "08:00"
      end: "14:00"
      hours: 6            # optional, derived from start/end when omitted
    - code: N
      description: Notte
      start: "20:00"
      end: "08:00"
      night: true
      rest_after: true
    - code: S
      description: Smonto
  coverage:
    - {box: 1, band: mattina, required: 2}
    - {box: 3, band: notte, required: 0}

DEFAULTS:
  - No shifts section: roster.DefaultCatalog()
  - No coverage section: roster.DefaultCoverage()
  - Placeholder codes (S, R) get zero hours regardless of their window

USAGE:
  f := factory.NewCatalogFactory()
  def, err := f.LoadFile("shifts.yaml")
  catalog, coverage := def.Catalog, def.Coverage

SEE ALSO:
  - roster/catalog.go: Catalog and combined-code composition
  - roster/coverage.go: Coverage validation
*/
package factory

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// DefinitionFile is the on-disk document.
type DefinitionFile struct {
	Shifts   []ShiftJSON    `yaml:"shifts" json:"shifts"`
	Coverage []CoverageJSON `yaml:"coverage" json:"coverage"`
}

// ShiftJSON is one shift type.
type ShiftJSON struct {
	Code        string   `yaml:"code" json:"code"`
	Description string   `yaml:"description" json:"description"`
	Start       string   `yaml:"start" json:"start"`
	End         string   `yaml:"end" json:"end"`
	Hours       *float64 `yaml:"hours,omitempty" json:"hours,omitempty"`
	Night       bool     `yaml:"night" json:"night"`
	RestAfter   bool     `yaml:"rest_after" json:"rest_after"`
}

// CoverageJSON is one requirement.
type CoverageJSON struct {
	Box      int    `yaml:"box" json:"box"`
	Band     string `yaml:"band" json:"band"`
	Required int    `yaml:"required" json:"required"`
}

// Definition is a parsed, validated document.
type Definition struct {
	Catalog  *roster.Catalog
	Coverage roster.Coverage
}

// =============================================================================
// CATALOG FACTORY
// =============================================================================

type CatalogFactory struct{}

func NewCatalogFactory() *CatalogFactory {
	return &CatalogFactory{}
}

// LoadFile reads and parses a definition file.
func (f *CatalogFactory) LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	def, err := f.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a YAML or JSON document.
func (f *CatalogFactory) Parse(data []byte) (*Definition, error) {
	var doc DefinitionFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	def := &Definition{Catalog: roster.DefaultCatalog(), Coverage: roster.DefaultCoverage()}
	if len(doc.Shifts) > 0 {
		c, err := f.ParseShifts(doc.Shifts)
		if err != nil {
			return nil, err
		}
		def.Catalog = c
	}
	if len(doc.Coverage) > 0 {
		cv, err := f.ParseCoverage(doc.Coverage)
		if err != nil {
			return nil, err
		}
		def.Coverage = cv
	}
	return def, nil
}

// ParseShifts converts shift entries into a Catalog.
func (f *CatalogFactory) ParseShifts(entries []ShiftJSON) (*roster.Catalog, error) {
	types := make([]roster.ShiftType, 0, len(entries))
	for _, e := range entries {
		st, err := f.shiftType(e)
		if err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	return roster.NewCatalog(types)
}

func (f *CatalogFactory) shiftType(e ShiftJSON) (roster.ShiftType, error) {
	st := roster.ShiftType{
		Code:              e.Code,
		Description:       e.Description,
		IsNight:           e.Night,
		RequiresRestAfter: e.RestAfter,
		Duration:          decimal.Zero,
	}
	if e.Code == roster.CodeRest || e.Code == roster.CodeRestAfterNight {
		return st, nil
	}

	var err error
	if st.Start, err = roster.ParseClock(e.Start); err != nil {
		return st, fmt.Errorf("shift %q start: %w", e.Code, err)
	}
	if st.End, err = roster.ParseClock(e.End); err != nil {
		return st, fmt.Errorf("shift %q end: %w", e.Code, err)
	}

	if e.Hours != nil {
		st.Duration = decimal.NewFromFloat(*e.Hours)
	} else {
		window := st.End - st.Start
		if window <= 0 {
			window += 24 * time.Hour
		}
		st.Duration = decimal.NewFromFloat(window.Hours())
	}
	if !st.Duration.IsPositive() {
		return st, fmt.Errorf("shift %q: hours must be positive", e.Code)
	}
	return st, nil
}

// ParseCoverage converts coverage entries and validates them.
func (f *CatalogFactory) ParseCoverage(entries []CoverageJSON) (roster.Coverage, error) {
	cv := make(roster.Coverage, 0, len(entries))
	for _, e := range entries {
		band, err := roster.ParseBand(e.Band)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", roster.ErrInvalidCoverage, err)
		}
		cv = append(cv, roster.CoverageRequirement{Box: roster.Box(e.Box), Band: band, Required: e.Required})
	}
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	return cv, nil
}

// Export renders a catalog back into schema entries, sorted by code.
func (f *CatalogFactory) Export(c *roster.Catalog) []ShiftJSON {
	types := c.Types()
	out := make([]ShiftJSON, 0, len(types))
	for _, t := range types {
		hours, _ := t.Duration.Float64()
		e := ShiftJSON{
			Code:        t.Code,
			Description: t.Description,
			Hours:       &hours,
			Night:       t.IsNight,
			RestAfter:   t.RequiresRestAfter,
		}
		if t.Assignable() {
			e.Start = roster.FormatClock(t.Start)
			e.End = roster.FormatClock(t.End)
		}
		out = append(out, e)
	}
	return out
}
