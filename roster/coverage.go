package roster

import "fmt"

// =============================================================================
// COVERAGE - Which cells exist and how many physicians they ask for
// =============================================================================

// CoverageRequirement is the minimum number of physicians for a box/band.
type CoverageRequirement struct {
	Box      Box
	Band     Band
	Required int
}

// Coverage is the full set of requirements for an environment.
type Coverage []CoverageRequirement

// DefaultCoverage mirrors the legacy defaults: boxes 1 and 2 need two
// physicians on every band, box 3 one on morning and afternoon and none at
// night.
func DefaultCoverage() Coverage {
	return Coverage{
		{Box: Box1, Band: BandMorning, Required: 2},
		{Box: Box1, Band: BandAfternoon, Required: 2},
		{Box: Box1, Band: BandNight, Required: 2},
		{Box: Box2, Band: BandMorning, Required: 2},
		{Box: Box2, Band: BandAfternoon, Required: 2},
		{Box: Box2, Band: BandNight, Required: 2},
		{Box: Box3, Band: BandMorning, Required: 1},
		{Box: Box3, Band: BandAfternoon, Required: 1},
		{Box: Box3, Band: BandNight, Required: 0},
	}
}

// Validate rejects unknown boxes/bands, negative counts, duplicates and any
// night requirement on box 3.
func (cv Coverage) Validate() error {
	seen := make(map[Cell]bool, len(cv))
	for _, r := range cv {
		c := Cell{Box: r.Box, Band: r.Band}
		switch {
		case !r.Box.Valid():
			return fmt.Errorf("%w: unknown box %d", ErrInvalidCoverage, r.Box)
		case !r.Band.Valid():
			return fmt.Errorf("%w: unknown band %q", ErrInvalidCoverage, r.Band)
		case r.Required < 0:
			return fmt.Errorf("%w: negative requirement for %s", ErrInvalidCoverage, c)
		case r.Box == Box3 && r.Band == BandNight && r.Required > 0:
			return fmt.Errorf("%w: box3 has no night band", ErrInvalidCoverage)
		case seen[c]:
			return fmt.Errorf("%w: duplicate requirement for %s", ErrInvalidCoverage, c)
		}
		seen[c] = true
	}
	return nil
}

// Required returns the requirement for a cell (0 when absent).
func (cv Coverage) Required(c Cell) int {
	for _, r := range cv {
		if r.Box == c.Box && r.Band == c.Band {
			return r.Required
		}
	}
	return 0
}

// Cells returns the grid layout in the fixed iteration order: box 1..3,
// then morning, afternoon, night. Only cells with Required >= 1 exist.
func (cv Coverage) Cells() []Cell {
	var cells []Cell
	for _, b := range Boxes() {
		for _, band := range Bands() {
			c := Cell{Box: b, Band: band}
			if cv.Required(c) >= 1 {
				cells = append(cells, c)
			}
		}
	}
	return cells
}
