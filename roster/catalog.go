/*
catalog.go - Shift codes, time windows and band decomposition

PURPOSE:
  The Shift Catalog is the vocabulary of the engine. It describes each
  stored shift code (M, P, N, S, R by default) and interprets combined
  codes (MP, MN, PN, MPN) as the union of their single-band letters.

SHIFT CODES:
  M    Morning     08:00-14:00   6h
  P    Afternoon   14:00-20:00   6h
  N    Night       20:00-08:00  12h  night, rest required after
  S    Smonto (rest after night)  0h  placeholder, never assignable
  R    Rest                       0h  placeholder, never assignable

COMBINED CODES:
  Not stored. Describe("MN") composes M and N: start of the first band, end
  of the last, summed duration, night/rest flags OR-ed. BandsOf("MN")
  returns the tagged set {M, N}.

SEE ALSO:
  - availability.go: Uses BandsOf to decode declarations
  - factory/catalog.go: Builds a Catalog from YAML/JSON
*/
package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BAND SET - Tagged set of single-band letters
// =============================================================================

// BandSet is a bit set of bands.
type BandSet uint8

const (
	SetMorning BandSet = 1 << iota
	SetAfternoon
	SetNight
)

func bandBit(b Band) BandSet {
	switch b {
	case BandMorning:
		return SetMorning
	case BandAfternoon:
		return SetAfternoon
	case BandNight:
		return SetNight
	}
	return 0
}

func (s BandSet) Has(b Band) bool { return s&bandBit(b) != 0 }
func (s BandSet) Empty() bool     { return s == 0 }

// Bands lists the members in iteration order.
func (s BandSet) Bands() []Band {
	var out []Band
	for _, b := range Bands() {
		if s.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

// Placeholder codes carry no working time.
const (
	CodeRestAfterNight = "S"
	CodeRest           = "R"
)

func isPlaceholder(code string) bool {
	return code == CodeRestAfterNight || code == CodeRest
}

// BandsOf decomposes a shift code into its band set. Placeholders return an
// empty set. Letters must appear in M, P, N order without repetition.
func BandsOf(code string) (BandSet, error) {
	if isPlaceholder(code) {
		return 0, nil
	}
	if code == "" {
		return 0, &UnknownShiftCodeError{Code: code}
	}
	var set BandSet
	last := -1
	for i := 0; i < len(code); i++ {
		pos := strings.IndexByte("MPN", code[i])
		if pos < 0 || pos <= last {
			return 0, &UnknownShiftCodeError{Code: code}
		}
		last = pos
		set |= BandSet(1 << pos)
	}
	return set, nil
}

// =============================================================================
// SHIFT TYPE
// =============================================================================

// ShiftType describes one code. Start and End are offsets from midnight;
// End <= Start means the shift wraps past midnight.
type ShiftType struct {
	Code              string
	Description       string
	Start             time.Duration
	End               time.Duration
	Duration          decimal.Decimal // hours
	IsNight           bool
	RequiresRestAfter bool
}

// Assignable reports whether the code may fill a coverage cell.
func (s ShiftType) Assignable() bool {
	return !isPlaceholder(s.Code) && s.Duration.IsPositive()
}

// EndOffset returns End as an offset from the start of the shift's day,
// adding 24h when the shift wraps.
func (s ShiftType) EndOffset() time.Duration {
	if s.End <= s.Start && s.Duration.IsPositive() {
		return s.End + 24*time.Hour
	}
	return s.End
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (use HH:MM)", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as "HH:MM".
func FormatClock(d time.Duration) string {
	d = d % (24 * time.Hour)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog holds the stored shift types. Immutable once built.
type Catalog struct {
	types map[string]ShiftType
}

// NewCatalog builds a catalog. Each single-band code (M, P, N) must be
// present since the assignor derives the cell's code from its band.
func NewCatalog(types []ShiftType) (*Catalog, error) {
	c := &Catalog{types: make(map[string]ShiftType, len(types))}
	for _, t := range types {
		if t.Code == "" {
			return nil, fmt.Errorf("shift type with empty code")
		}
		if _, err := BandsOf(t.Code); err != nil {
			return nil, err
		}
		if _, dup := c.types[t.Code]; dup {
			return nil, fmt.Errorf("duplicate shift code %q", t.Code)
		}
		if t.Duration.IsNegative() {
			return nil, fmt.Errorf("shift %q: negative duration", t.Code)
		}
		c.types[t.Code] = t
	}
	for _, b := range Bands() {
		if _, ok := c.types[b.Code()]; !ok {
			return nil, fmt.Errorf("catalog is missing single-band code %q", b.Code())
		}
	}
	return c, nil
}

// DefaultCatalog returns the emergency-department codes.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]ShiftType{
		{Code: "M", Description: "Mattina", Start: 8 * time.Hour, End: 14 * time.Hour, Duration: decimal.NewFromInt(6)},
		{Code: "P", Description: "Pomeriggio", Start: 14 * time.Hour, End: 20 * time.Hour, Duration: decimal.NewFromInt(6)},
		{Code: "N", Description: "Notte", Start: 20 * time.Hour, End: 8 * time.Hour, Duration: decimal.NewFromInt(12), IsNight: true, RequiresRestAfter: true},
		{Code: "S", Description: "Smonto (riposo dopo notte)", Duration: decimal.Zero},
		{Code: "R", Description: "Riposo", Duration: decimal.Zero},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Describe returns the shift type for code. Combined codes are composed
// from their letters; anything else fails with UnknownShiftCodeError.
func (c *Catalog) Describe(code string) (ShiftType, error) {
	if t, ok := c.types[code]; ok {
		return t, nil
	}
	set, err := BandsOf(code)
	if err != nil || set.Empty() {
		return ShiftType{}, &UnknownShiftCodeError{Code: code}
	}

	bands := set.Bands()
	first := c.types[bands[0].Code()]
	last := c.types[bands[len(bands)-1].Code()]
	out := ShiftType{
		Code:     code,
		Start:    first.Start,
		End:      last.End,
		Duration: decimal.Zero,
	}
	names := make([]string, 0, len(bands))
	for _, b := range bands {
		t := c.types[b.Code()]
		out.Duration = out.Duration.Add(t.Duration)
		out.IsNight = out.IsNight || t.IsNight
		out.RequiresRestAfter = out.RequiresRestAfter || t.RequiresRestAfter
		names = append(names, t.Description)
	}
	out.Description = strings.Join(names, "+")
	return out, nil
}

// ForBand returns the single-band shift type used to fill cells of band.
func (c *Catalog) ForBand(b Band) ShiftType {
	return c.types[b.Code()]
}

// Types returns the stored shift types sorted by code.
func (c *Catalog) Types() []ShiftType {
	out := make([]ShiftType, 0, len(c.types))
	for _, t := range c.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ValidateCode checks that code is a stored or composable code.
func (c *Catalog) ValidateCode(code string) error {
	_, err := c.Describe(code)
	return err
}
