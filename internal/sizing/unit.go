package sizing

import "strings"

// Unit identifies the measurement system a line item's dimensions are expressed in.
type Unit int

const (
	// UnitFeet is the base unit; widths and heights are already in feet.
	UnitFeet Unit = iota
	// UnitInch dimensions may carry a fractional part and a rounding threshold.
	UnitInch
	// UnitMillimeter dimensions are converted through square metres.
	UnitMillimeter
)

func (u Unit) String() string {
	switch u {
	case UnitInch:
		return "inch"
	case UnitMillimeter:
		return "millimeter"
	default:
		return "feet"
	}
}

// ParseUnit resolves a unit tag case-insensitively. Unknown tags resolve to
// UnitFeet and report ok=false so callers can surface the degraded input.
func ParseUnit(tag string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "feet":
		return UnitFeet, true
	case "inch":
		return UnitInch, true
	case "millimeter":
		return UnitMillimeter, true
	default:
		return UnitFeet, false
	}
}
