package types

import "fmt"

// CycleUnit represents the unit of an obligation's renewal cycle
type CycleUnit string

const (
	CycleUnitYear      CycleUnit = "year"
	CycleUnitHalf      CycleUnit = "half"
	CycleUnitDay       CycleUnit = "day"
	CycleUnitImmediate CycleUnit = "immediate"
)

// AllCycleUnits returns all valid cycle units
func AllCycleUnits() []CycleUnit {
	return []CycleUnit{
		CycleUnitYear,
		CycleUnitHalf,
		CycleUnitDay,
		CycleUnitImmediate,
	}
}

// IsValid checks if the cycle unit is valid
func (u CycleUnit) IsValid() bool {
	switch u {
	case CycleUnitYear,
		CycleUnitHalf,
		CycleUnitDay,
		CycleUnitImmediate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the cycle unit
func (u CycleUnit) String() string {
	return string(u)
}

// ParseCycleUnit parses a string into a CycleUnit
func ParseCycleUnit(s string) (CycleUnit, error) {
	unit := CycleUnit(s)
	if !unit.IsValid() {
		return "", fmt.Errorf("invalid cycle unit: %s", s)
	}
	return unit, nil
}
