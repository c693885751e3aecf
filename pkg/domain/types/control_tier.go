package types

import "fmt"

// ControlTier represents a tier of the hierarchy of controls, in
// decreasing order of reliability.
type ControlTier string

const (
	ControlTierElimination    ControlTier = "elimination"
	ControlTierEngineering    ControlTier = "engineering"
	ControlTierAdministrative ControlTier = "administrative"
	ControlTierPPE            ControlTier = "ppe"
)

// AllControlTiers returns all valid control tiers
func AllControlTiers() []ControlTier {
	return []ControlTier{
		ControlTierElimination,
		ControlTierEngineering,
		ControlTierAdministrative,
		ControlTierPPE,
	}
}

// IsValid checks if the control tier is valid
func (t ControlTier) IsValid() bool {
	switch t {
	case ControlTierElimination,
		ControlTierEngineering,
		ControlTierAdministrative,
		ControlTierPPE:
		return true
	default:
		return false
	}
}

// String returns the string representation of the control tier
func (t ControlTier) String() string {
	return string(t)
}

// ParseControlTier parses a string into a ControlTier
func ParseControlTier(s string) (ControlTier, error) {
	tier := ControlTier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid control tier: %s", s)
	}
	return tier, nil
}
