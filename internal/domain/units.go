package domain

import (
	"fmt"
	"strings"
)

// Weights are stored in kilograms; reports may show pounds.
const (
	UnitKG = "kg"
	UnitLB = "lb"
)

const kgToLb = 2.2046226218

// ParseUnit normalises a display unit, defaulting to kilograms.
func ParseUnit(s string) (string, error) {
	switch u := strings.ToLower(strings.TrimSpace(s)); u {
	case "", UnitKG:
		return UnitKG, nil
	case UnitLB, "lbs":
		return UnitLB, nil
	default:
		return "", fmt.Errorf("unit must be %q or %q", UnitKG, UnitLB)
	}
}

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKG && to == UnitLB {
		return v * kgToLb
	}
	if from == UnitLB && to == UnitKG {
		return v / kgToLb
	}
	return v
}
