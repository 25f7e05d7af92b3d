package domain

import (
	"strings"
	"unicode"
)

// Identifies a fuel in reference tables (e.g. "Diesel", "Green Ammonia").
type FuelKind string

const (
	FuelDiesel        FuelKind = "Diesel"
	FuelHFO           FuelKind = "Hfo"
	FuelLPG           FuelKind = "Lpg"
	FuelGreenMethanol FuelKind = "Green Methanol"
	FuelGreenAmmonia  FuelKind = "Green Ammonia"
)

// Default alternative fuels considered for newbuilds.
func DefaultAlternatives() []FuelKind {
	return []FuelKind{FuelLPG, FuelGreenMethanol, FuelGreenAmmonia}
}

// NormalizeName trims and title-cases ship class and fuel names so that
// tables keyed by free-text labels join reliably ("  HFO" -> "Hfo").
func NormalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// NormalizeFuel is NormalizeName for fuel labels.
func NormalizeFuel(s string) FuelKind { return FuelKind(NormalizeName(s)) }
