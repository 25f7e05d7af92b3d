package domain

import (
	"fmt"
	"math"
)

const DefaultDiscountRate = 0.07

// Parameters a run was computed with.
type Scenario struct {
	Horizon      Horizon
	DiscountRate float64
	Primary      FuelKind
	Secondary    FuelKind
	Alternatives []FuelKind
}

// DefaultScenario is Diesel inside ECAs, Hfo outside, three alternative
// fuels, 2025..2050 at 7%.
func DefaultScenario() Scenario {
	return Scenario{
		Horizon:      DefaultHorizon(),
		DiscountRate: DefaultDiscountRate,
		Primary:      FuelDiesel,
		Secondary:    FuelHFO,
		Alternatives: DefaultAlternatives(),
	}
}

func (s Scenario) Validate() error {
	if err := s.Horizon.Validate(); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if s.DiscountRate <= -1 || math.IsNaN(s.DiscountRate) || math.IsInf(s.DiscountRate, 0) {
		return fmt.Errorf("scenario: %w: discount rate %v", ErrInvalidInput, s.DiscountRate)
	}
	if NormalizeFuel(string(s.Primary)) == "" || NormalizeFuel(string(s.Secondary)) == "" {
		return fmt.Errorf("scenario: %w: primary and secondary fuels are required", ErrInvalidInput)
	}
	seen := make(map[FuelKind]struct{}, len(s.Alternatives))
	for _, f := range s.Alternatives {
		n := NormalizeFuel(string(f))
		if n == "" {
			return fmt.Errorf("scenario: %w: empty alternative fuel", ErrInvalidInput)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("scenario: %w: duplicate alternative fuel %q", ErrInvalidInput, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}

// Normalized returns a copy with canonical fuel names.
func (s Scenario) Normalized() Scenario {
	out := s
	out.Primary = NormalizeFuel(string(s.Primary))
	out.Secondary = NormalizeFuel(string(s.Secondary))
	out.Alternatives = make([]FuelKind, 0, len(s.Alternatives))
	for _, f := range s.Alternatives {
		out.Alternatives = append(out.Alternatives, NormalizeFuel(string(f)))
	}
	return out
}
