package domain

import "fmt"

// Planning horizon. Costs accrue every year in [FirstYear, LastYear];
// transitions may only start on the decision grid (every DecisionStep-th
// year from FirstYear). Discounting is relative to BaseYear.
type Horizon struct {
	BaseYear     int
	FirstYear    int
	LastYear     int
	DecisionStep int
}

// MaxHorizonYears bounds the horizon length and the distance between the
// base year and the first year.
const MaxHorizonYears = 200

func DefaultHorizon() Horizon {
	return Horizon{BaseYear: 2025, FirstYear: 2025, LastYear: 2050, DecisionStep: 5}
}

func (h Horizon) Validate() error {
	if h.LastYear < h.FirstYear {
		return fmt.Errorf("horizon: %w: last year %d before first year %d", ErrInvalidInput, h.LastYear, h.FirstYear)
	}
	// unsigned spans stay exact where the int subtraction would overflow
	if uint64(h.LastYear-h.FirstYear) >= MaxHorizonYears {
		return fmt.Errorf("horizon: %w: %d..%d exceeds %d years", ErrInvalidInput, h.FirstYear, h.LastYear, MaxHorizonYears)
	}
	if absDiff(h.BaseYear, h.FirstYear) > MaxHorizonYears {
		return fmt.Errorf("horizon: %w: base year %d too far from first year %d", ErrInvalidInput, h.BaseYear, h.FirstYear)
	}
	if h.DecisionStep < 1 {
		return fmt.Errorf("horizon: %w: decision step must be >= 1", ErrInvalidInput)
	}
	return nil
}

func (h Horizon) Years() []int {
	years := make([]int, 0, h.LastYear-h.FirstYear+1)
	for y := h.FirstYear; y <= h.LastYear; y++ {
		years = append(years, y)
	}
	return years
}

func (h Horizon) DecisionYears() []int {
	step := h.DecisionStep
	if step < 1 {
		step = 1
	}
	var years []int
	for y := h.FirstYear; y <= h.LastYear; y += step {
		years = append(years, y)
	}
	return years
}

func absDiff(a, b int) uint64 {
	if a > b {
		return uint64(a - b)
	}
	return uint64(b - a)
}
