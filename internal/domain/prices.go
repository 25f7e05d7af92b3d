package domain

import (
	"fmt"
	"sort"
)

// Year -> value mapping covering a horizon (USD/t CO2 or USD/kg fuel).
type PriceCurve map[int]float64

// At returns the value for year or ErrMissingPrice.
func (c PriceCurve) At(year int) (float64, error) {
	v, ok := c[year]
	if !ok {
		return 0, fmt.Errorf("price for %d: %w", year, ErrMissingPrice)
	}
	return v, nil
}

// Require checks that every year has a value.
func (c PriceCurve) Require(years []int) error {
	for _, y := range years {
		if _, err := c.At(y); err != nil {
			return err
		}
	}
	return nil
}

// ExpandAnchors turns sparse anchor points into a full curve: each year takes
// the value of the latest anchor at or before it. Years preceding the first
// anchor cannot be priced.
func ExpandAnchors(anchors map[int]float64, years []int) (PriceCurve, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("expand anchors: %w: no anchors", ErrMissingPrice)
	}
	keys := make([]int, 0, len(anchors))
	for y, v := range anchors {
		if v < 0 {
			return nil, fmt.Errorf("expand anchors: %w: negative price %v in %d", ErrInvalidInput, v, y)
		}
		keys = append(keys, y)
	}
	sort.Ints(keys)

	curve := make(PriceCurve, len(years))
	for _, y := range years {
		i := sort.SearchInts(keys, y+1) - 1
		if i < 0 {
			return nil, fmt.Errorf("expand anchors: year %d precedes first anchor %d: %w", y, keys[0], ErrMissingPrice)
		}
		curve[y] = anchors[keys[i]]
	}
	return curve, nil
}
