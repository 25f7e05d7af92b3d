package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fleet-transition-service/internal/domain"
)

// anchorFlag parses "2025:100,2035:150" into year -> price anchors.
type anchorFlag map[int]float64

func (a anchorFlag) String() string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a))
	for _, y := range sortedYears(a) {
		parts = append(parts, fmt.Sprintf("%d:%g", y, a[y]))
	}
	return strings.Join(parts, ",")
}

func (a anchorFlag) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		yearStr, valueStr, ok := strings.Cut(item, ":")
		if !ok {
			return fmt.Errorf("%w: anchor %q is not year:value", domain.ErrInvalidInput, item)
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			return fmt.Errorf("%w: anchor year %q", domain.ErrInvalidInput, yearStr)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return fmt.Errorf("%w: anchor value %q", domain.ErrInvalidInput, valueStr)
		}
		if value < 0 {
			return fmt.Errorf("%w: negative anchor value %v for %d", domain.ErrInvalidInput, value, year)
		}
		a[year] = value
	}
	return nil
}

func sortedYears(m map[int]float64) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
