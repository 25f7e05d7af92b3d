package csvdata

import (
	"fmt"
	"strconv"
	"strings"
)

// number is a float cell that tolerates surrounding blanks, a decimal comma
// and a trailing percent sign. Empty cells decode to 0.
type number float64

func (n *number) UnmarshalText(text []byte) error {
	v, err := parseNumber(string(text))
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}

// year is an integer cell; "2025.0" as written by spreadsheet exports is accepted.
type year int

func (y *year) UnmarshalText(text []byte) error {
	v, err := parseNumber(string(text))
	if err != nil {
		return err
	}
	if v != float64(int(v)) {
		return fmt.Errorf("parse year %q: not an integer", string(text))
	}
	*y = year(v)
	return nil
}
