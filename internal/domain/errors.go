package domain

import "errors"

var (
	// A mandatory reference lookup (fuel quote, newbuild spec) is absent.
	ErrMissingReference = errors.New("missing reference data")
	// Reference tables exist but are malformed or inconsistent.
	ErrInvalidReference = errors.New("invalid reference data")
	// A price curve does not cover a horizon year.
	ErrMissingPrice = errors.New("missing price")
	// Caller supplied parameters are malformed.
	ErrInvalidInput = errors.New("invalid input")
)
