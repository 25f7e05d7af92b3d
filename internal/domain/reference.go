package domain

import (
	"fmt"
	"strings"
)

// Reference tables consumed by one optimization run.
type ReferenceData struct {
	Ships         []Ship
	Fuels         []FuelQuote
	Retrofits     []RetrofitOption
	Newbuilds     []NewbuildOption
	NewbuildSpecs []NewbuildSpec

	// Optional default CO2 price anchors (USD per tonne by year).
	CO2Prices map[int]float64
}

// AttachRoutes sets the route aggregate of every ship from route legs.
// Ships without legs keep a zero aggregate (ECA share 0).
func (r *ReferenceData) AttachRoutes(legs []RouteLeg) {
	routes := AggregateRoutes(legs)
	for i := range r.Ships {
		r.Ships[i].Route = routes[NormalizeName(r.Ships[i].Class)]
	}
}

// Validate checks structural invariants of the tables.
func (r *ReferenceData) Validate() error {
	if len(r.Ships) == 0 {
		return fmt.Errorf("validate reference data: %w: fleet is empty", ErrInvalidReference)
	}
	seen := make(map[string]struct{}, len(r.Ships))
	for i, s := range r.Ships {
		name := NormalizeName(s.Class)
		if name == "" {
			return fmt.Errorf("validate reference data: %w: ship #%d has empty class", ErrInvalidReference, i+1)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("validate reference data: %w: duplicate ship class %q", ErrInvalidReference, name)
		}
		seen[name] = struct{}{}
		if s.Voyages < 0 || s.PowerKW < 0 || s.EnergyPerKmMJ < 0 || s.VoyageDistanceKm < 0 {
			return fmt.Errorf("validate reference data: %w: ship %q has negative specs", ErrInvalidReference, name)
		}
	}
	for _, o := range r.Retrofits {
		if o.SavingPct < 0 || o.SavingPct > 100 {
			return fmt.Errorf(
				"validate reference data: %w: retrofit saving for %q in %d out of range: %v",
				ErrInvalidReference, o.Class, o.Year, o.SavingPct,
			)
		}
	}
	return nil
}

type fuelKey struct {
	year int
	fuel FuelKind
}

type classYear struct {
	class string
	year  int
}

type classFuelYear struct {
	class string
	fuel  FuelKind
	year  int
}

// Lookup tables over ReferenceData. Keys are normalized on construction.
type ReferenceIndex struct {
	fuels     map[fuelKey]FuelQuote
	retrofits map[classYear]RetrofitOption
	newbuilds map[classFuelYear]float64
	specs     map[string]NewbuildSpec
}

func (r *ReferenceData) Index() *ReferenceIndex {
	idx := &ReferenceIndex{
		fuels:     make(map[fuelKey]FuelQuote, len(r.Fuels)),
		retrofits: make(map[classYear]RetrofitOption, len(r.Retrofits)),
		newbuilds: make(map[classFuelYear]float64, len(r.Newbuilds)),
		specs:     make(map[string]NewbuildSpec, len(r.NewbuildSpecs)),
	}
	for _, q := range r.Fuels {
		q.Fuel = NormalizeFuel(string(q.Fuel))
		idx.fuels[fuelKey{q.Year, q.Fuel}] = q
	}
	for _, o := range r.Retrofits {
		idx.retrofits[classYear{NormalizeName(o.Class), o.Year}] = o
	}
	for _, o := range r.Newbuilds {
		idx.newbuilds[classFuelYear{NormalizeName(o.Class), NormalizeFuel(string(o.Fuel)), o.Year}] = o.CapexUSD
	}
	for _, s := range r.NewbuildSpecs {
		idx.specs[NormalizeName(s.Class)] = s
	}
	return idx
}

// FuelQuote returns the quote for (year, fuel). Absence is a hard error.
func (x *ReferenceIndex) FuelQuote(year int, fuel FuelKind) (FuelQuote, error) {
	q, ok := x.fuels[fuelKey{year, NormalizeFuel(string(fuel))}]
	if !ok {
		return FuelQuote{}, fmt.Errorf("fuel quote %d/%s: %w", year, fuel, ErrMissingReference)
	}
	return q, nil
}

// Retrofit returns the retrofit option for (class, year); zero when absent.
func (x *ReferenceIndex) Retrofit(class string, year int) RetrofitOption {
	return x.retrofits[classYear{NormalizeName(class), year}]
}

// NewbuildCapex returns the newbuild capital cost; zero when absent.
func (x *ReferenceIndex) NewbuildCapex(class string, fuel FuelKind, year int) float64 {
	return x.newbuilds[classFuelYear{NormalizeName(class), NormalizeFuel(string(fuel)), year}]
}

func (x *ReferenceIndex) NewbuildSpec(class string) (NewbuildSpec, error) {
	s, ok := x.specs[NormalizeName(class)]
	if !ok {
		return NewbuildSpec{}, fmt.Errorf("newbuild spec %q: %w", strings.TrimSpace(class), ErrMissingReference)
	}
	return s, nil
}
