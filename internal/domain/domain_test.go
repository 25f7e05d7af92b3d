package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  HFO ":           "Hfo",
		"green   methanol": "Green Methanol",
		"GREEN AMMONIA":    "Green Ammonia",
		"ro-ro ferry":      "Ro-Ro Ferry",
		"feeder 2x":        "Feeder 2X",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestAggregateRoutes(t *testing.T) {
	legs := []RouteLeg{
		{Ship: "feeder", EnergyMJ: 1000, ECAShare: 0.5},
		{Ship: "Feeder ", EnergyMJ: 3000, ECAShare: 0},
		{Ship: "Tanker", EnergyMJ: 200, ECAShare: 1.4},
		{Ship: " ", EnergyMJ: 999, ECAShare: 1},
	}

	got := AggregateRoutes(legs)

	require.Len(t, got, 2)
	feeder := got["Feeder"]
	assert.InDelta(t, 4000, feeder.VoyageEnergyMJ, 1e-9)
	assert.InDelta(t, 500, feeder.ECAEnergyMJ, 1e-9)
	assert.InDelta(t, 3500, feeder.NonECAEnergyMJ(), 1e-9)
	assert.InDelta(t, 0.125, feeder.ECAShare(), 1e-12)

	tanker := got["Tanker"]
	assert.InDelta(t, 1.0, tanker.ECAShare(), 1e-12)
}

func TestRouteAggregateEmptyShareIsZero(t *testing.T) {
	var r RouteAggregate
	assert.Zero(t, r.ECAShare())
	assert.False(t, r.HasEnergy())
}

func TestAttachRoutesDefaultsMissingShips(t *testing.T) {
	ref := &ReferenceData{Ships: []Ship{{Class: "Feeder"}, {Class: "Tanker"}}}
	ref.AttachRoutes([]RouteLeg{{Ship: "feeder", EnergyMJ: 10, ECAShare: 1}})

	assert.InDelta(t, 10, ref.Ships[0].Route.ECAEnergyMJ, 1e-12)
	assert.Equal(t, RouteAggregate{}, ref.Ships[1].Route)
}

func TestExpandAnchorsCarriesForward(t *testing.T) {
	h := Horizon{BaseYear: 2025, FirstYear: 2025, LastYear: 2036, DecisionStep: 5}

	curve, err := ExpandAnchors(map[int]float64{2025: 100, 2030: 150, 2035: 50}, h.Years())
	require.NoError(t, err)

	assert.Equal(t, 100.0, curve[2025])
	assert.Equal(t, 100.0, curve[2029])
	assert.Equal(t, 150.0, curve[2030])
	assert.Equal(t, 150.0, curve[2034])
	assert.Equal(t, 50.0, curve[2036])
	require.NoError(t, curve.Require(h.Years()))
}

func TestExpandAnchorsErrors(t *testing.T) {
	years := []int{2025, 2026}

	_, err := ExpandAnchors(map[int]float64{2026: 1}, years)
	assert.ErrorIs(t, err, ErrMissingPrice)

	_, err = ExpandAnchors(nil, years)
	assert.ErrorIs(t, err, ErrMissingPrice)

	_, err = ExpandAnchors(map[int]float64{2025: -1}, years)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPriceCurveAtMissingYear(t *testing.T) {
	c := PriceCurve{2025: 2}
	_, err := c.At(2026)
	assert.ErrorIs(t, err, ErrMissingPrice)
}

func TestHorizonYears(t *testing.T) {
	h := DefaultHorizon()
	require.NoError(t, h.Validate())
	assert.Len(t, h.Years(), 26)
	assert.Equal(t, []int{2025, 2030, 2035, 2040, 2045, 2050}, h.DecisionYears())

	bad := Horizon{FirstYear: 2030, LastYear: 2025, DecisionStep: 5}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)

	longest := Horizon{BaseYear: 2025, FirstYear: 2025, LastYear: 2025 + MaxHorizonYears - 1, DecisionStep: 5}
	require.NoError(t, longest.Validate())
	longest.LastYear++
	assert.ErrorIs(t, longest.Validate(), ErrInvalidInput)
}

func TestReferenceIndexLookups(t *testing.T) {
	ref := &ReferenceData{
		Ships: []Ship{{Class: "Feeder"}},
		Fuels: []FuelQuote{{Year: 2025, Fuel: "diesel", EnergyMJPerKg: 42.7}},
		Retrofits: []RetrofitOption{
			{Class: "feeder", Year: 2025, CapexUSD: 10, SavingPct: 5},
		},
		Newbuilds:     []NewbuildOption{{Class: "FEEDER", Fuel: "lpg", Year: 2030, CapexUSD: 99}},
		NewbuildSpecs: []NewbuildSpec{{Class: "Feeder", EnergyPerKmMJ: 1, PowerKW: 2}},
	}
	idx := ref.Index()

	q, err := idx.FuelQuote(2025, FuelDiesel)
	require.NoError(t, err)
	assert.Equal(t, 42.7, q.EnergyMJPerKg)

	_, err = idx.FuelQuote(2026, FuelDiesel)
	assert.ErrorIs(t, err, ErrMissingReference)

	assert.Equal(t, 5.0, idx.Retrofit("Feeder", 2025).SavingPct)
	assert.Equal(t, RetrofitOption{}, idx.Retrofit("Feeder", 2030))
	assert.Equal(t, 99.0, idx.NewbuildCapex("Feeder", FuelLPG, 2030))
	assert.Zero(t, idx.NewbuildCapex("Feeder", FuelLPG, 2025))

	_, err = idx.NewbuildSpec("Tanker")
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestReferenceDataValidate(t *testing.T) {
	assert.ErrorIs(t, (&ReferenceData{}).Validate(), ErrInvalidReference)

	dup := &ReferenceData{Ships: []Ship{{Class: "a"}, {Class: "A"}}}
	assert.ErrorIs(t, dup.Validate(), ErrInvalidReference)

	badSaving := &ReferenceData{
		Ships:     []Ship{{Class: "A"}},
		Retrofits: []RetrofitOption{{Class: "A", Year: 2025, SavingPct: 120}},
	}
	assert.ErrorIs(t, badSaving.Validate(), ErrInvalidReference)
}

func TestDefaultScenarioIsValid(t *testing.T) {
	s := DefaultScenario()
	require.NoError(t, s.Validate())
	assert.Equal(t, FuelDiesel, s.Primary)
	assert.Equal(t, FuelHFO, s.Secondary)
	assert.Equal(t, 0.07, s.DiscountRate)
	assert.Len(t, s.Alternatives, 3)
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"reversed horizon", func(s *Scenario) { s.Horizon.LastYear = s.Horizon.FirstYear - 1 }},
		{"horizon too long", func(s *Scenario) { s.Horizon.LastYear = s.Horizon.FirstYear + MaxHorizonYears }},
		{"huge horizon", func(s *Scenario) { s.Horizon.LastYear = s.Horizon.FirstYear + 1<<40 }},
		{"overflowing horizon", func(s *Scenario) {
			s.Horizon.FirstYear = math.MinInt
			s.Horizon.LastYear = math.MaxInt
		}},
		{"base year far away", func(s *Scenario) { s.Horizon.BaseYear = s.Horizon.FirstYear - 1000 }},
		{"discount rate -1", func(s *Scenario) { s.DiscountRate = -1 }},
		{"missing primary", func(s *Scenario) { s.Primary = "  " }},
		{"duplicate alternative", func(s *Scenario) { s.Alternatives = []FuelKind{"lpg", "LPG"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultScenario()
			tc.mutate(&s)
			require.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestScenarioNormalized(t *testing.T) {
	s := Scenario{Primary: "diesel", Secondary: " HFO ", Alternatives: []FuelKind{"green  ammonia"}}
	n := s.Normalized()
	assert.Equal(t, FuelDiesel, n.Primary)
	assert.Equal(t, FuelHFO, n.Secondary)
	assert.Equal(t, []FuelKind{FuelGreenAmmonia}, n.Alternatives)
}
