package services

import (
	"fleet-transition-service/internal/domain"
)

const (
	testFirstYear = 2025
	testLastYear  = 2030
)

var testHorizon = domain.Horizon{
	BaseYear:     testFirstYear,
	FirstYear:    testFirstYear,
	LastYear:     testLastYear,
	DecisionStep: 5,
}

type quoteSpec struct {
	fuel       domain.FuelKind
	mjPerKg    float64
	pricePerKg float64
	co2PerMJ   float64
	maintPerKW float64
}

var (
	dieselQuote = quoteSpec{domain.FuelDiesel, 42.7, 0.8, 74, 2}
	hfoQuote    = quoteSpec{domain.FuelHFO, 40.2, 0.6, 77, 1.5}
	lpgQuote    = quoteSpec{domain.FuelLPG, 46, 0.7, 65, 2.5}
)

func fuelTable(specs ...quoteSpec) []domain.FuelQuote {
	var out []domain.FuelQuote
	for y := testFirstYear; y <= testLastYear; y++ {
		for _, s := range specs {
			out = append(out, domain.FuelQuote{
				Year:                y,
				Fuel:                s.fuel,
				EnergyMJPerKg:       s.mjPerKg,
				PriceUSDPerKg:       s.pricePerKg,
				CO2GramsPerMJ:       s.co2PerMJ,
				MaintenanceUSDPerKW: s.maintPerKW,
			})
		}
	}
	return out
}

// feeder sails 1 TJ per voyage, a quarter of it inside ECAs.
func feeder() domain.Ship {
	return domain.Ship{
		Class:         "Feeder",
		Voyages:       10,
		PowerKW:       1000,
		EnergyPerKmMJ: 100,
		Route:         domain.RouteAggregate{VoyageEnergyMJ: 1e6, ECAEnergyMJ: 2.5e5},
	}
}

func referenceFor(ships ...domain.Ship) *domain.ReferenceData {
	ref := &domain.ReferenceData{
		Ships: ships,
		Fuels: fuelTable(dieselQuote, hfoQuote, lpgQuote),
	}
	for _, s := range ships {
		ref.NewbuildSpecs = append(ref.NewbuildSpecs, domain.NewbuildSpec{
			Class:         s.Class,
			EnergyPerKmMJ: s.EnergyPerKmMJ,
			PowerKW:       s.PowerKW,
		})
	}
	return ref
}

func testCostConfig(co2, primary, secondary float64) CostConfig {
	years := testHorizon.Years()
	return CostConfig{
		Horizon:         testHorizon,
		DiscountRate:    0.07,
		Primary:         domain.FuelDiesel,
		Secondary:       domain.FuelHFO,
		Alternatives:    []domain.FuelKind{domain.FuelLPG},
		CO2Prices:       constantCurve(co2, years),
		PrimaryPrices:   constantCurve(primary, years),
		SecondaryPrices: constantCurve(secondary, years),
	}
}

func constantCurve(v float64, years []int) domain.PriceCurve {
	c := make(domain.PriceCurve, len(years))
	for _, y := range years {
		c[y] = v
	}
	return c
}
