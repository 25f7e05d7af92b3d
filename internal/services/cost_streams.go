package services

import (
	"fmt"
	"math"

	"fleet-transition-service/internal/domain"

	"go.uber.org/zap"
)

// Energies below this are treated as zero so irrelevant density lookups
// never divide by zero.
const energyEpsilon = 1e-9

const gramsPerTonne = 1_000_000

// CostConfig parameterizes the cost stream builder for one run.
type CostConfig struct {
	Horizon      domain.Horizon
	DiscountRate float64

	// Primary fuel is burned inside emission control areas, Secondary outside.
	Primary      domain.FuelKind
	Secondary    domain.FuelKind
	Alternatives []domain.FuelKind

	CO2Prices       domain.PriceCurve
	PrimaryPrices   domain.PriceCurve
	SecondaryPrices domain.PriceCurve
}

func (c CostConfig) Validate() error {
	if err := c.Horizon.Validate(); err != nil {
		return fmt.Errorf("cost config: %w", err)
	}
	if c.DiscountRate <= -1 || math.IsNaN(c.DiscountRate) {
		return fmt.Errorf("cost config: %w: discount rate %v", domain.ErrInvalidInput, c.DiscountRate)
	}
	if c.Primary == "" || c.Secondary == "" {
		return fmt.Errorf("cost config: %w: primary and secondary fuels are required", domain.ErrInvalidInput)
	}
	years := c.Horizon.Years()
	for name, curve := range map[string]domain.PriceCurve{
		"co2":       c.CO2Prices,
		"primary":   c.PrimaryPrices,
		"secondary": c.SecondaryPrices,
	} {
		if err := curve.Require(years); err != nil {
			return fmt.Errorf("cost config: %s prices: %w", name, err)
		}
	}
	return nil
}

// DiscountFactor is 1/(1+r)^(year-base).
func (c CostConfig) DiscountFactor(year int) float64 {
	return 1 / math.Pow(1+c.DiscountRate, float64(year-c.Horizon.BaseYear))
}

// CostBreakdown holds discounted USD components of one (ship, year, regime)
// cost plus the undiscounted emissions behind it.
type CostBreakdown struct {
	FuelECA         float64
	FuelNonECA      float64
	CO2             float64
	Maintenance     float64
	Capex           float64
	EmissionsTonnes float64
}

// Operating cost excluding one-time capital cost.
func (b CostBreakdown) Operating() float64 {
	return b.FuelECA + b.FuelNonECA + b.CO2 + b.Maintenance
}

func (b CostBreakdown) Total() float64 { return b.Operating() + b.Capex }

// YearCosts are the three regimes of one ship in one year. Retrofit and
// Newbuild assume the regime is already active; their Capex is the cost of
// starting the regime in exactly this year.
type YearCosts struct {
	Year     int
	Baseline CostBreakdown
	Retrofit CostBreakdown
	Newbuild map[domain.FuelKind]CostBreakdown
}

type ShipCostStream struct {
	Ship     string
	ECAShare float64
	Years    []YearCosts
}

type CostStreams struct {
	Years        []int
	Alternatives []domain.FuelKind
	Ships        []ShipCostStream
}

// voyage energy split of one ship (MJ per voyage)
type voyageEnergy struct {
	eca    float64
	nonECA float64
	share  float64
}

func shipVoyageEnergy(s domain.Ship) voyageEnergy {
	if s.Route.HasEnergy() {
		return voyageEnergy{
			eca:    s.Route.ECAEnergyMJ,
			nonECA: s.Route.NonECAEnergyMJ(),
			share:  s.Route.ECAShare(),
		}
	}
	// No route data: the declared distance is sailed entirely outside ECAs.
	return voyageEnergy{nonECA: s.VoyageDistanceKm * s.EnergyPerKmMJ}
}

// BuildCostStreams computes discounted baseline, retrofit and newbuild cost
// for every ship and every horizon year.
func BuildCostStreams(ref *domain.ReferenceData, cfg CostConfig, logger *zap.Logger) (*CostStreams, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ref == nil {
		return nil, fmt.Errorf("build cost streams: %w: reference data is nil", domain.ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build cost streams: %w", err)
	}

	alternatives := make([]domain.FuelKind, 0, len(cfg.Alternatives))
	for _, f := range cfg.Alternatives {
		alternatives = append(alternatives, domain.NormalizeFuel(string(f)))
	}

	idx := ref.Index()
	years := cfg.Horizon.Years()
	out := &CostStreams{
		Years:        years,
		Alternatives: alternatives,
		Ships:        make([]ShipCostStream, 0, len(ref.Ships)),
	}

	for _, ship := range ref.Ships {
		stream, err := buildShipStream(ship, idx, cfg, alternatives, years, logger)
		if err != nil {
			return nil, fmt.Errorf("build cost streams: ship %q: %w", ship.Class, err)
		}
		out.Ships = append(out.Ships, stream)
	}

	return out, nil
}

func buildShipStream(
	ship domain.Ship,
	idx *domain.ReferenceIndex,
	cfg CostConfig,
	alternatives []domain.FuelKind,
	years []int,
	logger *zap.Logger,
) (ShipCostStream, error) {
	class := domain.NormalizeName(ship.Class)
	energy := shipVoyageEnergy(ship)

	var spec domain.NewbuildSpec
	factor := 1.0
	if len(alternatives) > 0 {
		var err error
		spec, err = idx.NewbuildSpec(class)
		if err != nil {
			return ShipCostStream{}, err
		}
		if ship.EnergyPerKmMJ > 0 {
			factor = spec.EnergyPerKmMJ / ship.EnergyPerKmMJ
		} else {
			logger.Warn("ship has no energy intensity, newbuild energy left unscaled",
				zap.String("ship", class),
				zap.Float64("newbuild_energy_per_km", spec.EnergyPerKmMJ),
			)
		}
	}

	stream := ShipCostStream{
		Ship:     class,
		ECAShare: energy.share,
		Years:    make([]YearCosts, 0, len(years)),
	}

	for _, y := range years {
		pq, err := idx.FuelQuote(y, cfg.Primary)
		if err != nil {
			return ShipCostStream{}, err
		}
		sq, err := idx.FuelQuote(y, cfg.Secondary)
		if err != nil {
			return ShipCostStream{}, err
		}
		primaryPrice, _ := cfg.PrimaryPrices.At(y)
		secondaryPrice, _ := cfg.SecondaryPrices.At(y)
		co2Price, _ := cfg.CO2Prices.At(y)
		df := cfg.DiscountFactor(y)

		ecaE := energy.eca * ship.Voyages
		nonE := energy.nonECA * ship.Voyages
		active := ecaE+nonE > energyEpsilon

		yc := YearCosts{Year: y}

		// baseline
		maintenance := 0.0
		if active {
			maintenance = ship.PowerKW * (energy.share*pq.MaintenanceUSDPerKW + (1-energy.share)*sq.MaintenanceUSDPerKW)
		}
		yc.Baseline, err = mixedFuelCost(ecaE, nonE, pq, sq, primaryPrice, secondaryPrice, co2Price, maintenance, df)
		if err != nil {
			return ShipCostStream{}, fmt.Errorf("baseline %d: %w", y, err)
		}

		// retrofit, assumed installed; maintenance is unaffected
		opt := idx.Retrofit(class, y)
		keep := 1 - opt.SavingPct/100
		yc.Retrofit, err = mixedFuelCost(ecaE*keep, nonE*keep, pq, sq, primaryPrice, secondaryPrice, co2Price, maintenance, df)
		if err != nil {
			return ShipCostStream{}, fmt.Errorf("retrofit %d: %w", y, err)
		}
		yc.Retrofit.Capex = opt.CapexUSD * df

		// newbuild per alternative fuel, priced uniformly inside and outside ECAs
		yc.Newbuild = make(map[domain.FuelKind]CostBreakdown, len(alternatives))
		for _, f := range alternatives {
			q, err := idx.FuelQuote(y, f)
			if err != nil {
				return ShipCostStream{}, err
			}
			ecaN := ecaE * factor
			nonN := nonE * factor

			var b CostBreakdown
			if b.FuelECA, err = fuelCost(ecaN, q.EnergyMJPerKg, q.PriceUSDPerKg); err != nil {
				return ShipCostStream{}, fmt.Errorf("newbuild %s %d: %w", f, y, err)
			}
			if b.FuelNonECA, err = fuelCost(nonN, q.EnergyMJPerKg, q.PriceUSDPerKg); err != nil {
				return ShipCostStream{}, fmt.Errorf("newbuild %s %d: %w", f, y, err)
			}
			grams := 0.0
			if ecaN+nonN > energyEpsilon {
				grams = (ecaN + nonN) * q.CO2GramsPerMJ
				b.Maintenance = spec.PowerKW * q.MaintenanceUSDPerKW
			}
			b.EmissionsTonnes = grams / gramsPerTonne
			b.CO2 = b.EmissionsTonnes * co2Price
			b.FuelECA *= df
			b.FuelNonECA *= df
			b.CO2 *= df
			b.Maintenance *= df
			b.Capex = idx.NewbuildCapex(class, f, y) * df
			yc.Newbuild[f] = b
		}

		stream.Years = append(stream.Years, yc)
	}

	return stream, nil
}

// mixedFuelCost prices ECA energy at the primary fuel and non-ECA energy at
// the secondary fuel, then discounts every component.
func mixedFuelCost(
	ecaE, nonE float64,
	pq, sq domain.FuelQuote,
	primaryPrice, secondaryPrice, co2Price, maintenance, df float64,
) (CostBreakdown, error) {
	var b CostBreakdown
	var err error
	if b.FuelECA, err = fuelCost(ecaE, pq.EnergyMJPerKg, primaryPrice); err != nil {
		return CostBreakdown{}, fmt.Errorf("%s: %w", pq.Fuel, err)
	}
	if b.FuelNonECA, err = fuelCost(nonE, sq.EnergyMJPerKg, secondaryPrice); err != nil {
		return CostBreakdown{}, fmt.Errorf("%s: %w", sq.Fuel, err)
	}

	grams := 0.0
	if ecaE > energyEpsilon {
		grams += ecaE * pq.CO2GramsPerMJ
	}
	if nonE > energyEpsilon {
		grams += nonE * sq.CO2GramsPerMJ
	}
	b.EmissionsTonnes = grams / gramsPerTonne
	b.CO2 = b.EmissionsTonnes * co2Price * df
	b.FuelECA *= df
	b.FuelNonECA *= df
	b.Maintenance = maintenance * df
	return b, nil
}

// fuelCost converts energy (MJ) to fuel mass and prices it.
func fuelCost(energyMJ, mjPerKg, pricePerKg float64) (float64, error) {
	if energyMJ <= energyEpsilon {
		return 0, nil
	}
	if mjPerKg <= 0 {
		return 0, fmt.Errorf("%w: non-positive energy density %v", domain.ErrMissingReference, mjPerKg)
	}
	return energyMJ / mjPerKg * pricePerKg, nil
}

// At returns the costs of year y.
func (s ShipCostStream) At(year int) (YearCosts, bool) {
	if len(s.Years) == 0 {
		return YearCosts{}, false
	}
	i := year - s.Years[0].Year
	if i < 0 || i >= len(s.Years) || s.Years[i].Year != year {
		return YearCosts{}, false
	}
	return s.Years[i], true
}
