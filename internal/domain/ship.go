package domain

// Represents one ship class of the fleet with its baseline specs.
//
// Route holds the aggregated wake-to-wheel energy of a single voyage.
// VoyageDistanceKm is optional and only consulted when no route data exists
// for the ship.
type Ship struct {
	Class            string
	Voyages          float64
	PowerKW          float64
	EnergyPerKmMJ    float64
	VoyageDistanceKm float64
	Route            RouteAggregate
}

// Energy of one voyage split into the ECA and non-ECA parts.
type RouteAggregate struct {
	VoyageEnergyMJ float64
	ECAEnergyMJ    float64
}

func (r RouteAggregate) NonECAEnergyMJ() float64 { return r.VoyageEnergyMJ - r.ECAEnergyMJ }

// ECAShare is the fraction of voyage energy consumed inside emission control areas.
func (r RouteAggregate) ECAShare() float64 {
	if r.VoyageEnergyMJ <= 0 {
		return 0
	}
	return clamp01(r.ECAEnergyMJ / r.VoyageEnergyMJ)
}

// HasEnergy reports whether any route energy has been recorded.
func (r RouteAggregate) HasEnergy() bool { return r.VoyageEnergyMJ > 0 }

// A single route leg as delivered by the route workbook.
type RouteLeg struct {
	Ship          string
	NauticalMiles float64
	ECAShare      float64
	EnergyMJ      float64
}

// AggregateRoutes sums route legs per ship. The ECA energy of a leg is its
// energy weighted by its ECA share. Legs without a ship name are ignored.
func AggregateRoutes(legs []RouteLeg) map[string]RouteAggregate {
	out := make(map[string]RouteAggregate)
	for _, leg := range legs {
		name := NormalizeName(leg.Ship)
		if name == "" {
			continue
		}
		agg := out[name]
		agg.VoyageEnergyMJ += leg.EnergyMJ
		agg.ECAEnergyMJ += leg.EnergyMJ * clamp01(leg.ECAShare)
		out[name] = agg
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
