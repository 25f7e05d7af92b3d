package dto

type ShipResponse struct {
	Class            string  `json:"class"`
	Voyages          float64 `json:"voyages"`
	PowerKW          float64 `json:"power_kw"`
	EnergyPerKmMJ    float64 `json:"energy_per_km_mj"`
	VoyageDistanceKm float64 `json:"voyage_distance_km,omitempty"`
	VoyageEnergyMJ   float64 `json:"voyage_energy_mj"`
	ECAShare         float64 `json:"eca_share"`
}

type ListShipsResponse struct {
	Ships []ShipResponse `json:"ships"`
}
