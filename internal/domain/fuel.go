package domain

// Per (year, fuel) reference quote.
type FuelQuote struct {
	Year                int
	Fuel                FuelKind
	EnergyMJPerKg       float64
	PriceUSDPerKg       float64
	CO2GramsPerMJ       float64
	MaintenanceUSDPerKW float64
}
