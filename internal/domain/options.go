package domain

// Turbocharger-type retrofit available for a ship class in a given year.
// SavingPct is a percentage (0..100) of fuel energy saved once installed.
type RetrofitOption struct {
	Class     string
	Year      int
	CapexUSD  float64
	SavingPct float64
}

// Capital cost of replacing a ship class by a newbuild running on Fuel.
type NewbuildOption struct {
	Class    string
	Fuel     FuelKind
	Year     int
	CapexUSD float64
}

// Hull and engine specs of the newbuild for a ship class (fuel independent).
type NewbuildSpec struct {
	Class         string
	EnergyPerKmMJ float64
	PowerKW       float64
}
