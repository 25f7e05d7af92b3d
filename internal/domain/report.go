package domain

import "time"

// Chosen transitions for one ship. Nil years mean "never".
type ShipDecision struct {
	Ship         string
	RetrofitYear *int
	NewbuildYear *int
	NewbuildFuel FuelKind
}

// Optimized vs. do-nothing lifecycle cost (USD, discounted).
type CostComparison struct {
	OptimizedNPV float64
	BaselineNPV  float64
}

type Savings struct {
	AbsoluteUSD float64
	Percent     float64
}

// Cumulative tonnes of CO2 over the horizon.
type EmissionsComparison struct {
	OptimizedTonnes float64
	BaselineTonnes  float64
}

// Outcome of one fleet optimization run.
type FleetReport struct {
	RunID        string
	CreatedAt    time.Time
	Scenario     Scenario
	Costs        CostComparison
	Savings      Savings
	Decisions    []ShipDecision
	Emissions    *EmissionsComparison
	SolverStatus string
}
