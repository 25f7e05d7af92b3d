package dto

import (
	"time"

	"fleet-transition-service/internal/domain"

	"github.com/shopspring/decimal"
)

type HorizonRequest struct {
	BaseYear     int `json:"base_year"`
	FirstYear    int `json:"first_year"`
	LastYear     int `json:"last_year"`
	DecisionStep int `json:"decision_step"`
}

// Price maps are year -> value anchors; omitted maps use the service defaults,
// or the reference tables when PriceSource is "reference".
type OptimizationRequest struct {
	PriceSource      string          `json:"price_source"`
	CO2Prices        map[int]float64 `json:"co2_prices"`
	PrimaryPrices    map[int]float64 `json:"primary_prices"`
	SecondaryPrices  map[int]float64 `json:"secondary_prices"`
	DiscountRate     *float64        `json:"discount_rate"`
	Horizon          *HorizonRequest `json:"horizon"`
	Alternatives     []string        `json:"alternatives"`
	IncludeEmissions bool            `json:"include_emissions"`
}

type ScenarioResponse struct {
	BaseYear     int      `json:"base_year"`
	FirstYear    int      `json:"first_year"`
	LastYear     int      `json:"last_year"`
	DecisionStep int      `json:"decision_step"`
	DiscountRate float64  `json:"discount_rate"`
	Primary      string   `json:"primary_fuel"`
	Secondary    string   `json:"secondary_fuel"`
	Alternatives []string `json:"alternatives"`
}

type CostsResponse struct {
	OptimizedNPV decimal.Decimal `json:"optimized_npv_usd"`
	BaselineNPV  decimal.Decimal `json:"baseline_npv_usd"`
}

type SavingsResponse struct {
	AbsoluteUSD decimal.Decimal `json:"absolute_usd"`
	Percent     decimal.Decimal `json:"percent"`
}

type EmissionsResponse struct {
	OptimizedTonnes decimal.Decimal `json:"optimized_tonnes"`
	BaselineTonnes  decimal.Decimal `json:"baseline_tonnes"`
}

type DecisionResponse struct {
	Ship         string `json:"ship"`
	RetrofitYear *int   `json:"retrofit_year"`
	NewbuildYear *int   `json:"newbuild_year"`
	NewbuildFuel string `json:"newbuild_fuel,omitempty"`
}

type OptimizationResponse struct {
	RunID        string             `json:"run_id"`
	CreatedAt    time.Time          `json:"created_at"`
	SolverStatus string             `json:"solver_status"`
	Scenario     ScenarioResponse   `json:"scenario"`
	Costs        CostsResponse      `json:"costs"`
	Savings      SavingsResponse    `json:"savings"`
	Decisions    []DecisionResponse `json:"decisions"`
	Emissions    *EmissionsResponse `json:"emissions,omitempty"`
}

// Cents rounds a USD figure half away from zero to two decimals.
func Cents(v float64) decimal.Decimal { return decimal.NewFromFloat(v).Round(2) }

func NewOptimizationResponse(r *domain.FleetReport) OptimizationResponse {
	res := OptimizationResponse{
		RunID:        r.RunID,
		CreatedAt:    r.CreatedAt,
		SolverStatus: r.SolverStatus,
		Scenario: ScenarioResponse{
			BaseYear:     r.Scenario.Horizon.BaseYear,
			FirstYear:    r.Scenario.Horizon.FirstYear,
			LastYear:     r.Scenario.Horizon.LastYear,
			DecisionStep: r.Scenario.Horizon.DecisionStep,
			DiscountRate: r.Scenario.DiscountRate,
			Primary:      string(r.Scenario.Primary),
			Secondary:    string(r.Scenario.Secondary),
			Alternatives: make([]string, 0, len(r.Scenario.Alternatives)),
		},
		Costs: CostsResponse{
			OptimizedNPV: Cents(r.Costs.OptimizedNPV),
			BaselineNPV:  Cents(r.Costs.BaselineNPV),
		},
		Savings: SavingsResponse{
			AbsoluteUSD: Cents(r.Savings.AbsoluteUSD),
			Percent:     Cents(r.Savings.Percent),
		},
		Decisions: make([]DecisionResponse, 0, len(r.Decisions)),
	}
	for _, f := range r.Scenario.Alternatives {
		res.Scenario.Alternatives = append(res.Scenario.Alternatives, string(f))
	}
	for _, d := range r.Decisions {
		res.Decisions = append(res.Decisions, DecisionResponse{
			Ship:         d.Ship,
			RetrofitYear: d.RetrofitYear,
			NewbuildYear: d.NewbuildYear,
			NewbuildFuel: string(d.NewbuildFuel),
		})
	}
	if r.Emissions != nil {
		res.Emissions = &EmissionsResponse{
			OptimizedTonnes: decimal.NewFromFloat(r.Emissions.OptimizedTonnes).Round(3),
			BaselineTonnes:  decimal.NewFromFloat(r.Emissions.BaselineTonnes).Round(3),
		}
	}
	return res
}
