package services

import (
	"context"
	"fmt"
	"time"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/milp"
	"fleet-transition-service/internal/platform/obs"
	"fleet-transition-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PriceAnchors are sparse year -> price points; each horizon year takes the
// latest anchor at or before it.
type PriceAnchors map[int]float64

type OptimizeFleetRequest struct {
	Scenario domain.Scenario

	// Empty anchors fall back to the reference data: the CO2 price table
	// and the quoted price of the primary/secondary fuel.
	CO2       PriceAnchors
	Primary   PriceAnchors
	Secondary PriceAnchors

	IncludeEmissions bool
	Solver           milp.Options
}

// OptimizeFleet runs one full optimization: reference data, cost streams,
// deltas, decision model, report. A nil store skips persistence.
func OptimizeFleet(
	ctx context.Context,
	req OptimizeFleetRequest,
	source ports.ReferenceSource,
	store ports.RunStore,
) (report *domain.FleetReport, err error) {
	defer obs.Time(ctx, "optimize_fleet")(&err)
	logger := obs.FromContext(ctx)

	if source == nil {
		return nil, fmt.Errorf("optimize fleet: %w: reference source is nil", domain.ErrInvalidInput)
	}
	if err := req.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}
	scenario := req.Scenario.Normalized()

	ref, err := source.LoadReferenceData(ctx)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: load reference data: %w", err)
	}
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}

	cfg, err := buildCostConfig(scenario, req, ref)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}

	streams, err := BuildCostStreams(ref, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}

	decisionYears := scenario.Horizon.DecisionYears()
	deltas, err := AggregateDeltas(streams, decisionYears)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}

	model, err := BuildDecisionModel(deltas, decisionYears, streams.Alternatives)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}
	logger.Debug("decision model built",
		zap.Int("ships", len(deltas)),
		zap.Int("decision_years", len(decisionYears)),
		zap.Int("vars", model.NumVars()),
		zap.Int("constraints", model.NumConstraints()),
	)

	dec, err := model.Solve(ctx, req.Solver)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}

	report, err = BuildReport(dec, deltas, streams, req.IncludeEmissions)
	if err != nil {
		return nil, fmt.Errorf("optimize fleet: %w", err)
	}
	report.RunID = uuid.NewString()
	report.CreatedAt = time.Now().UTC()
	report.Scenario = scenario

	logger.Info("fleet optimized",
		zap.String("run_id", report.RunID),
		zap.Float64("optimized_npv", report.Costs.OptimizedNPV),
		zap.Float64("baseline_npv", report.Costs.BaselineNPV),
		zap.Int("nodes", dec.Nodes),
	)

	if store != nil {
		if err := store.SaveRun(ctx, report); err != nil {
			return nil, fmt.Errorf("optimize fleet: save run %s: %w", report.RunID, err)
		}
	}

	return report, nil
}

func buildCostConfig(scenario domain.Scenario, req OptimizeFleetRequest, ref *domain.ReferenceData) (CostConfig, error) {
	years := scenario.Horizon.Years()

	co2Anchors := map[int]float64(req.CO2)
	if len(co2Anchors) == 0 {
		co2Anchors = ref.CO2Prices
	}
	co2, err := domain.ExpandAnchors(co2Anchors, years)
	if err != nil {
		return CostConfig{}, fmt.Errorf("co2 prices: %w", err)
	}

	idx := ref.Index()
	primary, err := fuelPrices(req.Primary, scenario.Primary, years, idx)
	if err != nil {
		return CostConfig{}, fmt.Errorf("primary prices: %w", err)
	}
	secondary, err := fuelPrices(req.Secondary, scenario.Secondary, years, idx)
	if err != nil {
		return CostConfig{}, fmt.Errorf("secondary prices: %w", err)
	}

	return CostConfig{
		Horizon:         scenario.Horizon,
		DiscountRate:    scenario.DiscountRate,
		Primary:         scenario.Primary,
		Secondary:       scenario.Secondary,
		Alternatives:    scenario.Alternatives,
		CO2Prices:       co2,
		PrimaryPrices:   primary,
		SecondaryPrices: secondary,
	}, nil
}

func fuelPrices(anchors PriceAnchors, fuel domain.FuelKind, years []int, idx *domain.ReferenceIndex) (domain.PriceCurve, error) {
	if len(anchors) > 0 {
		return domain.ExpandAnchors(anchors, years)
	}
	curve := make(domain.PriceCurve, len(years))
	for _, y := range years {
		q, err := idx.FuelQuote(y, fuel)
		if err != nil {
			return nil, err
		}
		curve[y] = q.PriceUSDPerKg
	}
	return curve, nil
}
