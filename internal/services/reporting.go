package services

import (
	"fmt"

	"fleet-transition-service/internal/domain"
)

// BuildReport turns solved decisions into the cost comparison, savings and
// per-ship decision table. Emissions are read back from the cost streams
// only when requested.
func BuildReport(dec *Decisions, deltas []ShipDeltas, streams *CostStreams, withEmissions bool) (*domain.FleetReport, error) {
	if dec == nil {
		return nil, fmt.Errorf("build report: %w: decisions are nil", domain.ErrInvalidInput)
	}

	baseline := FleetBaselineNPV(deltas)
	report := &domain.FleetReport{
		Costs: domain.CostComparison{
			OptimizedNPV: dec.Objective,
			BaselineNPV:  baseline,
		},
		Savings:      ComputeSavings(baseline, dec.Objective),
		Decisions:    make([]domain.ShipDecision, 0, len(dec.Ships)),
		SolverStatus: dec.Status.String(),
	}

	for _, ship := range dec.Ships {
		d := domain.ShipDecision{Ship: ship}
		if y, ok := dec.Retrofit[ship]; ok {
			y := y
			d.RetrofitYear = &y
		}
		if nb, ok := dec.Newbuild[ship]; ok {
			y := nb.Year
			d.NewbuildYear = &y
			d.NewbuildFuel = nb.Fuel
		}
		report.Decisions = append(report.Decisions, d)
	}

	if withEmissions {
		if streams == nil {
			return nil, fmt.Errorf("build report: %w: emissions requested without cost streams", domain.ErrInvalidInput)
		}
		em := RealizedEmissions(streams, dec)
		report.Emissions = &em
	}

	return report, nil
}

// ComputeSavings is baseline minus optimized; the percentage is relative to
// the baseline and 0 when the baseline is 0.
func ComputeSavings(baseline, optimized float64) domain.Savings {
	s := domain.Savings{AbsoluteUSD: baseline - optimized}
	if baseline != 0 {
		s.Percent = s.AbsoluteUSD / baseline * 100
	}
	return s
}

// RealizedEmissions walks every horizon year of every ship and sums the
// emissions of the regime active in that year. A newbuild wins from its
// start year on, a retrofit applies from its own start year until then.
func RealizedEmissions(streams *CostStreams, dec *Decisions) domain.EmissionsComparison {
	var out domain.EmissionsComparison
	for _, s := range streams.Ships {
		retroYear, hasRetro := dec.Retrofit[s.Ship]
		nb, hasNew := dec.Newbuild[s.Ship]

		for _, yc := range s.Years {
			out.BaselineTonnes += yc.Baseline.EmissionsTonnes

			switch {
			case hasNew && yc.Year >= nb.Year:
				out.OptimizedTonnes += yc.Newbuild[nb.Fuel].EmissionsTonnes
			case hasRetro && yc.Year >= retroYear:
				out.OptimizedTonnes += yc.Retrofit.EmissionsTonnes
			default:
				out.OptimizedTonnes += yc.Baseline.EmissionsTonnes
			}
		}
	}
	return out
}
