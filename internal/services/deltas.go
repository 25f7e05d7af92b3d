package services

import (
	"fmt"

	"fleet-transition-service/internal/domain"
)

// ShipDeltas are the decision-ready NPV figures of one ship: the do-nothing
// NPV and, per start year (and fuel), the NPV change of switching regime
// from that year onward.
type ShipDeltas struct {
	Ship        string
	BaselineNPV float64
	Retrofit    map[int]float64
	Newbuild    map[int]map[domain.FuelKind]float64
}

// AggregateDeltas reduces cost streams to baseline NPVs and start-year deltas.
//
//	retrofit[y0] = sum_{y>=y0} (retrofitOperating[y] - baseline[y]) + retrofitCapex[y0]
//
// and analogously for every newbuild fuel. Capex enters once, at the start year.
func AggregateDeltas(streams *CostStreams, decisionYears []int) ([]ShipDeltas, error) {
	if streams == nil {
		return nil, fmt.Errorf("aggregate deltas: %w: cost streams are nil", domain.ErrInvalidInput)
	}

	out := make([]ShipDeltas, 0, len(streams.Ships))
	for _, s := range streams.Ships {
		n := len(s.Years)

		// suffix sums of operating differences, index i covers years[i:]
		retroSuffix := make([]float64, n+1)
		newSuffix := make(map[domain.FuelKind][]float64, len(streams.Alternatives))
		for _, f := range streams.Alternatives {
			newSuffix[f] = make([]float64, n+1)
		}

		baseline := 0.0
		for i := n - 1; i >= 0; i-- {
			yc := s.Years[i]
			base := yc.Baseline.Total()
			baseline += base
			retroSuffix[i] = retroSuffix[i+1] + yc.Retrofit.Operating() - base
			for _, f := range streams.Alternatives {
				newSuffix[f][i] = newSuffix[f][i+1] + yc.Newbuild[f].Operating() - base
			}
		}

		d := ShipDeltas{
			Ship:        s.Ship,
			BaselineNPV: baseline,
			Retrofit:    make(map[int]float64, len(decisionYears)),
			Newbuild:    make(map[int]map[domain.FuelKind]float64, len(decisionYears)),
		}
		for _, y0 := range decisionYears {
			yc, ok := s.At(y0)
			if !ok {
				return nil, fmt.Errorf(
					"aggregate deltas: %w: decision year %d outside cost horizon of ship %q",
					domain.ErrInvalidInput, y0, s.Ship,
				)
			}
			i := y0 - s.Years[0].Year

			d.Retrofit[y0] = retroSuffix[i] + yc.Retrofit.Capex
			d.Newbuild[y0] = make(map[domain.FuelKind]float64, len(streams.Alternatives))
			for _, f := range streams.Alternatives {
				d.Newbuild[y0][f] = newSuffix[f][i] + yc.Newbuild[f].Capex
			}
		}
		out = append(out, d)
	}

	return out, nil
}

// FleetBaselineNPV sums the do-nothing NPV over the fleet.
func FleetBaselineNPV(deltas []ShipDeltas) float64 {
	total := 0.0
	for _, d := range deltas {
		total += d.BaselineNPV
	}
	return total
}
