package services

import (
	"context"
	"testing"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/milp"
	"fleet-transition-service/internal/platform/obs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var decisionYears = []int{2025, 2030}

func shipDeltas(ship string, baseline float64, retro [2]float64, lpg [2]float64) ShipDeltas {
	return ShipDeltas{
		Ship:        ship,
		BaselineNPV: baseline,
		Retrofit:    map[int]float64{2025: retro[0], 2030: retro[1]},
		Newbuild: map[int]map[domain.FuelKind]float64{
			2025: {domain.FuelLPG: lpg[0]},
			2030: {domain.FuelLPG: lpg[1]},
		},
	}
}

func solveDeltas(t *testing.T, deltas ...ShipDeltas) *Decisions {
	t.Helper()
	dm, err := BuildDecisionModel(deltas, decisionYears, []domain.FuelKind{domain.FuelLPG})
	require.NoError(t, err)
	dec, err := dm.Solve(context.Background(), milp.Options{})
	require.NoError(t, err)
	require.Equal(t, milp.StatusOptimal, dec.Status)
	return dec
}

func TestDecisionModelCombinesEarlyRetrofitWithLaterNewbuild(t *testing.T) {
	dec := solveDeltas(t, shipDeltas("A", 100, [2]float64{-10, -5}, [2]float64{-8, -20}))

	assert.Equal(t, 2025, dec.Retrofit["A"])
	assert.Equal(t, NewbuildChoice{Year: 2030, Fuel: domain.FuelLPG}, dec.Newbuild["A"])
	assert.InDelta(t, 70, dec.Objective, 1e-6)
	assert.InDelta(t, 100, dec.BaselineNPV, 1e-6)
}

func TestDecisionModelForbidsRetrofitAtOrAfterNewbuild(t *testing.T) {
	// retrofit 2030 + any newbuild, or retrofit 2025 + newbuild 2025, would
	// reach -45 or -21 but are excluded
	dec := solveDeltas(t, shipDeltas("A", 100, [2]float64{-1, -25}, [2]float64{-20, -2}))

	assert.Equal(t, 2030, dec.Retrofit["A"])
	assert.NotContains(t, dec.Newbuild, "A")
	assert.InDelta(t, 75, dec.Objective, 1e-6)
}

func TestDecisionModelSize(t *testing.T) {
	dm, err := BuildDecisionModel([]ShipDeltas{
		shipDeltas("A", 1, [2]float64{1, 1}, [2]float64{1, 1}),
		shipDeltas("B", 1, [2]float64{1, 1}, [2]float64{1, 1}),
	}, decisionYears, []domain.FuelKind{domain.FuelLPG})
	require.NoError(t, err)

	// per ship: 2 retrofit + 2 newbuild binaries; one_retrofit, one_newbuild
	// and one no_retrofit_after_newbuild row per decision year
	assert.Equal(t, 8, dm.NumVars())
	assert.Equal(t, 8, dm.NumConstraints())
}

func TestDecisionModelLogsSelectedVariables(t *testing.T) {
	dm, err := BuildDecisionModel(
		[]ShipDeltas{shipDeltas("A", 100, [2]float64{-10, -5}, [2]float64{-8, -20})},
		decisionYears, []domain.FuelKind{domain.FuelLPG},
	)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := obs.WithLogger(context.Background(), zap.New(core))
	_, err = dm.Solve(ctx, milp.Options{})
	require.NoError(t, err)

	var selected []string
	for _, e := range logs.FilterMessage("decision selected").All() {
		selected = append(selected, e.ContextMap()["var"].(string))
	}
	assert.Equal(t, []string{"retrofit[A,2025]", "newbuild[A,2030,Lpg]"}, selected)
}

func TestDecisionModelKeepsBaselineWhenNothingPays(t *testing.T) {
	dec := solveDeltas(t, shipDeltas("A", 42, [2]float64{3, 1}, [2]float64{5, 0.5}))

	assert.Empty(t, dec.Retrofit)
	assert.Empty(t, dec.Newbuild)
	assert.InDelta(t, 42, dec.Objective, 1e-6)
}

func TestDecisionModelIsSeparableAcrossShips(t *testing.T) {
	dec := solveDeltas(t,
		shipDeltas("A", 10, [2]float64{-1, 0.5}, [2]float64{1, 1}),
		shipDeltas("B", 20, [2]float64{1, 1}, [2]float64{-3, -7}),
		shipDeltas("C", 30, [2]float64{2, 2}, [2]float64{2, 2}),
	)

	assert.Equal(t, []string{"A", "B", "C"}, dec.Ships)
	assert.Equal(t, map[string]int{"A": 2025}, dec.Retrofit)
	assert.Equal(t, map[string]NewbuildChoice{"B": {Year: 2030, Fuel: domain.FuelLPG}}, dec.Newbuild)
	assert.InDelta(t, 60-1-7, dec.Objective, 1e-6)
}

func TestDecisionModelIsIdempotent(t *testing.T) {
	deltas := []ShipDeltas{
		shipDeltas("A", 10, [2]float64{-4, -4}, [2]float64{-4, -4}),
		shipDeltas("B", 20, [2]float64{-2, -3}, [2]float64{-9, -1}),
	}

	first := solveDeltas(t, deltas...)
	second := solveDeltas(t, deltas...)

	assert.Equal(t, first.Objective, second.Objective)
	assert.Equal(t, first.Retrofit, second.Retrofit)
	assert.Equal(t, first.Newbuild, second.Newbuild)
}

func TestDecisionModelSolutionsRespectExclusivity(t *testing.T) {
	deltas := []ShipDeltas{
		shipDeltas("A", 0, [2]float64{-5, -6}, [2]float64{-7, -8}),
		shipDeltas("B", 0, [2]float64{-9, -1}, [2]float64{-1, -9}),
		shipDeltas("C", 0, [2]float64{-3, -3}, [2]float64{-3, -3}),
	}
	dec := solveDeltas(t, deltas...)

	for _, ship := range dec.Ships {
		ry, hasRetro := dec.Retrofit[ship]
		nb, hasNew := dec.Newbuild[ship]
		if hasRetro && hasNew {
			assert.Less(t, ry, nb.Year, "ship %s", ship)
		}
	}
}

func TestBuildDecisionModelErrors(t *testing.T) {
	fuels := []domain.FuelKind{domain.FuelLPG}

	_, err := BuildDecisionModel(nil, nil, fuels)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	dup := shipDeltas("A", 0, [2]float64{}, [2]float64{})
	_, err = BuildDecisionModel([]ShipDeltas{dup, dup}, decisionYears, fuels)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = BuildDecisionModel([]ShipDeltas{dup}, []int{2025, 2035}, fuels)
	require.Error(t, err)

	_, err = BuildDecisionModel([]ShipDeltas{dup}, decisionYears, []domain.FuelKind{domain.FuelGreenAmmonia})
	require.Error(t, err)
}

func TestDecisionModelWithoutAlternatives(t *testing.T) {
	d := ShipDeltas{Ship: "A", BaselineNPV: 5, Retrofit: map[int]float64{2025: -1, 2030: -2}}

	dm, err := BuildDecisionModel([]ShipDeltas{d}, decisionYears, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, dm.NumVars())

	dec, err := dm.Solve(context.Background(), milp.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2030, dec.Retrofit["A"])
	assert.InDelta(t, 3, dec.Objective, 1e-6)
}

func TestDecisionModelSolveHonoursCancellation(t *testing.T) {
	dm, err := BuildDecisionModel(
		[]ShipDeltas{shipDeltas("A", 0, [2]float64{-1, -1}, [2]float64{-1, -1})},
		decisionYears, []domain.FuelKind{domain.FuelLPG},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = dm.Solve(ctx, milp.Options{})
	require.ErrorIs(t, err, context.Canceled)
}
