package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/milp"
	"fleet-transition-service/internal/platform/obs"

	"go.uber.org/zap"
)

const solutionTolerance = 1e-6

// ErrNotOptimal is returned when the solver does not prove optimality.
// The all-zero decision is always feasible, so this signals a data or
// encoding defect rather than a legitimate outcome.
var ErrNotOptimal = errors.New("decision model not optimal")

type retrofitKey struct {
	ship string
	year int
}

type newbuildKey struct {
	ship string
	year int
	fuel domain.FuelKind
}

// DecisionModel is the binary transition model of one run.
//
// retrofit[s,y] = 1 starts a retrofit of ship s in year y, newbuild[s,y,f] = 1
// replaces s in year y by a newbuild on fuel f. The objective multiplies each
// precomputed delta by exactly one start binary, so it stays linear.
type DecisionModel struct {
	model    *milp.Model
	ships    []string
	years    []int
	fuels    []domain.FuelKind
	baseline float64
	retrofit map[retrofitKey]milp.Var
	newbuild map[newbuildKey]milp.Var
}

// NewbuildChoice is the selected replacement of a ship.
type NewbuildChoice struct {
	Year int
	Fuel domain.FuelKind
}

// Decisions read back from a solved DecisionModel.
type Decisions struct {
	Status      milp.Status
	Objective   float64
	BaselineNPV float64
	Ships       []string
	Retrofit    map[string]int
	Newbuild    map[string]NewbuildChoice
	Nodes       int
}

func BuildDecisionModel(deltas []ShipDeltas, years []int, fuels []domain.FuelKind) (*DecisionModel, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("build decision model: %w: no decision years", domain.ErrInvalidInput)
	}
	sortedYears := append([]int(nil), years...)
	sort.Ints(sortedYears)

	dm := &DecisionModel{
		model:    milp.NewModel("fleet_transition"),
		years:    sortedYears,
		fuels:    append([]domain.FuelKind(nil), fuels...),
		baseline: FleetBaselineNPV(deltas),
		retrofit: make(map[retrofitKey]milp.Var),
		newbuild: make(map[newbuildKey]milp.Var),
	}

	var objective []milp.Term
	for _, d := range deltas {
		if _, dup := dm.retrofit[retrofitKey{d.Ship, sortedYears[0]}]; dup {
			return nil, fmt.Errorf("build decision model: %w: duplicate ship %q", domain.ErrInvalidInput, d.Ship)
		}
		dm.ships = append(dm.ships, d.Ship)

		for _, y := range sortedYears {
			delta, ok := d.Retrofit[y]
			if !ok {
				return nil, fmt.Errorf("build decision model: missing retrofit delta %s/%d", d.Ship, y)
			}
			v := dm.model.AddBinary(fmt.Sprintf("retrofit[%s,%d]", d.Ship, y))
			dm.retrofit[retrofitKey{d.Ship, y}] = v
			objective = append(objective, milp.Term{Var: v, Coef: delta})

			for _, f := range dm.fuels {
				delta, ok := d.Newbuild[y][f]
				if !ok {
					return nil, fmt.Errorf("build decision model: missing newbuild delta %s/%d/%s", d.Ship, y, f)
				}
				v := dm.model.AddBinary(fmt.Sprintf("newbuild[%s,%d,%s]", d.Ship, y, f))
				dm.newbuild[newbuildKey{d.Ship, y, f}] = v
				objective = append(objective, milp.Term{Var: v, Coef: delta})
			}
		}

		if err := dm.addShipConstraints(d.Ship); err != nil {
			return nil, fmt.Errorf("build decision model: %w", err)
		}
	}

	if err := dm.model.SetObjective(dm.baseline, objective); err != nil {
		return nil, fmt.Errorf("build decision model: %w", err)
	}
	return dm, nil
}

func (dm *DecisionModel) addShipConstraints(ship string) error {
	retro := make([]milp.Term, 0, len(dm.years))
	nb := make([]milp.Term, 0, len(dm.years)*len(dm.fuels))
	for _, y := range dm.years {
		retro = append(retro, milp.Term{Var: dm.retrofit[retrofitKey{ship, y}], Coef: 1})
		for _, f := range dm.fuels {
			nb = append(nb, milp.Term{Var: dm.newbuild[newbuildKey{ship, y, f}], Coef: 1})
		}
	}

	if err := dm.model.AddConstraint("one_retrofit["+ship+"]", retro, milp.LessEq, 1); err != nil {
		return err
	}
	if len(nb) > 0 {
		if err := dm.model.AddConstraint("one_newbuild["+ship+"]", nb, milp.LessEq, 1); err != nil {
			return err
		}
	}

	// retrofit[s,y] <= 1 - sum_{y'<=y, f} newbuild[s,y',f]
	var earlier []milp.Term
	for _, y := range dm.years {
		for _, f := range dm.fuels {
			earlier = append(earlier, milp.Term{Var: dm.newbuild[newbuildKey{ship, y, f}], Coef: 1})
		}
		if len(earlier) == 0 {
			continue
		}
		terms := append([]milp.Term{{Var: dm.retrofit[retrofitKey{ship, y}], Coef: 1}}, earlier...)
		name := fmt.Sprintf("no_retrofit_after_newbuild[%s,%d]", ship, y)
		if err := dm.model.AddConstraint(name, terms, milp.LessEq, 1); err != nil {
			return err
		}
	}
	return nil
}

func (dm *DecisionModel) NumVars() int        { return dm.model.NumVars() }
func (dm *DecisionModel) NumConstraints() int { return dm.model.NumConstraints() }

// Solve runs the solver once. Anything but an optimal status fails the run.
func (dm *DecisionModel) Solve(ctx context.Context, opts milp.Options) (*Decisions, error) {
	sol, err := dm.model.Solve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("solve decision model: %w", err)
	}
	if sol.Status != milp.StatusOptimal {
		return nil, fmt.Errorf("solve decision model: %w (status %s)", ErrNotOptimal, sol.Status)
	}

	values := sol.Values()
	if !dm.model.Feasible(values, solutionTolerance) {
		return nil, fmt.Errorf("solve decision model: solution violates a constraint")
	}
	if obj := dm.model.Evaluate(values); math.Abs(obj-sol.Objective) > solutionTolerance*math.Max(1, math.Abs(obj)) {
		return nil, fmt.Errorf("solve decision model: objective %v does not match assignment value %v", sol.Objective, obj)
	}
	logger := obs.FromContext(ctx)

	dec := &Decisions{
		Status:      sol.Status,
		Objective:   sol.Objective,
		BaselineNPV: dm.baseline,
		Ships:       append([]string(nil), dm.ships...),
		Retrofit:    make(map[string]int),
		Newbuild:    make(map[string]NewbuildChoice),
		Nodes:       sol.Nodes,
	}

	for _, ship := range dm.ships {
		for _, y := range dm.years {
			if v := dm.retrofit[retrofitKey{ship, y}]; sol.Value(v) > 0.5 {
				logger.Debug("decision selected", zap.String("var", dm.model.VarName(v)))
				if prev, dup := dec.Retrofit[ship]; dup {
					return nil, fmt.Errorf("solve decision model: ship %q retrofits in %d and %d", ship, prev, y)
				}
				dec.Retrofit[ship] = y
			}
			for _, f := range dm.fuels {
				if v := dm.newbuild[newbuildKey{ship, y, f}]; sol.Value(v) > 0.5 {
					logger.Debug("decision selected", zap.String("var", dm.model.VarName(v)))
					if prev, dup := dec.Newbuild[ship]; dup {
						return nil, fmt.Errorf("solve decision model: ship %q replaced in %d and %d", ship, prev.Year, y)
					}
					dec.Newbuild[ship] = NewbuildChoice{Year: y, Fuel: f}
				}
			}
		}
		ry, hasRetro := dec.Retrofit[ship]
		nb, hasNew := dec.Newbuild[ship]
		if hasRetro && hasNew && ry >= nb.Year {
			return nil, fmt.Errorf("solve decision model: ship %q retrofits in %d after newbuild in %d", ship, ry, nb.Year)
		}
	}

	return dec, nil
}
