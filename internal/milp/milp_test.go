package milp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveChoosesCheapestExclusiveOption(t *testing.T) {
	m := NewModel("pick-one")
	a := m.AddBinary("a")
	b := m.AddBinary("b")
	c := m.AddBinary("c")

	require.NoError(t, m.AddConstraint("one", []Term{{a, 1}, {b, 1}, {c, 1}}, LessEq, 1))
	require.NoError(t, m.SetObjective(10, []Term{{a, -3}, {b, -7}, {c, 2}}))

	sol, err := m.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.InDelta(t, 3, sol.Objective, 1e-9)
	assert.Equal(t, 0.0, sol.Value(a))
	assert.Equal(t, 1.0, sol.Value(b))
	assert.Equal(t, 0.0, sol.Value(c))
}

func TestSolveKnapsack(t *testing.T) {
	// max 10x1 + 13x2 + 7x3 + 8x4  s.t. 4x1 + 6x2 + 3x3 + 5x4 <= 10
	m := NewModel("knapsack")
	values := []float64{10, 13, 7, 8}
	weights := []float64{4, 6, 3, 5}

	var obj, weightTerms []Term
	vars := make([]Var, len(values))
	for i := range values {
		vars[i] = m.AddBinary("x")
		obj = append(obj, Term{vars[i], -values[i]})
		weightTerms = append(weightTerms, Term{vars[i], weights[i]})
	}
	require.NoError(t, m.AddConstraint("capacity", weightTerms, LessEq, 10))
	require.NoError(t, m.SetObjective(0, obj))

	sol, err := m.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	// best is items 1 and 2 (weight 10, value 23)
	assert.InDelta(t, -23, sol.Objective, 1e-9)
	assert.Equal(t, []float64{1, 1, 0, 0}, sol.Values())
	assert.True(t, m.Feasible(sol.Values(), 1e-9))
	assert.InDelta(t, sol.Objective, m.Evaluate(sol.Values()), 1e-9)
	assert.False(t, m.Feasible([]float64{1, 1, 1, 0}, 1e-9))

	assert.Equal(t, 4, m.NumVars())
	assert.Equal(t, 1, m.NumConstraints())
	assert.Equal(t, "x", m.VarName(vars[0]))
	assert.Empty(t, m.VarName(Var(len(values))))
}

func TestSolveEqualityAndGreaterEq(t *testing.T) {
	m := NewModel("cover")
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	z := m.AddBinary("z")

	require.NoError(t, m.AddConstraint("exactly-two", []Term{{x, 1}, {y, 1}, {z, 1}}, Equal, 2))
	require.NoError(t, m.AddConstraint("need-x-or-z", []Term{{x, 1}, {z, 1}}, GreaterEq, 1))
	require.NoError(t, m.SetObjective(0, []Term{{x, 5}, {y, 1}, {z, 3}}))

	sol, err := m.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.InDelta(t, 4, sol.Objective, 1e-9)
	assert.Equal(t, []float64{0, 1, 1}, sol.Values())
}

func TestSolveInfeasible(t *testing.T) {
	m := NewModel("infeasible")
	x := m.AddBinary("x")
	y := m.AddBinary("y")

	require.NoError(t, m.AddConstraint("both", []Term{{x, 1}, {y, 1}}, GreaterEq, 3))
	require.NoError(t, m.SetObjective(0, []Term{{x, 1}}))

	sol, err := m.Solve(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolveEmptyRowInfeasible(t *testing.T) {
	m := NewModel("empty-row")
	m.AddBinary("x")
	require.NoError(t, m.AddConstraint("impossible", nil, LessEq, -1))

	sol, err := m.Solve(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolveSplitsIndependentBlocks(t *testing.T) {
	m := NewModel("blocks")
	var obj []Term
	for i := 0; i < 20; i++ {
		a := m.AddBinary("a")
		b := m.AddBinary("b")
		require.NoError(t, m.AddConstraint("pair", []Term{{a, 1}, {b, 1}}, LessEq, 1))
		obj = append(obj, Term{a, -1}, Term{b, -2})
	}
	lonely := m.AddBinary("lonely")
	obj = append(obj, Term{lonely, -0.5})
	require.NoError(t, m.SetObjective(100, obj))

	sol, err := m.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.Equal(t, 21, sol.Blocks)
	assert.InDelta(t, 100-40-0.5, sol.Objective, 1e-9)
	assert.Equal(t, 1.0, sol.Value(lonely))
}

func TestSolveIsDeterministicOnTies(t *testing.T) {
	build := func() (*Model, []Var) {
		m := NewModel("ties")
		vs := []Var{m.AddBinary("a"), m.AddBinary("b"), m.AddBinary("c")}
		_ = m.AddConstraint("one", []Term{{vs[0], 1}, {vs[1], 1}, {vs[2], 1}}, LessEq, 1)
		_ = m.SetObjective(0, []Term{{vs[0], -4}, {vs[1], -4}, {vs[2], -4}})
		return m, vs
	}

	m1, _ := build()
	m2, _ := build()
	s1, err := m1.Solve(context.Background(), Options{})
	require.NoError(t, err)
	s2, err := m2.Solve(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, s1.Values(), s2.Values())
	assert.Equal(t, s1.Objective, s2.Objective)
	assert.InDelta(t, 1, s1.Values()[0]+s1.Values()[1]+s1.Values()[2], 1e-12)
}

func TestSolveHonoursCancelledContext(t *testing.T) {
	m := NewModel("cancelled")
	x := m.AddBinary("x")
	require.NoError(t, m.SetObjective(0, []Term{{x, -1}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := m.Solve(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "solve cancelled")
	assert.Equal(t, StatusAborted, sol.Status)
}

func TestSolveNodeLimitKeepsIncumbent(t *testing.T) {
	m := NewModel("limited")
	var obj, weightTerms []Term
	for i := 0; i < 12; i++ {
		v := m.AddBinary("x")
		obj = append(obj, Term{v, -float64(i%5 + 1)})
		weightTerms = append(weightTerms, Term{v, float64(i%3 + 2)})
	}
	require.NoError(t, m.AddConstraint("capacity", weightTerms, LessEq, 7.5))
	require.NoError(t, m.SetObjective(0, obj))

	sol, err := m.Solve(context.Background(), Options{MaxNodes: 1})
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusNodeLimit, StatusOptimal}, sol.Status)
	assert.True(t, m.Feasible(sol.Values(), 1e-9))
}

func TestAddConstraintRejectsUnknownVar(t *testing.T) {
	m := NewModel("bad")
	assert.Error(t, m.AddConstraint("c", []Term{{Var(3), 1}}, LessEq, 1))
	assert.Error(t, m.SetObjective(0, []Term{{Var(0), 1}}))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "<=", LessEq.String())
}
