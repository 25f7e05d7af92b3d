package milp

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Status of a solve.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusInfeasible
	StatusNodeLimit
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusNotSolved:
		return "not_solved"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusNodeLimit:
		return "node_limit"
	case StatusAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

const defaultTolerance = 1e-7

// Options tune the branch-and-bound search.
type Options struct {
	// MaxNodes caps explored nodes per block; 0 means unlimited.
	MaxNodes int
	// Tolerance for constraint activity and objective comparisons.
	Tolerance float64
}

// Solution of a Model. Values are only meaningful for StatusOptimal and
// StatusNodeLimit (best found so far).
type Solution struct {
	Status    Status
	Objective float64
	Nodes     int
	Blocks    int
	values    []float64
}

func (s *Solution) Value(v Var) float64 {
	if s == nil || int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

// Values returns a copy of the variable assignment.
func (s *Solution) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Solve minimizes the model objective. A cancelled context stops the search
// with StatusAborted and the context error.
func (m *Model) Solve(ctx context.Context, opts Options) (*Solution, error) {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}

	rows := m.rows()
	sol := &Solution{Status: StatusOptimal, values: make([]float64, len(m.vars))}

	// Rows without variables are either trivially true or make the model infeasible.
	for _, r := range rows {
		if len(r.terms) == 0 && r.rhs < -tol {
			sol.Status = StatusInfeasible
			sol.Objective = math.NaN()
			return sol, nil
		}
	}

	blocks := splitBlocks(len(m.vars), rows)
	sol.Blocks = len(blocks)
	objective := m.objConst

	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			sol.Status = StatusAborted
			return sol, fmt.Errorf("solve %s: %w", m.name, err)
		}

		bs := newBlockSolver(ctx, m, b, tol, opts.MaxNodes)
		bs.solve()
		sol.Nodes += bs.nodes

		if bs.aborted {
			sol.Status = StatusAborted
			return sol, fmt.Errorf("solve %s: %w", m.name, ctx.Err())
		}
		if !bs.hasBest {
			if bs.limitHit {
				sol.Status = StatusNodeLimit
				sol.Objective = math.NaN()
				return sol, nil
			}
			sol.Status = StatusInfeasible
			sol.Objective = math.NaN()
			return sol, nil
		}
		if bs.limitHit {
			sol.Status = StatusNodeLimit
		}

		for local, global := range b.vars {
			sol.values[global] = bs.best[local]
		}
		objective += bs.bestObj
	}

	sol.Objective = objective
	return sol, nil
}

// block is a set of variables linked through shared rows.
type block struct {
	vars []int
	rows []row
}

// splitBlocks groups variables into connected components of the row graph.
// Blocks are ordered by their smallest variable index.
func splitBlocks(n int, rows []row) []block {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	for _, r := range rows {
		for i := 1; i < len(r.terms); i++ {
			union(r.terms[0].idx, r.terms[i].idx)
		}
	}

	byRoot := make(map[int]*block)
	roots := make([]int, 0)
	for i := 0; i < n; i++ {
		root := find(i)
		b, ok := byRoot[root]
		if !ok {
			b = &block{}
			byRoot[root] = b
			roots = append(roots, root)
		}
		b.vars = append(b.vars, i)
	}
	for _, r := range rows {
		if len(r.terms) == 0 {
			continue
		}
		b := byRoot[find(r.terms[0].idx)]
		b.rows = append(b.rows, r)
	}

	sort.Ints(roots)
	out := make([]block, 0, len(roots))
	for _, root := range roots {
		out = append(out, *byRoot[root])
	}
	return out
}
