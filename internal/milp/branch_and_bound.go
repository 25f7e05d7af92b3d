package milp

import (
	"context"
	"math"
)

const (
	free   int8 = -1
	fixed0 int8 = 0
	fixed1 int8 = 1
)

// integrality tolerance for LP relaxation values
const intTol = 1e-6

type blockSolver struct {
	ctx      context.Context
	tol      float64
	maxNodes int

	cost []float64
	rows []row // local indices

	nodes    int
	limitHit bool
	aborted  bool

	hasBest bool
	best    []float64
	bestObj float64
}

func newBlockSolver(ctx context.Context, m *Model, b block, tol float64, maxNodes int) *blockSolver {
	local := make(map[int]int, len(b.vars))
	cost := make([]float64, len(b.vars))
	for i, g := range b.vars {
		local[g] = i
		cost[i] = m.obj[g]
	}

	rows := make([]row, len(b.rows))
	for i, r := range b.rows {
		lr := row{name: r.name, rhs: r.rhs, terms: make([]rowTerm, len(r.terms))}
		for k, t := range r.terms {
			lr.terms[k] = rowTerm{idx: local[t.idx], coef: t.coef}
		}
		rows[i] = lr
	}

	return &blockSolver{ctx: ctx, tol: tol, maxNodes: maxNodes, cost: cost, rows: rows}
}

func (s *blockSolver) solve() {
	n := len(s.cost)

	// The all-zero point is a cheap first incumbent whenever it is feasible.
	zero := make([]int8, n)
	if s.feasible(zero) {
		s.offer(zero)
	}

	root := make([]int8, n)
	for i := range root {
		root[i] = free
	}
	s.branch(root)
}

func (s *blockSolver) stopped() bool {
	if s.aborted || s.limitHit {
		return true
	}
	if s.ctx.Err() != nil {
		s.aborted = true
		return true
	}
	if s.maxNodes > 0 && s.nodes >= s.maxNodes {
		s.limitHit = true
		return true
	}
	return false
}

func (s *blockSolver) branch(assign []int8) {
	if s.stopped() {
		return
	}
	s.nodes++

	if !s.propagate(assign) {
		return
	}

	fixedObj := 0.0
	freeIdx := make([]int, 0, len(assign))
	for j, a := range assign {
		switch a {
		case fixed1:
			fixedObj += s.cost[j]
		case free:
			freeIdx = append(freeIdx, j)
		}
	}

	if len(freeIdx) == 0 {
		s.offer(assign)
		return
	}

	bound, lpX, status := s.relax(assign, freeIdx)
	if status == relaxInfeasible {
		return
	}
	if status == relaxFailed {
		bound = 0
		for _, j := range freeIdx {
			bound += math.Min(0, s.cost[j])
		}
		lpX = nil
	}
	bound += fixedObj

	if s.hasBest && bound >= s.bestObj-s.tol {
		return
	}

	if lpX != nil {
		if candidate, ok := s.rounded(assign, freeIdx, lpX); ok {
			s.offer(candidate)
			return
		}
	}

	pick, first := s.choose(freeIdx, lpX)
	for _, v := range [2]int8{first, 1 - first} {
		child := make([]int8, len(assign))
		copy(child, assign)
		child[pick] = v
		s.branch(child)
		if s.stopped() {
			return
		}
	}
}

// propagate fixes variables forced by row activity bounds and reports
// whether the node can still be feasible.
func (s *blockSolver) propagate(assign []int8) bool {
	for changed := true; changed; {
		changed = false
		for _, r := range s.rows {
			minAct := 0.0
			for _, t := range r.terms {
				switch assign[t.idx] {
				case fixed1:
					minAct += t.coef
				case free:
					minAct += math.Min(0, t.coef)
				}
			}
			if minAct > r.rhs+s.tol {
				return false
			}
			for _, t := range r.terms {
				if assign[t.idx] != free {
					continue
				}
				if t.coef > 0 && minAct+t.coef > r.rhs+s.tol {
					assign[t.idx] = fixed0
					changed = true
				} else if t.coef < 0 && minAct-t.coef > r.rhs+s.tol {
					assign[t.idx] = fixed1
					changed = true
				}
			}
		}
	}
	return true
}

// rounded returns the full assignment when the LP optimum is already integral.
func (s *blockSolver) rounded(assign []int8, freeIdx []int, lpX []float64) ([]int8, bool) {
	out := make([]int8, len(assign))
	copy(out, assign)
	for k, j := range freeIdx {
		v := lpX[k]
		switch {
		case math.Abs(v) <= intTol:
			out[j] = fixed0
		case math.Abs(v-1) <= intTol:
			out[j] = fixed1
		default:
			return nil, false
		}
	}
	if !s.feasible(out) {
		return nil, false
	}
	return out, true
}

// choose picks the branching variable and the value explored first: the most
// fractional LP variable (lowest index on ties), or the first free variable.
func (s *blockSolver) choose(freeIdx []int, lpX []float64) (int, int8) {
	if lpX == nil {
		j := freeIdx[0]
		if s.cost[j] < 0 {
			return j, fixed1
		}
		return j, fixed0
	}

	bestK := 0
	bestDist := math.Inf(1)
	for k := range freeIdx {
		d := math.Abs(lpX[k] - 0.5)
		if d < bestDist-1e-12 {
			bestDist = d
			bestK = k
		}
	}
	if lpX[bestK] >= 0.5 {
		return freeIdx[bestK], fixed1
	}
	return freeIdx[bestK], fixed0
}

func (s *blockSolver) feasible(assign []int8) bool {
	for _, r := range s.rows {
		act := 0.0
		for _, t := range r.terms {
			if assign[t.idx] == fixed1 {
				act += t.coef
			}
		}
		if act > r.rhs+s.tol {
			return false
		}
	}
	return true
}

// offer records a complete feasible assignment if it strictly improves the incumbent.
func (s *blockSolver) offer(assign []int8) {
	obj := 0.0
	for j, a := range assign {
		if a == fixed1 {
			obj += s.cost[j]
		}
	}
	if s.hasBest && obj >= s.bestObj-s.tol {
		return
	}
	if s.best == nil {
		s.best = make([]float64, len(assign))
	}
	for j, a := range assign {
		if a == fixed1 {
			s.best[j] = 1
		} else {
			s.best[j] = 0
		}
	}
	s.bestObj = obj
	s.hasBest = true
}
