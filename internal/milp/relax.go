package milp

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

type relaxStatus int

const (
	relaxSolved relaxStatus = iota
	relaxInfeasible
	relaxFailed
)

const simplexTol = 1e-10

// relax solves the LP relaxation of the node over its free variables
// (0 <= x <= 1) and returns the optimal free-variable cost and point.
//
// Standard form for gonum: rows  A_free x + s = rhs - A_fixed x_fixed  and
// x + u = 1, with x, s, u >= 0.
func (s *blockSolver) relax(assign []int8, freeIdx []int) (float64, []float64, relaxStatus) {
	n := len(freeIdx)
	pos := make(map[int]int, n)
	for k, j := range freeIdx {
		pos[j] = k
	}

	type active struct {
		coefs []float64
		rhs   float64
	}
	var rows []active
	for _, r := range s.rows {
		a := active{coefs: make([]float64, n), rhs: r.rhs}
		touched := false
		for _, t := range r.terms {
			switch assign[t.idx] {
			case fixed1:
				a.rhs -= t.coef
			case free:
				a.coefs[pos[t.idx]] += t.coef
				touched = true
			}
		}
		if touched {
			rows = append(rows, a)
		}
	}

	if len(rows) == 0 {
		x := make([]float64, n)
		obj := 0.0
		for k, j := range freeIdx {
			if s.cost[j] < 0 {
				x[k] = 1
				obj += s.cost[j]
			}
		}
		return obj, x, relaxSolved
	}

	m := len(rows)
	nRows := m + n
	nCols := n + m + n
	A := mat.NewDense(nRows, nCols, nil)
	b := make([]float64, nRows)
	c := make([]float64, nCols)
	for k, j := range freeIdx {
		c[k] = s.cost[j]
	}

	slackBasis := true
	for i, r := range rows {
		sign := 1.0
		if r.rhs < 0 {
			sign = -1
			slackBasis = false
		}
		for k, v := range r.coefs {
			if v != 0 {
				A.Set(i, k, sign*v)
			}
		}
		A.Set(i, n+i, sign)
		b[i] = sign * r.rhs
	}
	for k := 0; k < n; k++ {
		A.Set(m+k, k, 1)
		A.Set(m+k, n+m+k, 1)
		b[m+k] = 1
	}

	var basis []int
	if slackBasis {
		basis = make([]int, 0, nRows)
		for col := n; col < nCols; col++ {
			basis = append(basis, col)
		}
	}

	optF, optX, err := simplex(c, A, b, basis)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, nil, relaxInfeasible
		}
		return 0, nil, relaxFailed
	}
	return optF, optX[:n], relaxSolved
}

func simplex(c []float64, A mat.Matrix, b []float64, basis []int) (optF float64, optX []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("lp relaxation: simplex panicked")
		}
	}()
	return lp.Simplex(c, A, b, simplexTol, basis)
}
