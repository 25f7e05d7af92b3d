package milp

import "fmt"

// Sense of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Var is a handle to a binary decision variable of a Model.
type Var int

// Term is coef * var.
type Term struct {
	Var  Var
	Coef float64
}

type constraint struct {
	name  string
	terms []Term
	sense Sense
	rhs   float64
}

// Model is a minimization problem over binary variables.
// It is not safe for concurrent mutation.
type Model struct {
	name     string
	vars     []string
	cons     []constraint
	objConst float64
	obj      []float64
}

func NewModel(name string) *Model {
	return &Model{name: name}
}

// AddBinary registers a new {0,1} variable.
func (m *Model) AddBinary(name string) Var {
	m.vars = append(m.vars, name)
	m.obj = append(m.obj, 0)
	return Var(len(m.vars) - 1)
}

func (m *Model) NumVars() int        { return len(m.vars) }
func (m *Model) NumConstraints() int { return len(m.cons) }

func (m *Model) VarName(v Var) string {
	if int(v) < 0 || int(v) >= len(m.vars) {
		return ""
	}
	return m.vars[v]
}

// AddConstraint adds sum(terms) <sense> rhs. Terms on the same variable are summed.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) error {
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
			return fmt.Errorf("add constraint %q: unknown variable %d", name, t.Var)
		}
	}
	cp := make([]Term, len(terms))
	copy(cp, terms)
	m.cons = append(m.cons, constraint{name: name, terms: cp, sense: sense, rhs: rhs})
	return nil
}

// SetObjective replaces the objective with constant + sum(terms).
func (m *Model) SetObjective(constant float64, terms []Term) error {
	obj := make([]float64, len(m.vars))
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
			return fmt.Errorf("set objective: unknown variable %d", t.Var)
		}
		obj[t.Var] += t.Coef
	}
	m.objConst = constant
	m.obj = obj
	return nil
}

// Evaluate returns the objective of a full 0/1 assignment.
func (m *Model) Evaluate(values []float64) float64 {
	total := m.objConst
	for j, c := range m.obj {
		if j < len(values) {
			total += c * values[j]
		}
	}
	return total
}

// Feasible reports whether a full assignment satisfies every constraint.
func (m *Model) Feasible(values []float64, tol float64) bool {
	for _, r := range m.rows() {
		act := 0.0
		for _, t := range r.terms {
			act += t.coef * values[t.idx]
		}
		if act > r.rhs+tol {
			return false
		}
	}
	return true
}

type rowTerm struct {
	idx  int
	coef float64
}

// row is a normalized "<=" constraint.
type row struct {
	name  string
	terms []rowTerm
	rhs   float64
}

// rows converts all constraints to "<=" rows with merged coefficients.
func (m *Model) rows() []row {
	out := make([]row, 0, len(m.cons))
	for _, c := range m.cons {
		merged := make(map[int]float64, len(c.terms))
		order := make([]int, 0, len(c.terms))
		for _, t := range c.terms {
			if _, ok := merged[int(t.Var)]; !ok {
				order = append(order, int(t.Var))
			}
			merged[int(t.Var)] += t.Coef
		}
		le := row{name: c.name, rhs: c.rhs}
		for _, idx := range order {
			if merged[idx] != 0 {
				le.terms = append(le.terms, rowTerm{idx: idx, coef: merged[idx]})
			}
		}

		switch c.sense {
		case LessEq:
			out = append(out, le)
		case GreaterEq:
			out = append(out, negate(le))
		case Equal:
			out = append(out, le, negate(le))
		}
	}
	return out
}

func negate(r row) row {
	n := row{name: r.name, rhs: -r.rhs, terms: make([]rowTerm, len(r.terms))}
	for i, t := range r.terms {
		n.terms[i] = rowTerm{idx: t.idx, coef: -t.coef}
	}
	return n
}
