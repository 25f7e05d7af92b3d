// Package milp builds and solves small pure-binary linear programs.
//
// Models are minimized. Rows that share no variables split the model into
// independent blocks which are solved one by one with depth-first
// branch-and-bound; node bounds come from the LP relaxation (gonum simplex)
// and fall back to a cost-sign bound when the relaxation cannot be solved.
//
// The search order is fixed (variables in creation order, strict improvement
// only), so identical models always yield identical solutions.
package milp
