// Package order models pairwise order constraints between conditions and the
// canonical constraint sets built from them.
//
// A Constraint{Var: k, Hi: i, Lo: j} requires x[k][i] ≥ x[k][j]. A Set is an
// order-independent, duplicate-free collection of constraints: adding the
// same constraint twice, or adding constraints in a different order, yields
// the same Set and the same Key. Sets are the search-node signature used for
// deduplication.
//
// For every variable the constraints form a directed graph Lo → Hi on the
// conditions; FindCycle reports a directed cycle (which forces the conditions
// on it to be equal) using three-color depth-first search.
package order
