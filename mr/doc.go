// Package mr defines the monotone-regression solver port used by the
// branch-and-bound engine, together with a reference implementation.
//
// Given observed means y (nvar×ncond), one positive-definite weight matrix Wₖ
// per variable and a set of order constraints, a Solver returns the fitted
// means x minimising
//
//	f(x) = Σₖ (xₖ − yₖ)ᵀ Wₖ (xₖ − yₖ)   subject to xₖ[hi] ≥ xₖ[lo] for every constraint.
//
// The problem separates by variable. ActiveSet solves each variable with a
// primal active-set quadratic-programming method: it starts from a constant
// vector (which satisfies every order constraint), and each iteration solves
// the equality-constrained KKT system for the current working set with gonum.
// Blocking constraints enter the working set; constraints with negative
// multipliers leave it. Only constraints with aᵢᵀp < 0 can block while the
// working set has Ap = 0, so the working set stays linearly independent even
// when the constraint graph is cyclic.
//
// Tolerances: the first attempt uses Tolerance.Primary. When it fails
// (iteration budget exhausted or singular KKT system) a second attempt uses
// Tolerance.Fallback, a larger iteration budget and a small ridge on Wₖ.
package mr
