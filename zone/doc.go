// Package zone encodes the sign pattern of a condition pair as a single
// base-3 integer ("zone code") and detects monotonicity violations in a
// matrix of means.
//
// For nvar variables and a pair of conditions (row, column) with row < column,
// the zone code is
//
//	z = Σₖ sign(y[k][row] − y[k][column]) · 3^(nvar−k−1)
//
// where differences with |d| ≤ ZeroTol count as 0. The code is a balanced
// ternary number, so Decode recovers the sign vector exactly. Because a pair
// can be read in either direction, feasibility is decided on |z|: a pair
// violates the model when |z| belongs to the infeasible-zone set.
//
// Among all violating pairs the Detector reports the one with the largest
// "volume" |Πₖ dₖ| (product of the non-negligible differences), which favours
// violations that are unambiguous across several variables.
//
// Complexity:
//   - Detector.Check: O(nvar · ncond²) time, no allocations (scratch is sized once).
//   - Decode: O(nvar); DecodeCache amortises repeated codes to O(1).
//   - Infeasible: O(3ⁿᵛᵃʳ · |covectors| · nvar).
package zone
