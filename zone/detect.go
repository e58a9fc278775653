package zone

import (
	"fmt"
	"math"
	"slices"
)

// Detector finds the most significant monotonicity violation in a means
// matrix. It owns two ncond×ncond scratch grids (zone codes and volumes),
// allocated once in NewDetector and reused by every Check.
//
// A Detector is not safe for concurrent use; give each solve its own.
type Detector struct {
	nvar       int
	ncond      int
	infeasible map[int]struct{}

	// Scratch arenas, row-major over the upper triangle (row < column).
	zones   []int
	volumes []float64
}

// NewDetector validates the shape and the infeasible-zone set and returns a
// detector ready for repeated Check calls.
//
// Errors:
//   - ErrBadShape if nvar ∉ [1, MaxVars] or ncond < 1.
//   - ErrZoneOutOfRange if some zone is outside [1, MaxCode(nvar)].
func NewDetector(nvar, ncond int, infeasible []int) (*Detector, error) {
	if nvar < 1 || nvar > MaxVars || ncond < 1 {
		return nil, fmt.Errorf("%w: nvar=%d ncond=%d", ErrBadShape, nvar, ncond)
	}
	set := make(map[int]struct{}, len(infeasible))
	hi := MaxCode(nvar)
	for _, z := range infeasible {
		if z < 1 || z > hi {
			return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrZoneOutOfRange, z, hi)
		}
		set[z] = struct{}{}
	}

	return &Detector{
		nvar:       nvar,
		ncond:      ncond,
		infeasible: set,
		zones:      make([]int, ncond*ncond),
		volumes:    make([]float64, ncond*ncond),
	}, nil
}

// NVar returns the number of variables the detector was built for.
func (d *Detector) NVar() int { return d.nvar }

// NCond returns the number of conditions the detector was built for.
func (d *Detector) NCond() int { return d.ncond }

// Zones returns the sorted infeasible-zone set.
func (d *Detector) Zones() []int {
	out := make([]int, 0, len(d.infeasible))
	for z := range d.infeasible {
		out = append(out, z)
	}
	slices.Sort(out)

	return out
}

// IsInfeasible reports whether |code| is an infeasible zone.
func (d *Detector) IsInfeasible(code int) bool {
	if code < 0 {
		code = -code
	}
	_, ok := d.infeasible[code]

	return ok
}

// Check scans every condition pair of y (nvar×ncond) and returns the
// violating pair with the largest volume. ok is false when y is feasible.
// Ties keep the first pair in (row, column) ascending order.
//
// y must have the detector's shape; callers guarantee this once per solve.
func (d *Detector) Check(y [][]float64) (v Violation, ok bool) {
	if len(d.infeasible) == 0 {
		return Violation{}, false
	}

	var (
		n              = d.ncond
		row, col, k    int
		idx            int
		diff           float64
		curY           []float64
		weight         int
		maxVol, curVol float64
	)

	// 1) Reset scratch for the upper triangle.
	for row = 0; row < n; row++ {
		for col = row + 1; col < n; col++ {
			idx = row*n + col
			d.zones[idx] = 0
			d.volumes[idx] = 1
		}
	}

	// 2) Accumulate signed zone digits and volumes, one variable at a time.
	for k = 0; k < d.nvar; k++ {
		curY = y[k]
		weight = pow3[d.nvar-k-1]
		for row = 0; row < n; row++ {
			for col = row + 1; col < n; col++ {
				diff = curY[row] - curY[col]
				if math.Abs(diff) <= ZeroTol {
					continue
				}
				idx = row*n + col
				d.volumes[idx] *= diff
				if diff > 0 {
					d.zones[idx] += weight
				} else {
					d.zones[idx] -= weight
				}
			}
		}
	}

	// 3) Pick the infeasible pair with the largest |volume|.
	for row = 0; row < n; row++ {
		for col = row + 1; col < n; col++ {
			idx = row*n + col
			if !d.IsInfeasible(d.zones[idx]) {
				continue
			}
			curVol = math.Abs(d.volumes[idx])
			if curVol > maxVol {
				maxVol = curVol
				v = Violation{Row: row, Column: col, Zone: d.zones[idx], Volume: curVol}
				ok = true
			}
		}
	}

	return v, ok
}
