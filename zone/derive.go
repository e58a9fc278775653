package zone

import "fmt"

// ValidateCovector checks that c has length nvar and entries in {-1,0,+1}.
func ValidateCovector(c []int, nvar int) error {
	if len(c) != nvar {
		return fmt.Errorf("%w: length %d, want %d", ErrBadCovector, len(c), nvar)
	}
	for i, s := range c {
		if s < -1 || s > 1 {
			return fmt.Errorf("%w: entry %d is %d", ErrBadCovector, i, s)
		}
	}

	return nil
}

// Conforms reports whether every nonzero entry of s equals the matching
// entry of c.
func Conforms(s, c []int) bool {
	for k := range s {
		if s[k] != 0 && s[k] != c[k] {
			return false
		}
	}

	return true
}

// Disagreement writes into dst the variables k where s[k] ≠ 0 and
// s[k] ≠ c[k], and returns the filled prefix. dst must have room for len(s).
func Disagreement(dst []int, s, c []int) []int {
	dst = dst[:0]
	for k := range s {
		if s[k] != 0 && c[k] != s[k] {
			dst = append(dst, k)
		}
	}

	return dst
}

// Monotone returns the two covectors of the monotone model: all +1 and all −1.
func Monotone(nvar int) [][]int {
	up := make([]int, nvar)
	down := make([]int, nvar)
	for i := range up {
		up[i] = 1
		down[i] = -1
	}

	return [][]int{up, down}
}

// Infeasible derives the infeasible-zone set implied by a list of covectors:
// an absolute zone code is infeasible when its sign vector conforms to no
// covector c nor to −c. The result is sorted ascending.
func Infeasible(nvar int, covectors [][]int) ([]int, error) {
	if nvar < 1 || nvar > MaxVars {
		return nil, fmt.Errorf("%w: nvar=%d", ErrBadShape, nvar)
	}
	for _, c := range covectors {
		if err := ValidateCovector(c, nvar); err != nil {
			return nil, err
		}
	}

	var (
		out  []int
		neg  = make([]int, nvar)
		hi   = MaxCode(nvar)
		code int
	)
	for code = 1; code <= hi; code++ {
		s := Decode(code, nvar)
		feasible := false
		for _, c := range covectors {
			if Conforms(s, c) {
				feasible = true
				break
			}
			for i := range c {
				neg[i] = -c[i]
			}
			if Conforms(s, neg) {
				feasible = true
				break
			}
		}
		if !feasible {
			out = append(out, code)
		}
	}

	return out, nil
}
