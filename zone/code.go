package zone

// pow3 holds 3^i for i in [0, MaxVars].
var pow3 = func() [MaxVars + 1]int {
	var t [MaxVars + 1]int
	t[0] = 1
	for i := 1; i <= MaxVars; i++ {
		t[i] = t[i-1] * 3
	}

	return t
}()

// Pow3 returns 3^i for 0 ≤ i ≤ MaxVars.
func Pow3(i int) int { return pow3[i] }

// MaxCode returns the largest absolute zone code for nvar variables,
// i.e. the code of the all-positive sign vector: (3^nvar − 1) / 2.
func MaxCode(nvar int) int { return (pow3[nvar] - 1) / 2 }

// Encode maps a sign vector in {-1,0,+1}^nvar to its zone code.
// Index 0 is the most significant digit.
func Encode(signs []int) int {
	var (
		n    = len(signs)
		code int
		i    int
	)
	for i = 0; i < n; i++ {
		code += signs[i] * pow3[n-i-1]
	}

	return code
}

// Decode inverts Encode by repeated balanced base-3 division.
func Decode(code, nvar int) []int {
	signs := make([]int, nvar)

	var i, r int
	for i = nvar - 1; i >= 0; i-- {
		r = ((code % 3) + 3) % 3
		if r == 2 {
			r = -1
		}
		signs[i] = r
		code = (code - r) / 3
	}

	return signs
}

// DecodeCache memoises Decode for a fixed nvar. It is scoped to one solve
// and is not safe for concurrent use.
//
// Returned slices are shared between callers and must not be modified.
type DecodeCache struct {
	nvar int
	m    map[int][]int
}

// NewDecodeCache returns an empty cache for nvar variables.
func NewDecodeCache(nvar int) *DecodeCache {
	return &DecodeCache{nvar: nvar, m: make(map[int][]int)}
}

// Signs returns the decoded sign vector of code, decoding it on first use.
func (c *DecodeCache) Signs(code int) []int {
	if s, ok := c.m[code]; ok {
		return s
	}
	s := Decode(code, c.nvar)
	c.m[code] = s

	return s
}

// Len reports how many distinct codes have been decoded.
func (c *DecodeCache) Len() int { return len(c.m) }
