package order

// Visitation states for the three-color DFS.
const (
	white = iota // not visited
	gray         // on the recursion stack
	black        // fully explored
)

// cycleFinder holds the DFS state; a struct keeps the recursion free of closures.
type cycleFinder struct {
	adj   [][]int
	state []int
	path  []int
}

// FindCycle looks for a directed cycle in the graph Lo → Hi formed by cs over
// ncond conditions. Constraints on different variables are not separated:
// callers pass the constraints of a single variable (see Set.ForVar).
//
// It returns the conditions on the first cycle found, closed by repeating the
// first vertex ([v0, v1, …, v0]), or nil if the graph is acyclic.
//
// Complexity: O(ncond + |cs|) time and memory.
func FindCycle(ncond int, cs []Constraint) []int {
	// 1) Adjacency lists, in constraint order for determinism.
	f := cycleFinder{
		adj:   make([][]int, ncond),
		state: make([]int, ncond),
		path:  make([]int, 0, ncond),
	}
	for _, c := range cs {
		f.adj[c.Lo] = append(f.adj[c.Lo], c.Hi)
	}

	// 2) Launch from every unvisited vertex (forest traversal).
	for v := 0; v < ncond; v++ {
		if f.state[v] == white {
			if cyc := f.visit(v); cyc != nil {
				return cyc
			}
		}
	}

	return nil
}

// visit explores v and returns the first closed cycle reachable from it.
func (f *cycleFinder) visit(v int) []int {
	f.state[v] = gray
	f.path = append(f.path, v)
	for _, w := range f.adj[v] {
		switch f.state[w] {
		case white:
			if cyc := f.visit(w); cyc != nil {
				return cyc
			}
		case gray:
			// Back edge: the cycle is the path suffix starting at w.
			i := len(f.path) - 1
			for f.path[i] != w {
				i--
			}
			cyc := append([]int(nil), f.path[i:]...)

			return append(cyc, w)
		}
	}
	f.path = f.path[:len(f.path)-1]
	f.state[v] = black

	return nil
}

// HasCycle reports whether any variable's constraint graph in s is cyclic.
func (s Set) HasCycle(nvar, ncond int) bool {
	for k := 0; k < nvar; k++ {
		if FindCycle(ncond, s.ForVar(k)) != nil {
			return true
		}
	}

	return false
}
