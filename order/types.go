package order

import (
	"errors"
	"fmt"
)

// ErrBadConstraint indicates a constraint whose indices fall outside the
// problem shape or that relates a condition to itself.
var ErrBadConstraint = errors.New("order: invalid constraint")

// Constraint requires condition Hi to be at least condition Lo for variable Var.
type Constraint struct {
	Var int `json:"var" yaml:"var"`
	Hi  int `json:"hi" yaml:"hi"`
	Lo  int `json:"lo" yaml:"lo"`
}

// String renders the constraint as "k: x[hi] ≥ x[lo]".
func (c Constraint) String() string {
	return fmt.Sprintf("%d: x[%d] >= x[%d]", c.Var, c.Hi, c.Lo)
}

// Validate checks the constraint against an nvar×ncond shape.
func (c Constraint) Validate(nvar, ncond int) error {
	if c.Var < 0 || c.Var >= nvar || c.Hi < 0 || c.Hi >= ncond || c.Lo < 0 || c.Lo >= ncond {
		return fmt.Errorf("%w: %v outside %dx%d", ErrBadConstraint, c, nvar, ncond)
	}
	if c.Hi == c.Lo {
		return fmt.Errorf("%w: %v is reflexive", ErrBadConstraint, c)
	}

	return nil
}

// compare orders constraints by (Var, Hi, Lo).
func compare(a, b Constraint) int {
	switch {
	case a.Var != b.Var:
		return a.Var - b.Var
	case a.Hi != b.Hi:
		return a.Hi - b.Hi
	default:
		return a.Lo - b.Lo
	}
}
