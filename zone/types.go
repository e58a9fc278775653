package zone

import "errors"

// ZeroTol is the magnitude below which a difference of means is treated as zero.
const ZeroTol = 1e-5

// MaxVars bounds nvar so that every zone code fits comfortably in an int.
const MaxVars = 20

var (
	// ErrBadShape is returned when nvar/ncond are out of range or a means
	// matrix does not match the detector shape.
	ErrBadShape = errors.New("zone: invalid shape")

	// ErrZoneOutOfRange indicates an infeasible zone outside [1, MaxCode(nvar)].
	ErrZoneOutOfRange = errors.New("zone: zone code out of range")

	// ErrBadCovector indicates a covector of the wrong length or with an entry
	// outside {-1, 0, +1}.
	ErrBadCovector = errors.New("zone: invalid covector")
)

// Violation identifies the most significant violating condition pair.
// Row < Column; Zone is the signed code of y[·][Row] − y[·][Column].
type Violation struct {
	Row    int
	Column int
	Zone   int
	Volume float64
}
