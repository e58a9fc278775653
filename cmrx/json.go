package cmrx

import (
	"encoding/json"
	"math"
)

// finite maps ±Inf and NaN to nil so they encode as JSON null.
func finite(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}

	return &f
}

// MarshalJSON encodes unbounded values (no incumbent yet, empty frontier) as null.
func (r IterationRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		LowerBound *float64 `json:"lower_bound"`
		Incumbent  *float64 `json:"incumbent"`
		NextBound  *float64 `json:"next_bound"`
		Frontier   int      `json:"frontier"`
	}{finite(r.LowerBound), finite(r.Incumbent), finite(r.NextBound), r.Frontier})
}

type resultJSON Result

// MarshalJSON encodes an infinite objective as null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		resultJSON
		Objective *float64 `json:"objective"`
	}{resultJSON(r), finite(r.Objective)})
}
