package server

import "github.com/derktes/ir-scrutinizer/irsignal"

// toleranceRequest updates the tolerances used by subsequent analyses
type toleranceRequest struct {
	Absolute *float64 `json:"absolute"`
	Relative *float64 `json:"relative"`
}

// apply fills the fields missing from the request with the current values.
func (r toleranceRequest) apply(current irsignal.Tolerance) irsignal.Tolerance {
	if r.Absolute != nil {
		current.Absolute = *r.Absolute
	}
	if r.Relative != nil {
		current.Relative = *r.Relative
	}
	return current
}
