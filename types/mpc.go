package types

import "fmt"

// -----------------------------------------------------------------------------
// ComputationRequest

// Pending reports whether the request still awaits processing.
func (r ComputationRequest) Pending() bool {
	return r.Status == StatusRequested
}

// String implements fmt.Stringer.
func (r ComputationRequest) String() string {
	return fmt.Sprintf("{%s computation %s: %s -> %s, %s}",
		r.ComputationType, r.ID, r.InitiatorID, r.ParticipantID, r.Status)
}

// -----------------------------------------------------------------------------
// Outcome

// Failed reports whether the computation rejected its input.
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o.Failed() {
		return fmt.Sprintf("{error: %s}", o.Error)
	}
	return fmt.Sprintf("{result: %v}", o.Result)
}

// -----------------------------------------------------------------------------
// ComputationResult

// String implements fmt.Stringer.
func (r ComputationResult) String() string {
	return fmt.Sprintf("{%s result for request %s: %s}",
		r.ComputationType, r.RequestID, r.Value)
}
