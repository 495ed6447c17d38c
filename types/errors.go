package types

import "fmt"

// KeyLookupError indicates that a user has no published public key, so no
// envelope can be addressed to them.
type KeyLookupError struct {
	UserID string
}

func (e *KeyLookupError) Error() string {
	return fmt.Sprintf("no public key published for user %s", e.UserID)
}

// DecodeError indicates an envelope that is malformed or was not produced
// for the local key. Callers skip the offending record instead of aborting
// the batch.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode envelope: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode envelope: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedComputationError indicates a computation kind with no
// registered function.
type UnsupportedComputationError struct {
	ComputationType string
}

func (e *UnsupportedComputationError) Error() string {
	return fmt.Sprintf("unknown computation type: %s", e.ComputationType)
}

// StoreError wraps a failure of the shared record store.
type StoreError struct {
	Op         string // "read" or "write"
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s on %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
