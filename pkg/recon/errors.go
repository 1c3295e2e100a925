package recon

import (
	"errors"
	"fmt"
)

// ValidationError is a local precondition failure detected before any
// collaborator call is issued.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ConflictError is the authoritative capacity-race signal: the slot
// filled up between the caller's last refresh and the mutation. It must
// never be retried automatically; the caller has to refresh capacity
// state first.
type ConflictError struct {
	SlotID string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on slot %s: %s", e.SlotID, e.Reason)
}

// NotFoundError reports a missing collaborator resource. Handlers degrade
// to an empty-state view for the affected section instead of failing the
// whole reconciliation.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// TransientError wraps any other collaborator failure. Surfaced verbatim;
// retry is a manual decision.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
