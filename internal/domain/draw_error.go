package domain

import "fmt"

// DrawErrorClass tells the user what happened to their money when a draw fails
type DrawErrorClass string

const (
	// DrawNotCharged means the failure happened before (or during) payment;
	// nothing was captured.
	DrawNotCharged DrawErrorClass = "not_charged"
	// DrawChargedAndRefunded means payment was captured and then fully refunded.
	DrawChargedAndRefunded DrawErrorClass = "charged_and_refunded"
	// DrawContactSupport means compensation itself failed and manual
	// reconciliation is required.
	DrawContactSupport DrawErrorClass = "contact_support"
)

// DrawError wraps a draw failure with the stage it occurred in and the
// user-visible charge classification.
type DrawError struct {
	Stage string
	Class DrawErrorClass
	Err   error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("draw failed at %s (%s): %v", e.Stage, e.Class, e.Err)
}

func (e *DrawError) Unwrap() error {
	return e.Err
}

// NewDrawError builds a DrawError for the given stage and classification
func NewDrawError(stage string, class DrawErrorClass, err error) *DrawError {
	return &DrawError{Stage: stage, Class: class, Err: err}
}
