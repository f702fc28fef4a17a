package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// UnavailableError means a repository read or write failed. It is distinct
// from NotFoundError on purpose: "unknown" must never be conflated with
// "empty", or the evaluator would deny or grant access on bad data.
type UnavailableError struct {
	Op  string
	Err error
}

func (e UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: repository unavailable", e.Op)
	}
	return fmt.Sprintf("%s: repository unavailable: %v", e.Op, e.Err)
}

func (e UnavailableError) Unwrap() error { return e.Err }

// Is enables errors.Is matching on UnavailableError.
func (e UnavailableError) Is(target error) bool {
	_, ok := target.(UnavailableError)
	if ok {
		return true
	}
	_, ok = target.(*UnavailableError)
	return ok
}

// ErrUnavailable is the sentinel error for failed repository access.
var ErrUnavailable = UnavailableError{}

// PaymentError means the payment collaborator refused or failed the charge.
// No grant is ever recorded alongside one.
type PaymentError struct {
	Reason string
	Err    error
}

func (e PaymentError) Error() string {
	if e.Reason == "" {
		return "payment failed"
	}
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

func (e PaymentError) Unwrap() error { return e.Err }

// Is enables errors.Is matching on PaymentError.
func (e PaymentError) Is(target error) bool {
	_, ok := target.(PaymentError)
	if ok {
		return true
	}
	_, ok = target.(*PaymentError)
	return ok
}

// ErrPayment is the sentinel error for failed charges.
var ErrPayment = PaymentError{}
