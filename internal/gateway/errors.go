package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller. Validation never reaches the
// wire; transient failures may be retried by the caller; rejected failures
// should not be blindly retried.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTransient  Kind = "transient-remote"
	KindRejected   Kind = "rejected-remote"
)

// Error is the classified failure returned across the mutation boundary.
type Error struct {
	Kind   Kind
	Op     string
	Status int // HTTP status when the remote answered, 0 otherwise
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the same operation.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransient
}

// Validationf builds a validation error caught before any remote call.
func Validationf(op string, format string, a ...any) *Error {
	return &Error{
		Kind: KindValidation,
		Op:   op,
		Err:  fmt.Errorf(format, a...),
	}
}

// classify maps a remote outcome to a Kind. status 0 means the remote was
// never reached (dial, timeout, canceled context).
func classify(op string, status int, err error) *Error {
	kind := KindTransient
	if status >= 400 && status < 500 {
		kind = KindRejected
	}
	return &Error{
		Kind:   kind,
		Op:     op,
		Status: status,
		Err:    err,
	}
}

// KindOf extracts the classification from any error in the chain, defaulting
// to transient for unclassified failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}
