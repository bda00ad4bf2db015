package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is the machine-readable kind of a booking error.
type Code string

const (
	CodeInvalidRequest          Code = "INVALID_REQUEST"
	CodeInventoryUnavailable    Code = "INVENTORY_UNAVAILABLE"
	CodeInsufficientInventory   Code = "INSUFFICIENT_INVENTORY"
	CodeReservationFailed       Code = "RESERVATION_FAILED"
	CodePersistenceFailed       Code = "PERSISTENCE_FAILED"
	CodePaymentInitiationFailed Code = "PAYMENT_INITIATION_FAILED"
	CodeNotFound                Code = "NOT_FOUND"
	CodeNotImplemented          Code = "NOT_IMPLEMENTED"
	CodeInternal                Code = "INTERNAL"
)

// Error is the structured error surfaced to callers of the booking service.
// Two Errors match under errors.Is when their codes are equal, so the
// sentinels below can be used as targets.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func NewError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidRequest          = &Error{Code: CodeInvalidRequest}
	ErrInventoryUnavailable    = &Error{Code: CodeInventoryUnavailable}
	ErrInsufficientInventory   = &Error{Code: CodeInsufficientInventory}
	ErrReservationFailed       = &Error{Code: CodeReservationFailed}
	ErrPersistenceFailed       = &Error{Code: CodePersistenceFailed}
	ErrPaymentInitiationFailed = &Error{Code: CodePaymentInitiationFailed}
	ErrNotFound                = &Error{Code: CodeNotFound}
	ErrNotImplemented          = &Error{Code: CodeNotImplemented}
)

// ErrBookingNotFound is returned by the store when no row matches.
var ErrBookingNotFound = NewError(CodeNotFound, "booking not found", nil)

// ErrInvalidTransition is returned when a status change would break the lifecycle.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
