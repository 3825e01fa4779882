package client

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrInvalidCode           = errors.New("invalid second-factor code")
	ErrUnknownAlias          = errors.New("unknown alias")
	ErrUnknownRecipient      = errors.New("unknown recipient")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired operation token")
	ErrSessionInvalid        = errors.New("session invalid")
	ErrUnavailable           = errors.New("ledger unavailable")
	ErrVerificationRequired  = errors.New("second-factor verification required")
	ErrTooManyAttempts       = errors.New("too many attempts")
	ErrAliasTaken            = fmt.Errorf("%w: alias already taken", ErrValidation)
	// ErrRejected is a 2xx reply whose envelope reports failure without a
	// known error code.
	ErrRejected         = errors.New("request rejected by ledger")
	ErrTransferRejected = fmt.Errorf("%w: transfer not completed", ErrRejected)
)

// RejectionError keeps the ledger's own explanation of a refused request.
type RejectionError struct {
	Err     error
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Message
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
