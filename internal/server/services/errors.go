package services

import (
	"errors"
	"fmt"
)

// Business-rule failures. Transports map each to a wire error code.
var (
	ErrValidation            = errors.New("validation error")
	ErrInvalidTOTP           = errors.New("invalid totp code")
	ErrUserNotFound          = errors.New("user not found")
	ErrRecipientNotFound     = errors.New("recipient not found")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidOperationToken = errors.New("invalid or expired operation token")
	ErrVerificationRequired  = errors.New("user must complete TOTP verification")
	ErrAliasTaken            = errors.New("username already taken")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrTooManyAttempts       = errors.New("too many attempts")
)

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
