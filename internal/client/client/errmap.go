package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Hosted ledgers that predate error codes signal a pending enrollment only
// through this message on a 403.
const verificationRequiredHint = "must complete totp verification"

func withMessage(sentinel error, msg string) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// errorFromCode maps an api error code to a sentinel. Unknown codes yield nil
// so the caller can fall back to the transport status.
func errorFromCode(code, msg string) error {
	switch code {
	case api.CodeValidation:
		return &ValidationError{Reason: msg}
	case api.CodeInvalidTOTP:
		return withMessage(ErrInvalidCode, msg)
	case api.CodeUserNotFound:
		return withMessage(ErrUnknownAlias, msg)
	case api.CodeRecipientNotFound:
		return withMessage(ErrUnknownRecipient, msg)
	case api.CodeInsufficientFunds:
		return withMessage(ErrInsufficientFunds, msg)
	case api.CodeInvalidOperationToken:
		return withMessage(ErrInvalidOrExpiredToken, msg)
	case api.CodeVerificationRequired:
		return withMessage(ErrVerificationRequired, msg)
	case api.CodeAliasTaken:
		return ErrAliasTaken
	case api.CodeUnauthorized:
		return withMessage(ErrSessionInvalid, msg)
	case api.CodeTooManyAttempts:
		return withMessage(ErrTooManyAttempts, msg)
	case api.CodeInternal:
		return withMessage(ErrUnavailable, msg)
	}
	return nil
}

// errorFromRejection maps a 2xx reply whose envelope says success=false.
// Hosted ledgers answer failures this way without a code, so the route
// decides the sentinel.
func errorFromRejection(r route, code, msg string) error {
	if err := errorFromCode(code, msg); err != nil {
		return err
	}
	sentinel := r.rejected
	if sentinel == nil {
		sentinel = ErrRejected
	}
	if errors.Is(sentinel, ErrRejected) {
		return &RejectionError{Err: sentinel, Message: msg}
	}
	return withMessage(sentinel, msg)
}

func errorFromHTTP(statusCode int, body api.ErrorResponse) error {
	if err := errorFromCode(body.Code, body.Message); err != nil {
		return err
	}

	switch {
	case statusCode == http.StatusForbidden && strings.Contains(strings.ToLower(body.Message), verificationRequiredHint):
		return withMessage(ErrVerificationRequired, body.Message)
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return withMessage(ErrSessionInvalid, body.Message)
	case statusCode == http.StatusNotFound:
		return withMessage(ErrUnknownAlias, body.Message)
	case statusCode == http.StatusBadRequest, statusCode == http.StatusConflict, statusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Reason: body.Message}
	case statusCode == http.StatusTooManyRequests:
		return withMessage(ErrTooManyAttempts, body.Message)
	case statusCode >= http.StatusInternalServerError:
		return withMessage(ErrUnavailable, fmt.Sprintf("status %d", statusCode))
	}
	return fmt.Errorf("unexpected status %d: %s", statusCode, body.Message)
}

func errorFromGRPC(err error, trailer metadata.MD) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)

	if values := trailer.Get(api.ErrorCodeKey); len(values) > 0 {
		if mapped := errorFromCode(values[0], st.Message()); mapped != nil {
			return mapped
		}
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return withMessage(ErrSessionInvalid, st.Message())
	case codes.NotFound:
		return withMessage(ErrUnknownAlias, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return &ValidationError{Reason: st.Message()}
	case codes.ResourceExhausted:
		return withMessage(ErrTooManyAttempts, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal:
		return withMessage(ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
