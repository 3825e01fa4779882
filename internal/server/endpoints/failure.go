package endpoints

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/services"
	"google.golang.org/grpc/codes"
)

// Failure is an error as it appears on the wire of either transport.
type Failure struct {
	HTTPStatus int
	GRPCCode   codes.Code
	Code       string
	Message    string
}

// Response renders the failure as a REST body.
func (f Failure) Response() api.ErrorResponse {
	return api.ErrorResponse{Envelope: api.Envelope{Success: false, Message: f.Message}, Code: f.Code}
}

// Internal reports whether the failure hides an unexpected error.
func (f Failure) Internal() bool {
	return f.Code == api.CodeInternal
}

var failures = []struct {
	target error
	Failure
}{
	{services.ErrValidation, Failure{http.StatusBadRequest, codes.InvalidArgument, api.CodeValidation, ""}},
	{services.ErrAliasTaken, Failure{http.StatusConflict, codes.AlreadyExists, api.CodeAliasTaken, ""}},
	{services.ErrInvalidTOTP, Failure{http.StatusUnauthorized, codes.Unauthenticated, api.CodeInvalidTOTP, ""}},
	{services.ErrUnauthorized, Failure{http.StatusUnauthorized, codes.Unauthenticated, api.CodeUnauthorized, ""}},
	{services.ErrVerificationRequired, Failure{http.StatusForbidden, codes.PermissionDenied, api.CodeVerificationRequired, ""}},
	{services.ErrUserNotFound, Failure{http.StatusNotFound, codes.NotFound, api.CodeUserNotFound, ""}},
	{services.ErrRecipientNotFound, Failure{http.StatusNotFound, codes.NotFound, api.CodeRecipientNotFound, ""}},
	{services.ErrInsufficientFunds, Failure{http.StatusUnprocessableEntity, codes.FailedPrecondition, api.CodeInsufficientFunds, ""}},
	{services.ErrInvalidOperationToken, Failure{http.StatusUnauthorized, codes.Unauthenticated, api.CodeInvalidOperationToken, ""}},
	{services.ErrTooManyAttempts, Failure{http.StatusTooManyRequests, codes.ResourceExhausted, api.CodeTooManyAttempts, ""}},
}

// Classify maps a ledger error to its wire form. Errors outside the ledger's
// sentinel set become INTERNAL with a generic message.
func Classify(err error) Failure {
	for _, f := range failures {
		if errors.Is(err, f.target) {
			out := f.Failure
			out.Message = err.Error()
			return out
		}
	}
	return Failure{http.StatusInternalServerError, codes.Internal, api.CodeInternal, "internal error"}
}

// Malformed is the failure for a body that could not be decoded.
func Malformed(err error) Failure {
	return Failure{http.StatusBadRequest, codes.InvalidArgument, api.CodeValidation, "malformed request: " + err.Error()}
}
