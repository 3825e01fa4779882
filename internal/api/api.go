// Package api is the wire contract between the wallet client and the ledger
// service: REST paths, request/response bodies, error codes and the gRPC
// method table. Both transports carry the same JSON bodies.
package api

// REST paths, relative to the configured base URL.
const (
	PathHealth          = "/api/health"
	PathUserDetails     = "/api/user-details"
	PathRegister        = "/api/register"
	PathVerifyTOTPSetup = "/api/verify-totp-setup"
	PathRegenerateTOTP  = "/api/regenerate-totp"
	PathTransactions    = "/api/transactions"
	PathVerifyTOTP      = "/api/verify-totp"
	PathTransfer        = "/api/transfer"
	PathSearchUsers     = "/api/search-users"
	PathEditProfile     = "/api/edit-profile"
	PathChangeEmail     = "/api/change-email"
)

// Error codes carried in ErrorResponse.Code and in the gRPC error trailer.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidTOTP           = "INVALID_TOTP"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeRecipientNotFound     = "RECIPIENT_NOT_FOUND"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeInvalidOperationToken = "INVALID_OPERATION_TOKEN"
	CodeVerificationRequired  = "TOTP_VERIFICATION_REQUIRED"
	CodeAliasTaken            = "ALIAS_TAKEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeTooManyAttempts       = "TOO_MANY_ATTEMPTS"
	CodeInternal              = "INTERNAL"
)

// Metadata keys used by the gRPC transport.
const (
	ErrorCodeKey = "x-wallet-error-code"
	RequestIDKey = "x-request-id"
)

// Transaction types as reported by the ledger.
const (
	TxSent     = "sent"
	TxReceived = "received"
	TxAward    = "award"
)
