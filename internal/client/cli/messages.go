package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/services"
)

var messages = []struct {
	err error
	msg string
}{
	{client.ErrAliasTaken, "That alias is already taken."},
	{client.ErrInvalidCode, "Invalid code. Check your authenticator app and try again."},
	{client.ErrUnknownAlias, "Account not found."},
	{client.ErrUnknownRecipient, "Recipient not found."},
	{client.ErrInsufficientFunds, "Insufficient funds."},
	{client.ErrInvalidOrExpiredToken, "Authorization expired. Please try again with a new code."},
	{client.ErrSessionInvalid, "Your session has ended. Please log in again."},
	{client.ErrUnavailable, "The ledger is unreachable right now. Please try again later."},
	{client.ErrVerificationRequired, "Your authenticator is not confirmed yet. Type 'verify'."},
	{client.ErrTooManyAttempts, "Too many attempts. Please wait a minute."},
	{client.ErrTransferRejected, "The transfer was not completed."},
	{client.ErrRejected, "The ledger declined the request."},
	{services.ErrNotAuthenticated, "Please log in first."},
	{services.ErrTransferInProgress, "A transfer is already in progress."},
	{services.ErrIllegalTransition, "That command is not available right now."},
}

// userMessage renders err as a single line for the terminal.
func userMessage(err error) string {
	var ve *client.ValidationError
	if errors.As(err, &ve) {
		if ve.Field == "" {
			return fmt.Sprintf("Invalid input: %s.", ve.Reason)
		}
		return fmt.Sprintf("Invalid %s: %s.", ve.Field, ve.Reason)
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			var re *client.RejectionError
			if errors.As(err, &re) && re.Message != "" {
				return m.msg + " " + re.Message
			}
			return m.msg
		}
	}
	if errors.Is(err, client.ErrValidation) {
		return "Invalid input."
	}
	return "Error: " + err.Error()
}
