package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// Transfer asks for recipient, amount and description, then for a fresh
// code, and executes the transfer. Leaving the transfer drops the stored read
// token, so the account has to be unlocked with a new code afterwards.
func (a *App) Transfer(ctx context.Context, args []string) error {
	to := ""
	if len(args) > 0 {
		to = args[0]
	} else {
		var err error
		if to, err = getSimpleText(a.reader, "Recipient alias", a.out); err != nil {
			return err
		}
	}
	amount, err := GetAmount(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	code, err := getCode(a.reader, a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	res, err := a.transfers.VerifyAndTransfer(callCtx, models.TransferRequest{ToAlias: to, Amount: amount, Description: description}, code)
	cancel()
	if err != nil {
		a.discardToken(ctx)
		return err
	}

	fmt.Fprintf(a.out, "Sent %s to %s. New balance: %s. Transaction %s.\n",
		formatAmount(-res.Record.Amount), res.Record.ToAlias, formatAmount(res.NewBalance), res.Record.ID)
	if a.discardToken(ctx) {
		fmt.Fprintln(a.out, "Type 'verify' with a new code to see your account again.")
	}
	return nil
}

// discardToken reports whether the stored read token was dropped. A rejected
// session has already been cleared, so there is nothing to drop.
func (a *App) discardToken(ctx context.Context) bool {
	if a.state() != models.StateAuthenticated {
		return false
	}
	if _, err := a.orchestrator.DiscardToken(ctx); err != nil {
		a.logger.Warn(ctx, "failed to discard session token", "error", err)
		return false
	}
	return true
}
