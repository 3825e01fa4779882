package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/services"
)

// Account refreshes and prints the stored account.
func (a *App) Account(ctx context.Context, _ []string) error {
	callCtx, cancel := a.callCtx(ctx)
	rec, err := a.accounts.Refresh(callCtx)
	cancel()
	if err != nil {
		return err
	}
	printAccount(a.out, rec)
	return nil
}

// History prints the account's transactions, newest first, optionally
// restricted to one type.
func (a *App) History(ctx context.Context, args []string) error {
	var filter models.TransferType
	if len(args) > 0 {
		filter = models.TransferType(strings.ToLower(args[0]))
		switch filter {
		case models.TransferSent, models.TransferReceived, models.TransferAward:
		default:
			return client.Invalid("type", "must be sent, received or award")
		}
	}

	callCtx, cancel := a.callCtx(ctx)
	records, err := a.accounts.History(callCtx)
	cancel()
	if err != nil {
		return err
	}

	records = services.SortHistory(services.FilterHistory(records, filter), true)
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No transactions.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(a.out, formatRecord(r))
	}
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	prefix := strings.Join(args, " ")
	if prefix == "" {
		var err error
		if prefix, err = getSimpleText(a.reader, "Search alias", a.out); err != nil {
			return err
		}
	}

	callCtx, cancel := a.callCtx(ctx)
	found := a.accounts.Search(callCtx, prefix)
	cancel()

	if len(found) == 0 {
		fmt.Fprintln(a.out, "No matches.")
		return nil
	}
	for _, s := range found {
		fmt.Fprintf(a.out, "%s (%s)\n", s.Alias, s.Name)
	}
	return nil
}

// Profile changes the display name and/or alias. Empty answers keep the
// current value.
func (a *App) Profile(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "New name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	alias, err := getSimpleText(a.reader, "New alias (empty to keep)", a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	upd, err := a.accounts.EditProfile(callCtx, name, alias)
	cancel()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s.\n", strings.Join(upd.Changes, ", "))
	return nil
}

// Email changes the account email. The session ends on success.
func (a *App) Email(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "New email", a.out)
	if err != nil {
		return err
	}
	code, err := getCode(a.reader, a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	err = a.accounts.ChangeEmail(callCtx, email, code)
	cancel()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Email changed. Please log in again.")
	return nil
}
