package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// getSimpleText and getCode are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getCode       = GetCode
)

// Register asks for name, alias and email, shows the enrollment material
// and then asks for the first code to confirm it.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter your full name", a.out)
	if err != nil {
		return err
	}
	alias, err := getSimpleText(a.reader, "Choose an alias (lowercase letters, digits, dots, underscores)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	material, err := a.orchestrator.Register(callCtx, models.Identity{Name: name, Alias: alias, Email: email})
	cancel()
	if err != nil {
		return err
	}
	return a.enroll(ctx, material)
}

// Regenerate replaces the authenticator secret of an existing account.
func (a *App) Regenerate(ctx context.Context, _ []string) error {
	alias, err := getSimpleText(a.reader, "Enter alias", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	material, err := a.orchestrator.Regenerate(callCtx, alias, email)
	cancel()
	if err != nil {
		return err
	}
	return a.enroll(ctx, material)
}

func (a *App) enroll(ctx context.Context, material *models.EnrollmentMaterial) error {
	printEnrollment(a.out, material)
	if err := a.orchestrator.EnrollmentShown(); err != nil {
		return err
	}
	return a.Verify(ctx, nil)
}

// Login asks for email, alias and a current code. Accounts whose
// authenticator was never confirmed continue with verify.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	alias, err := getSimpleText(a.reader, "Enter alias", a.out)
	if err != nil {
		return err
	}
	code, err := getCode(a.reader, a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	state, err := a.orchestrator.Login(callCtx, email, alias, code)
	cancel()
	if err != nil {
		return err
	}
	if state == models.StateAwaitingConfirmation {
		fmt.Fprintln(a.out, "Your authenticator is not confirmed yet.")
		return a.Verify(ctx, nil)
	}
	return a.Account(ctx, nil)
}

// Verify confirms a pending enrollment, or re-authorizes a stored session
// whose token was dropped.
func (a *App) Verify(ctx context.Context, _ []string) error {
	code, err := getCode(a.reader, a.out)
	if err != nil {
		return err
	}

	callCtx, cancel := a.callCtx(ctx)
	err = a.orchestrator.Confirm(callCtx, code)
	cancel()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Verified.")
	return a.Account(ctx, nil)
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.orchestrator.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
