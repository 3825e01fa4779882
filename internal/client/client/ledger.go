package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// LedgerClient implements Client over either transport.
type LedgerClient struct {
	t transport
}

var _ Client = (*LedgerClient)(nil)

func newLedgerClient(t transport) *LedgerClient {
	return &LedgerClient{t: t}
}

func (c *LedgerClient) Close() error {
	return c.t.close()
}

func (c *LedgerClient) Ping(ctx context.Context) error {
	var resp api.HealthResponse
	if err := c.t.call(ctx, routePing, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *LedgerClient) Login(ctx context.Context, alias, code string) (*models.UserDetails, error) {
	var resp api.UserDetailsResponse
	req := api.UserDetailsRequest{Username: alias, TotpToken: code}
	if err := c.t.call(ctx, routeUserDetails, req, &resp); err != nil {
		return nil, err
	}

	// Ledgers without session tokens accept the code itself for read calls.
	token := resp.Token
	if token == "" {
		token = code
	}
	return userFromAPI(resp.User, token), nil
}

func (c *LedgerClient) Register(ctx context.Context, identity models.Identity) (*models.EnrollmentMaterial, error) {
	var resp api.RegisterResponse
	req := api.RegisterRequest{Name: identity.Name, Username: identity.Alias, Email: identity.Email}
	if err := c.t.call(ctx, routeRegister, req, &resp); err != nil {
		return nil, err
	}
	return materialFromAPI(resp.TotpSetup), nil
}

func (c *LedgerClient) ConfirmEnrollment(ctx context.Context, alias, code string) error {
	var resp api.Envelope
	req := api.VerifyTOTPSetupRequest{Username: alias, TotpToken: code}
	return c.t.call(ctx, routeVerifyTOTPSetup, req, &resp)
}

func (c *LedgerClient) RegenerateEnrollment(ctx context.Context, alias, email string) (*models.EnrollmentMaterial, error) {
	var resp api.RegisterResponse
	req := api.RegenerateTOTPRequest{Username: alias, Email: email}
	if err := c.t.call(ctx, routeRegenerateTOTP, req, &resp); err != nil {
		return nil, err
	}
	return materialFromAPI(resp.TotpSetup), nil
}

func (c *LedgerClient) VerifySecondFactor(ctx context.Context, alias, code string) (*models.OperationToken, error) {
	var resp api.VerifyTOTPResponse
	req := api.VerifyTOTPRequest{Username: alias, TotpToken: code}
	if err := c.t.call(ctx, routeVerifyTOTP, req, &resp); err != nil {
		return nil, err
	}
	if resp.OperationToken == "" {
		return nil, fmt.Errorf("%w: empty operation token", ErrUnavailable)
	}
	return operationToken(resp.OperationToken, alias), nil
}

func (c *LedgerClient) Transfer(ctx context.Context, from string, r models.TransferRequest, token string) (*models.TransferResult, error) {
	var resp api.TransferResponse
	req := api.TransferRequest{
		FromUsername:   from,
		ToUsername:     r.ToAlias,
		Amount:         r.Amount,
		Description:    r.Description,
		OperationToken: token,
	}
	if err := c.t.call(ctx, routeTransfer, req, &resp); err != nil {
		return nil, err
	}
	return transferFromAPI(resp.Transfer), nil
}

func (c *LedgerClient) History(ctx context.Context, alias, token string) ([]models.TransferRecord, error) {
	var resp api.TransactionsResponse
	req := api.TransactionsRequest{Username: alias, TotpToken: token}
	if err := c.t.call(ctx, routeTransactions, req, &resp); err != nil {
		return nil, err
	}
	return historyFromAPI(resp.Transactions), nil
}

func (c *LedgerClient) SearchAccounts(ctx context.Context, prefix string) ([]models.AccountSummary, error) {
	var resp api.SearchUsersResponse
	if err := c.t.call(ctx, routeSearchUsers, api.SearchUsersRequest{Query: prefix}, &resp); err != nil {
		return nil, err
	}
	return summariesFromAPI(resp.Users), nil
}

func (c *LedgerClient) EditProfile(ctx context.Context, alias, token, name, newAlias string) (*models.ProfileUpdate, error) {
	var resp api.EditProfileResponse
	req := api.EditProfileRequest{Username: alias, Token: token, Name: name, NewUsername: newAlias}
	if err := c.t.call(ctx, routeEditProfile, req, &resp); err != nil {
		return nil, err
	}
	return &models.ProfileUpdate{User: *userFromAPI(resp.User, resp.Token), Changes: resp.Changes}, nil
}

func (c *LedgerClient) ChangeEmail(ctx context.Context, alias, code, newEmail string) error {
	var resp api.Envelope
	req := api.ChangeEmailRequest{Username: alias, TotpToken: code, NewEmail: newEmail}
	return c.t.call(ctx, routeChangeEmail, req, &resp)
}
