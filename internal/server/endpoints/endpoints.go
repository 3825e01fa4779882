// Package endpoints adapts the ledger service to the api wire types. The REST
// and gRPC transports are thin shells around the same Endpoints.
package endpoints

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/services"
)

type Endpoints struct {
	ledger *services.Ledger
}

func New(ledger *services.Ledger) *Endpoints {
	return &Endpoints{ledger: ledger}
}

func ok(msg string) api.Envelope {
	return api.Envelope{Success: true, Message: msg}
}

func (e *Endpoints) Health(ctx context.Context) (*api.HealthResponse, error) {
	if err := e.ledger.Ping(ctx); err != nil {
		return nil, err
	}
	return &api.HealthResponse{Status: "OK"}, nil
}

func (e *Endpoints) UserDetails(ctx context.Context, req api.UserDetailsRequest) (*api.UserDetailsResponse, error) {
	a, token, err := e.ledger.UserDetails(ctx, req.Username, req.TotpToken)
	if err != nil {
		return nil, err
	}
	return &api.UserDetailsResponse{Envelope: ok(""), User: userToAPI(a), Token: token}, nil
}

func (e *Endpoints) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	enr, err := e.ledger.Register(ctx, req.Name, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	return &api.RegisterResponse{
		Envelope:  ok("scan the QR code and confirm with a code from your authenticator"),
		TotpSetup: setupToAPI(enr),
	}, nil
}

func (e *Endpoints) VerifyTOTPSetup(ctx context.Context, req api.VerifyTOTPSetupRequest) (*api.Envelope, error) {
	if err := e.ledger.ConfirmEnrollment(ctx, req.Username, req.TotpToken); err != nil {
		return nil, err
	}
	env := ok("two-factor authentication confirmed")
	return &env, nil
}

func (e *Endpoints) RegenerateTOTP(ctx context.Context, req api.RegenerateTOTPRequest) (*api.RegisterResponse, error) {
	enr, err := e.ledger.RegenerateEnrollment(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	return &api.RegisterResponse{Envelope: ok("new TOTP material issued"), TotpSetup: setupToAPI(enr)}, nil
}

func (e *Endpoints) Transactions(ctx context.Context, req api.TransactionsRequest) (*api.TransactionsResponse, error) {
	list, err := e.ledger.Transactions(ctx, req.Username, req.TotpToken)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	out := make([]api.Transaction, 0, len(list))
	for _, t := range list {
		out = append(out, transactionToAPI(t, username))
	}
	return &api.TransactionsResponse{Envelope: ok(""), Transactions: out}, nil
}

func (e *Endpoints) VerifyTOTP(ctx context.Context, req api.VerifyTOTPRequest) (*api.VerifyTOTPResponse, error) {
	issued, err := e.ledger.VerifyTOTP(ctx, req.Username, req.TotpToken)
	if err != nil {
		return nil, err
	}
	return &api.VerifyTOTPResponse{
		Envelope:       ok(""),
		OperationToken: issued.Token,
		ExpiresIn:      int64(time.Until(issued.ExpiresAt).Round(time.Second) / time.Second),
	}, nil
}

func (e *Endpoints) Transfer(ctx context.Context, req api.TransferRequest) (*api.TransferResponse, error) {
	res, err := e.ledger.Transfer(ctx, services.TransferInput{
		From:           req.FromUsername,
		To:             req.ToUsername,
		Amount:         req.Amount,
		Description:    req.Description,
		OperationToken: req.OperationToken,
	})
	if err != nil {
		return nil, err
	}
	return &api.TransferResponse{Envelope: ok("transfer completed"), Transfer: transferToAPI(res)}, nil
}

func (e *Endpoints) SearchUsers(ctx context.Context, req api.SearchUsersRequest) (*api.SearchUsersResponse, error) {
	found, err := e.ledger.SearchUsers(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	users := make([]api.UserSummary, 0, len(found))
	for _, a := range found {
		users = append(users, api.UserSummary{Name: a.Name, Username: a.Username})
	}
	return &api.SearchUsersResponse{Envelope: ok(""), Users: users}, nil
}

func (e *Endpoints) EditProfile(ctx context.Context, req api.EditProfileRequest) (*api.EditProfileResponse, error) {
	res, err := e.ledger.EditProfile(ctx, req.Username, req.Token, req.Name, req.NewUsername)
	if err != nil {
		return nil, err
	}
	return &api.EditProfileResponse{
		Envelope: ok("profile updated"),
		User:     userToAPI(res.Account),
		Changes:  res.Changes,
		Token:    res.Token,
	}, nil
}

func (e *Endpoints) ChangeEmail(ctx context.Context, req api.ChangeEmailRequest) (*api.Envelope, error) {
	if err := e.ledger.ChangeEmail(ctx, req.Username, req.TotpToken, req.NewEmail); err != nil {
		return nil, err
	}
	env := ok("email updated")
	return &env, nil
}
