package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	mu sync.Mutex

	LoginRet  *models.UserDetails
	LoginErr  error
	LoginHook func()

	RegisterRet *models.EnrollmentMaterial
	RegisterErr error

	ConfirmErr error

	RegenerateRet *models.EnrollmentMaterial
	RegenerateErr error

	VerifyErr error

	TransferRet  *models.TransferResult
	TransferErr  error
	TransferHook func()

	HistoryRet []models.TransferRecord
	HistoryErr error

	SearchRet []models.AccountSummary
	SearchErr error

	EditRet *models.ProfileUpdate
	EditErr error

	ChangeEmailErr error

	PingErr error

	// argument capture
	LoginCalls     int
	LastLoginAlias string
	LastLoginCode  string
	RegisterCalls  int
	ConfirmCalls   int
	VerifyCalls    int
	TransferCalls  int
	LastTransfer   models.TransferRequest
	LastFrom       string
	LastOpToken    string
	LastHistory    [2]string
	LastEdit       [4]string
	LastNewEmail   string
}

func (f *fakeClient) Close() error                   { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Login(ctx context.Context, alias, code string) (*models.UserDetails, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastLoginAlias, f.LastLoginCode = alias, code
	f.mu.Unlock()
	if f.LoginHook != nil {
		f.LoginHook()
	}
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	u := *f.LoginRet
	return &u, nil
}

func (f *fakeClient) Register(ctx context.Context, id models.Identity) (*models.EnrollmentMaterial, error) {
	f.mu.Lock()
	f.RegisterCalls++
	f.mu.Unlock()
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	m := *f.RegisterRet
	return &m, nil
}

func (f *fakeClient) ConfirmEnrollment(ctx context.Context, alias, code string) error {
	f.mu.Lock()
	f.ConfirmCalls++
	f.mu.Unlock()
	return f.ConfirmErr
}

func (f *fakeClient) RegenerateEnrollment(ctx context.Context, alias, email string) (*models.EnrollmentMaterial, error) {
	if f.RegenerateErr != nil {
		return nil, f.RegenerateErr
	}
	m := *f.RegenerateRet
	return &m, nil
}

func (f *fakeClient) VerifySecondFactor(ctx context.Context, alias, code string) (*models.OperationToken, error) {
	f.mu.Lock()
	f.VerifyCalls++
	f.mu.Unlock()
	if f.VerifyErr != nil {
		return nil, f.VerifyErr
	}
	return models.NewOperationToken("op-"+code, alias, time.Now()), nil
}

func (f *fakeClient) Transfer(ctx context.Context, from string, req models.TransferRequest, token string) (*models.TransferResult, error) {
	f.mu.Lock()
	f.TransferCalls++
	f.LastFrom, f.LastTransfer, f.LastOpToken = from, req, token
	f.mu.Unlock()
	if f.TransferHook != nil {
		f.TransferHook()
	}
	if f.TransferErr != nil {
		return nil, f.TransferErr
	}
	r := *f.TransferRet
	return &r, nil
}

func (f *fakeClient) History(ctx context.Context, alias, token string) ([]models.TransferRecord, error) {
	f.LastHistory = [2]string{alias, token}
	return f.HistoryRet, f.HistoryErr
}

func (f *fakeClient) SearchAccounts(ctx context.Context, prefix string) ([]models.AccountSummary, error) {
	return f.SearchRet, f.SearchErr
}

func (f *fakeClient) EditProfile(ctx context.Context, alias, token, name, newAlias string) (*models.ProfileUpdate, error) {
	f.LastEdit = [4]string{alias, token, name, newAlias}
	if f.EditErr != nil {
		return nil, f.EditErr
	}
	u := *f.EditRet
	return &u, nil
}

func (f *fakeClient) ChangeEmail(ctx context.Context, alias, code, newEmail string) error {
	f.LastNewEmail = newEmail
	return f.ChangeEmailErr
}

// fakeGuard records what services asked of the orchestrator.
type fakeGuard struct {
	mu          sync.Mutex
	invalidated []error
	logouts     int
}

func (g *fakeGuard) Invalidate(ctx context.Context, cause error) {
	g.mu.Lock()
	g.invalidated = append(g.invalidated, cause)
	g.mu.Unlock()
}

func (g *fakeGuard) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.logouts++
	g.mu.Unlock()
	return nil
}

func juanRecord() *models.SessionRecord {
	return &models.SessionRecord{
		Name:                  "Juan",
		Alias:                 "juan.123",
		Email:                 "juan@example.com",
		Balance:               1000,
		SecondFactorEnrolled:  true,
		SecondFactorConfirmed: true,
		Token:                 "session-token",
	}
}

func juanDetails() *models.UserDetails {
	return &models.UserDetails{
		Name:    "Juan",
		Alias:   "juan.123",
		Email:   "juan@example.com",
		Balance: 1000,
		Token:   "session-token",
	}
}
