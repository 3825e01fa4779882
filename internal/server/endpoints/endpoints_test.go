package endpoints

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophwallet/internal/server/services"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEndpoints() *Endpoints {
	return New(services.NewLedger(services.Deps{
		Repos:       repomanager.NewMemoryRepositoryManager(),
		Issuer:      auth.NewIssuer([]byte("k"), time.Minute, time.Hour),
		Codes:       auth.NewTOTP("GophWallet"),
		SignupAward: 1000,
	}))
}

func signUp(t *testing.T, e *Endpoints, name, username string) string {
	t.Helper()
	ctx := context.Background()
	reg, err := e.Register(ctx, api.RegisterRequest{Name: name, Username: username, Email: username + "@example.com"})
	require.NoError(t, err)
	secret := reg.TotpSetup.ManualSetupCode

	env, err := e.VerifyTOTPSetup(ctx, api.VerifyTOTPSetupRequest{Username: username, TotpToken: now(t, secret)})
	require.NoError(t, err)
	require.True(t, env.Success)
	return secret
}

func now(t *testing.T, secret string) string {
	t.Helper()
	c, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return c
}

func TestEndpoints_Flow(t *testing.T) {
	ctx := context.Background()
	e := newEndpoints()

	health, err := e.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", health.Status)

	juan := signUp(t, e, "Juan", "juan.123")
	ana := signUp(t, e, "Ana", "ana.55")

	details, err := e.UserDetails(ctx, api.UserDetailsRequest{Username: "juan.123", TotpToken: now(t, juan)})
	require.NoError(t, err)
	assert.Equal(t, api.User{Name: "Juan", Username: "juan.123", Email: "juan.123@example.com", Balance: 1000}, details.User)
	require.NotEmpty(t, details.Token)

	op, err := e.VerifyTOTP(ctx, api.VerifyTOTPRequest{Username: "juan.123", TotpToken: now(t, juan)})
	require.NoError(t, err)
	assert.InDelta(t, 60, op.ExpiresIn, 1)

	tr, err := e.Transfer(ctx, api.TransferRequest{
		FromUsername: "juan.123", ToUsername: "ana.55", Amount: 200, Description: "lunch", OperationToken: op.OperationToken,
	})
	require.NoError(t, err)
	assert.True(t, tr.Success)
	assert.Equal(t, int64(800), tr.Transfer.From.NewBalance)
	assert.Equal(t, "Ana", tr.Transfer.To.Name)
	assert.Zero(t, tr.Transfer.To.NewBalance, "recipient balance is not disclosed")

	history, err := e.Transactions(ctx, api.TransactionsRequest{Username: "ana.55", TotpToken: now(t, ana)})
	require.NoError(t, err)
	require.Len(t, history.Transactions, 2)
	assert.Equal(t, api.TxReceived, history.Transactions[0].Type)
	assert.Equal(t, int64(200), history.Transactions[0].Amount)
	assert.Equal(t, api.TxAward, history.Transactions[1].Type)

	mine, err := e.Transactions(ctx, api.TransactionsRequest{Username: "juan.123", TotpToken: details.Token})
	require.NoError(t, err)
	assert.Equal(t, int64(-200), mine.Transactions[0].Amount)

	found, err := e.SearchUsers(ctx, api.SearchUsersRequest{Query: "an"})
	require.NoError(t, err)
	assert.Equal(t, []api.UserSummary{{Name: "Ana", Username: "ana.55"}}, found.Users)

	edited, err := e.EditProfile(ctx, api.EditProfileRequest{Username: "juan.123", Token: details.Token, Name: "Juan P"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, edited.Changes)
	assert.Equal(t, "Juan P", edited.User.Name)
	assert.Equal(t, int64(800), edited.User.Balance)

	env, err := e.ChangeEmail(ctx, api.ChangeEmailRequest{Username: "juan.123", TotpToken: now(t, juan), NewEmail: "juan@new.example"})
	require.NoError(t, err)
	assert.True(t, env.Success)
}

func TestEndpoints_SearchNeverNil(t *testing.T) {
	found, err := newEndpoints().SearchUsers(context.Background(), api.SearchUsersRequest{Query: "zz"})
	require.NoError(t, err)
	assert.NotNil(t, found.Users)
}

func TestEndpoints_RegenerateAndErrors(t *testing.T) {
	ctx := context.Background()
	e := newEndpoints()
	signUp(t, e, "Juan", "juan.123")

	reg, err := e.RegenerateTOTP(ctx, api.RegenerateTOTPRequest{Username: "juan.123", Email: "juan.123@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.TotpSetup.QRCodeURL)

	_, err = e.UserDetails(ctx, api.UserDetailsRequest{Username: "juan.123", TotpToken: now(t, reg.TotpSetup.ManualSetupCode)})
	assert.Equal(t, api.CodeVerificationRequired, Classify(err).Code)

	_, err = e.UserDetails(ctx, api.UserDetailsRequest{Username: "nobody", TotpToken: "123456"})
	assert.Equal(t, api.CodeUserNotFound, Classify(err).Code)
}
