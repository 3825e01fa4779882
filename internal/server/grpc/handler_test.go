package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func dialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func startBufconn(t *testing.T) *bufconn.Listener {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer("bufnet", nopLogger{}, newEndpoints()).newServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return lis
}

func code(t *testing.T, secret string) string {
	t.Helper()
	c, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return c
}

func TestLedgerService_RawInvoke(t *testing.T) {
	lis := startBufconn(t)
	conn, err := grpc.NewClient("passthrough:///bufnet", dialer(lis),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()

	var (
		health api.HealthResponse
		header metadata.MD
	)
	require.NoError(t, conn.Invoke(ctx, api.FullMethod(api.MethodPing), &struct{}{}, &health, grpc.Header(&header)))
	assert.Equal(t, "OK", health.Status)
	assert.NotEmpty(t, header.Get(api.RequestIDKey))

	var (
		reg     api.RegisterResponse
		trailer metadata.MD
	)
	err = conn.Invoke(ctx, api.FullMethod(api.MethodRegister),
		&api.RegisterRequest{Name: "Juan", Username: "Bad Alias", Email: "juan@example.com"}, &reg,
		grpc.Trailer(&trailer))
	require.Error(t, err)
	assert.Equal(t, []string{api.CodeValidation}, trailer.Get(api.ErrorCodeKey))
}

// TestWalletClientInterop runs the wallet's gRPC client against the service.
func TestWalletClientInterop(t *testing.T) {
	lis := startBufconn(t)
	c, err := client.NewGRPCClient("passthrough:///bufnet", logging.Discard(), dialer(lis))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	juan, err := c.Register(ctx, models.Identity{Name: "Juan", Alias: "juan.123", Email: "juan@example.com"})
	require.NoError(t, err)
	require.NoError(t, c.ConfirmEnrollment(ctx, "juan.123", code(t, juan.Secret)))

	ana, err := c.Register(ctx, models.Identity{Name: "Ana", Alias: "ana.55", Email: "ana@example.com"})
	require.NoError(t, err)
	require.NoError(t, c.ConfirmEnrollment(ctx, "ana.55", code(t, ana.Secret)))

	op, err := c.VerifySecondFactor(ctx, "juan.123", code(t, juan.Secret))
	require.NoError(t, err)

	_, err = c.Transfer(ctx, "juan.123", models.TransferRequest{ToAlias: "ghost", Amount: 10, Description: "x"}, op.Value)
	require.ErrorIs(t, err, client.ErrUnknownRecipient)

	op, err = c.VerifySecondFactor(ctx, "juan.123", code(t, juan.Secret))
	require.NoError(t, err)
	res, err := c.Transfer(ctx, "juan.123", models.TransferRequest{ToAlias: "ana.55", Amount: 200, Description: "lunch"}, op.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(800), res.NewBalance)

	found, err := c.SearchAccounts(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []models.AccountSummary{{Name: "Ana", Alias: "ana.55"}}, found)

	history, err := c.History(ctx, "ana.55", code(t, ana.Secret))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.TransferReceived, history[0].Type)
	assert.Equal(t, int64(200), history[0].Amount)
}
