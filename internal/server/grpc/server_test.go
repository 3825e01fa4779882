package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/endpoints"
	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophwallet/internal/server/services"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func newEndpoints() *endpoints.Endpoints {
	return endpoints.New(services.NewLedger(services.Deps{
		Repos:       repomanager.NewMemoryRepositoryManager(),
		Issuer:      auth.NewIssuer([]byte("secret"), time.Minute, time.Hour),
		Codes:       auth.NewTOTP("GophWallet"),
		SignupAward: 1000,
	}))
}

func freeAddr(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	addr := freeAddr(t)
	srv := NewGRPCServer(addr, nopLogger{}, newEndpoints())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	c, err := client.NewGRPCClient(addr, logging.Discard())
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool {
		pctx, pcancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer pcancel()
		return c.Ping(pctx) == nil
	}, 3*time.Second, 50*time.Millisecond, "ledger never answered Ping")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "graceful stop must not be reported as an error")
	case <-time.After(2 * time.Second):
		t.Fatal("server kept running after cancel")
	}
}

func TestRun_InvalidAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, newEndpoints())
	require.Error(t, srv.Run(context.Background()))
}
