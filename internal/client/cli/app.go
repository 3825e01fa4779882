package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/config"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophwallet/internal/client/services"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	client       client.Client
	orchestrator *services.Orchestrator
	transfers    *services.TransferExecutor
	accounts     *services.AccountService
	logger       logging.Logger
	reader       *bufio.Reader
	out          io.Writer
	closers      []func() error

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the session database, connects to the ledger with the
// configured transport and wires the services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	c, err := dial(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error connecting to ledger: %w", err)
	}

	db, err := session.OpenSQLite(ctx, cfg.SessionDBPath)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("error initializing session database: %w", err)
	}

	var key []byte
	if cfg.SessionKeyFile != "" {
		if key, err = session.DeviceKey(cfg.SessionKeyFile); err != nil {
			_ = db.Close()
			_ = c.Close()
			return nil, err
		}
	}

	a := newApp(cfg, c, session.NewSQLiteStore(db, key), logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func dial(cfg *config.Config, logger logging.Logger) (client.Client, error) {
	switch cfg.Transport {
	case config.TransportGRPC:
		return client.NewGRPCClient(cfg.GRPCEndpointAddr, logger)
	default:
		return client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, logger), nil
	}
}

func newApp(cfg *config.Config, c client.Client, store session.Store, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	enrollment := services.NewEnrollmentManager(c, logger)
	orchestrator := services.NewOrchestrator(c, store, enrollment, logger)
	verifier := services.NewSecondFactorVerifier(c, logger)

	return &App{
		config:       cfg,
		client:       c,
		orchestrator: orchestrator,
		transfers:    services.NewTransferExecutor(c, verifier, store, orchestrator, logger),
		accounts:     services.NewAccountService(c, store, orchestrator, logger),
		logger:       logger,
		reader:       reader,
		out:          out,
	}
}

// Run restores the previous session and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to GophWallet (type 'help' for commands)")

	state, err := a.orchestrator.Restore(ctx)
	if err != nil {
		fmt.Fprintln(a.out, userMessage(err))
	}
	switch state {
	case models.StateAuthenticated:
		if err := a.Account(ctx, nil); err != nil {
			fmt.Fprintln(a.out, userMessage(err))
		}
	case models.StateAwaitingConfirmation:
		fmt.Fprintln(a.out, "Your session needs a fresh code. Type 'verify' to continue.")
	}

	if a.config.OnlineCheckInterval > 0 {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() {
	if err := a.client.Close(); err != nil {
		a.logger.Warn(context.Background(), "error closing ledger client", "error", err)
	}
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.orchestrator.State() == models.StateAuthenticated
}

func (a *App) state() models.State {
	return a.orchestrator.State()
}

// callCtx bounds a single ledger call.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "ledger connectivity changed", "mode", string(mode))
	}
}

func (a *App) getMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the ledger every interval and records the
// result for the prompt. It never retries failed commands.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) getStatus() string {
	s := ""
	rec, err := a.orchestrator.Session(context.Background())
	hasRecord := err == nil && rec != nil
	if hasRecord && a.isLoggedIn() {
		s = rec.Alias
	} else if hasRecord && a.state() == models.StateAwaitingConfirmation {
		s = rec.Alias + " locked"
	} else if alias := a.orchestrator.PendingAlias(); alias != "" {
		s = alias + " unconfirmed"
	}
	if m := a.getMode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
