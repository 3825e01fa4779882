package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// TransferExecutor moves funds from the stored session's account.
//
// Contract:
//   - Every precondition is checked locally before the ledger is contacted.
//   - At most one transfer per alias is in flight; a second one fails with
//     ErrTransferInProgress.
//   - An operation token is consumed once, even if the ledger call fails.
//   - The balance returned by the ledger is adopted as is. A failed call
//     leaves the stored balance untouched.
type TransferExecutor struct {
	client   client.Client
	verifier SecondFactorVerifier
	store    session.Store
	guard    SessionGuard
	logger   logging.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewTransferExecutor(c client.Client, verifier SecondFactorVerifier, store session.Store, guard SessionGuard, logger logging.Logger) *TransferExecutor {
	return &TransferExecutor{
		client:   c,
		verifier: verifier,
		store:    store,
		guard:    guard,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Transfer executes req with a previously obtained operation token.
func (e *TransferExecutor) Transfer(ctx context.Context, req models.TransferRequest, token *models.OperationToken) (*models.TransferResult, error) {
	return e.run(ctx, req, func(context.Context, string) (*models.OperationToken, error) {
		return token, nil
	})
}

// VerifyAndTransfer obtains an operation token for code and spends it on req
// without releasing the per-alias guard in between.
func (e *TransferExecutor) VerifyAndTransfer(ctx context.Context, req models.TransferRequest, code string) (*models.TransferResult, error) {
	if err := ValidateCode(code); err != nil {
		return nil, err
	}
	return e.run(ctx, req, func(ctx context.Context, alias string) (*models.OperationToken, error) {
		return e.verifier.Verify(ctx, alias, code)
	})
}

func (e *TransferExecutor) run(ctx context.Context, req models.TransferRequest, tokenFn func(context.Context, string) (*models.OperationToken, error)) (*models.TransferResult, error) {
	rec, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("transfer error: %w", err)
	}
	if !rec.CanTransfer() {
		return nil, ErrNotAuthenticated
	}

	req.ToAlias = strings.TrimSpace(req.ToAlias)
	req.Description = strings.TrimSpace(req.Description)
	if err := ValidateTransfer(rec.Alias, req); err != nil {
		return nil, err
	}

	if !e.acquire(rec.Alias) {
		return nil, ErrTransferInProgress
	}
	defer e.release(rec.Alias)

	token, err := tokenFn(ctx, rec.Alias)
	if err != nil {
		e.handle(ctx, err)
		return nil, err
	}
	if token == nil || token.Alias != rec.Alias || !token.Consume() {
		return nil, client.ErrInvalidOrExpiredToken
	}

	res, err := e.client.Transfer(ctx, rec.Alias, req, token.Value)
	if err != nil {
		e.handle(ctx, err)
		return nil, fmt.Errorf("transfer error: %w", err)
	}

	e.adoptBalance(ctx, rec.Balance, req.Amount, res.NewBalance)
	e.logger.Info(ctx, "transfer completed", "from", rec.Alias, "to", req.ToAlias, "amount", req.Amount, "id", res.Record.ID)

	out := *res
	out.Record.Type = models.TransferSent
	out.Record.Amount = -req.Amount
	if out.Record.ToAlias == "" {
		out.Record.ToAlias = req.ToAlias
	}
	if out.Record.FromAlias == "" {
		out.Record.FromAlias = rec.Alias
	}
	if out.Record.Description == "" {
		out.Record.Description = req.Description
	}
	out.Record.Balance = res.NewBalance
	return &out, nil
}

func (e *TransferExecutor) adoptBalance(ctx context.Context, previous, amount, authoritative int64) {
	if expected := previous - amount; expected != authoritative {
		e.logger.Warn(ctx, "ledger balance diverges from local arithmetic", "expected", expected, "ledger", authoritative)
	}
	_, err := e.store.Update(ctx, func(rec *models.SessionRecord) error {
		rec.Balance = authoritative
		rec.BalanceRevision++
		return nil
	})
	if err != nil {
		// the transfer happened; the next restore refreshes the balance
		e.logger.Warn(ctx, "failed to store new balance", "error", err)
	}
}

func (e *TransferExecutor) handle(ctx context.Context, err error) {
	if errors.Is(err, client.ErrSessionInvalid) {
		e.guard.Invalidate(ctx, err)
	}
}

func (e *TransferExecutor) acquire(alias string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[alias]; busy {
		return false
	}
	e.inFlight[alias] = struct{}{}
	return true
}

func (e *TransferExecutor) release(alias string) {
	e.mu.Lock()
	delete(e.inFlight, alias)
	e.mu.Unlock()
}
