package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lunch = models.TransferRequest{ToAlias: "ana.55", Amount: 200, Description: "lunch"}

func okTransfer(newBalance int64) *models.TransferResult {
	return &models.TransferResult{
		Record:     models.TransferRecord{ID: "tx-1", FromAlias: "juan.123", ToAlias: "ana.55", Description: "lunch", CreatedAt: 1700000000},
		NewBalance: newBalance,
	}
}

func newExecutor(t *testing.T, fc *fakeClient, rec *models.SessionRecord) (*TransferExecutor, *session.MemoryStore, *fakeGuard) {
	t.Helper()
	store := session.NewMemoryStore()
	if rec != nil {
		require.NoError(t, store.Save(context.Background(), rec))
	}
	guard := &fakeGuard{}
	e := NewTransferExecutor(fc, NewSecondFactorVerifier(fc, logging.Discard()), store, guard, logging.Discard())
	return e, store, guard
}

func balance(t *testing.T, store session.Store) int64 {
	t.Helper()
	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.Balance
}

func TestTransfer_Success(t *testing.T) {
	fc := &fakeClient{TransferRet: okTransfer(800)}
	e, store, _ := newExecutor(t, fc, juanRecord())

	res, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
	require.NoError(t, err)

	assert.Equal(t, int64(800), res.NewBalance)
	assert.Equal(t, models.TransferSent, res.Record.Type)
	assert.Equal(t, int64(-200), res.Record.Amount)
	assert.Equal(t, int64(800), balance(t, store))
	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.BalanceRevision)
	assert.Equal(t, "juan.123", fc.LastFrom)
	assert.Equal(t, "op-123456", fc.LastOpToken)
}

func TestTransfer_AdoptsAuthoritativeBalance(t *testing.T) {
	// ledger applied an incoming payment concurrently
	fc := &fakeClient{TransferRet: okTransfer(850)}
	e, store, _ := newExecutor(t, fc, juanRecord())

	_, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
	require.NoError(t, err)
	assert.Equal(t, int64(850), balance(t, store))
}

func TestTransfer_FailuresKeepBalance(t *testing.T) {
	for _, want := range []error{
		client.ErrInsufficientFunds,
		client.ErrUnknownRecipient,
		client.ErrInvalidOrExpiredToken,
		client.ErrUnavailable,
		client.Invalid("amount", "too large"),
		client.ErrTransferRejected,
	} {
		fc := &fakeClient{TransferErr: want}
		e, store, guard := newExecutor(t, fc, juanRecord())

		_, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
		require.ErrorIs(t, err, want)
		assert.Equal(t, int64(1000), balance(t, store))
		rec, _ := store.Load(context.Background())
		assert.Zero(t, rec.BalanceRevision)
		assert.Empty(t, guard.invalidated)
	}
}

func TestTransfer_SessionInvalidHandsOffToGuard(t *testing.T) {
	fc := &fakeClient{TransferErr: client.ErrSessionInvalid}
	e, _, guard := newExecutor(t, fc, juanRecord())

	_, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
	require.ErrorIs(t, err, client.ErrSessionInvalid)
	require.Len(t, guard.invalidated, 1)
}

func TestTransfer_VerifyFailureNeverTransfers(t *testing.T) {
	fc := &fakeClient{VerifyErr: client.ErrInvalidCode}
	e, store, _ := newExecutor(t, fc, juanRecord())

	_, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
	require.ErrorIs(t, err, client.ErrInvalidCode)
	assert.Zero(t, fc.TransferCalls)
	assert.Equal(t, int64(1000), balance(t, store))
}

func TestTransfer_LocalValidationFirst(t *testing.T) {
	fc := &fakeClient{}
	e, _, _ := newExecutor(t, fc, juanRecord())
	ctx := context.Background()

	bad := []models.TransferRequest{
		{ToAlias: "ana.55", Amount: 0, Description: "x"},
		{ToAlias: "juan.123", Amount: 10, Description: "x"},
		{ToAlias: "", Amount: 10, Description: "x"},
		{ToAlias: "ana.55", Amount: 10, Description: ""},
	}
	for _, req := range bad {
		_, err := e.VerifyAndTransfer(ctx, req, "123456")
		require.ErrorIs(t, err, client.ErrValidation)
	}
	_, err := e.VerifyAndTransfer(ctx, lunch, "12x456")
	require.ErrorIs(t, err, client.ErrValidation)

	assert.Zero(t, fc.VerifyCalls)
	assert.Zero(t, fc.TransferCalls)
}

func TestTransfer_RequiresConfirmedSession(t *testing.T) {
	unconfirmed := juanRecord()
	unconfirmed.SecondFactorConfirmed = false

	for _, rec := range []*models.SessionRecord{nil, unconfirmed} {
		fc := &fakeClient{}
		e, _, _ := newExecutor(t, fc, rec)
		_, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
		require.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Zero(t, fc.VerifyCalls)
	}
}

func TestTransfer_TokenIsSingleUse(t *testing.T) {
	fc := &fakeClient{TransferRet: okTransfer(800)}
	e, store, _ := newExecutor(t, fc, juanRecord())
	ctx := context.Background()

	tok := models.NewOperationToken("op", "juan.123", time.Now())
	_, err := e.Transfer(ctx, lunch, tok)
	require.NoError(t, err)

	_, err = e.Transfer(ctx, lunch, tok)
	require.ErrorIs(t, err, client.ErrInvalidOrExpiredToken)
	assert.Equal(t, 1, fc.TransferCalls)
	assert.Equal(t, int64(800), balance(t, store))
}

func TestTransfer_TokenForOtherAlias(t *testing.T) {
	fc := &fakeClient{TransferRet: okTransfer(800)}
	e, _, _ := newExecutor(t, fc, juanRecord())

	_, err := e.Transfer(context.Background(), lunch, models.NewOperationToken("op", "ana.55", time.Now()))
	require.ErrorIs(t, err, client.ErrInvalidOrExpiredToken)
	_, err = e.Transfer(context.Background(), lunch, nil)
	require.ErrorIs(t, err, client.ErrInvalidOrExpiredToken)
	assert.Zero(t, fc.TransferCalls)
}

func TestTransfer_ConcurrentSameAliasRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fc := &fakeClient{
		TransferRet: okTransfer(800),
		TransferHook: func() {
			once.Do(func() { close(entered) })
			<-release
		},
	}
	e, store, _ := newExecutor(t, fc, juanRecord())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := e.VerifyAndTransfer(ctx, lunch, "123456")
		done <- err
	}()
	<-entered

	_, err := e.VerifyAndTransfer(ctx, lunch, "654321")
	require.ErrorIs(t, err, ErrTransferInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fc.TransferCalls)
	assert.Equal(t, int64(800), balance(t, store))

	// the guard is released afterwards
	_, err = e.VerifyAndTransfer(ctx, lunch, "111111")
	require.NoError(t, err)
}

func TestTransfer_SessionClearedMidFlightStillSucceeds(t *testing.T) {
	fc := &fakeClient{TransferRet: okTransfer(800)}
	e, store, _ := newExecutor(t, fc, juanRecord())
	fc.TransferHook = func() { _ = store.Clear(context.Background()) }

	res, err := e.VerifyAndTransfer(context.Background(), lunch, "123456")
	require.NoError(t, err)
	assert.Equal(t, int64(800), res.NewBalance)
	rec, _ := store.Load(context.Background())
	assert.Nil(t, rec)
}
