package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWithTx(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx))

	juan, err := m.Accounts().Create(ctx, &models.Account{Username: "juan.123", Name: "Juan"})
	require.NoError(t, err)

	t.Run("commit keeps writes", func(t *testing.T) {
		err := m.WithTx(ctx, func(ctx context.Context, r Repositories) error {
			if _, err := r.Accounts.AddBalance(ctx, juan.ID, 1000); err != nil {
				return err
			}
			return r.Transactions.Create(ctx, &models.Transaction{Kind: models.KindAward, ToAccountID: juan.ID, Amount: 1000})
		})
		require.NoError(t, err)

		got, _ := m.Accounts().GetByID(ctx, juan.ID)
		assert.Equal(t, int64(1000), got.Balance)
	})

	t.Run("error discards writes", func(t *testing.T) {
		boom := errors.New("boom")
		err := m.WithTx(ctx, func(ctx context.Context, r Repositories) error {
			_, _ = r.Accounts.AddBalance(ctx, juan.ID, -200)
			_ = r.Transactions.Create(ctx, &models.Transaction{Kind: models.KindTransfer, FromAccountID: juan.ID, ToAccountID: juan.ID, Amount: 200})
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, _ := m.Accounts().GetByID(ctx, juan.ID)
		assert.Equal(t, int64(1000), got.Balance)

		history, err := m.Transactions().ListByAccount(ctx, juan.ID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	require.NoError(t, m.Close())
}
