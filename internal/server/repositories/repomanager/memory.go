package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/transactions"
)

// MemoryRepositoryManager keeps all ledger state in process memory. WithTx
// calls are serialized and rolled back by restoring a snapshot, so a single
// instance must not be shared with writers that bypass WithTx for balances.
type MemoryRepositoryManager struct {
	txMu         sync.Mutex
	accounts     *accounts.MemoryRepository
	transactions *transactions.MemoryRepository
}

var _ RepositoryManager = (*MemoryRepositoryManager)(nil)

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	acc := accounts.NewMemoryRepository()
	return &MemoryRepositoryManager{
		accounts:     acc,
		transactions: transactions.NewMemoryRepository(acc),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *MemoryRepositoryManager) Transactions() transactions.Repository { return m.transactions }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	restoreAccounts := m.accounts.Snapshot()
	restoreTransactions := m.transactions.Snapshot()

	if err := fn(ctx, Repositories{Accounts: m.accounts, Transactions: m.transactions}); err != nil {
		restoreAccounts()
		restoreTransactions()
		return err
	}
	return nil
}

func (m *MemoryRepositoryManager) Close() error { return nil }
