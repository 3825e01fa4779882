// Package repomanager vends repository implementations for one storage
// backend (PostgreSQL or process memory) and runs multi-step writes
// atomically.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophwallet/internal/server/repositories/transactions"
)

// Repositories bundles the repositories bound to a single unit of work.
type Repositories struct {
	Accounts     accounts.Repository
	Transactions transactions.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Accounts() accounts.Repository
	Transactions() transactions.Repository
	// WithTx runs fn with repositories bound to one transaction. Nothing fn
	// wrote survives when it returns an error.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Close() error
}
