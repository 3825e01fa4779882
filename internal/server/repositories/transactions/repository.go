// Package transactions persists the ledger's balance movements.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.Transaction) error
	// ListByAccount returns every transaction the account took part in,
	// newest first, with party names resolved.
	ListByAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}
