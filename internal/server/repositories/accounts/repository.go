// Package accounts persists ledger accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/server/models"
)

// Repository stores accounts. Lookups of missing rows return
// common.ErrorNotFound; a duplicate username yields common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, a *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// GetByUsernameForUpdate locks the row until the surrounding transaction ends.
	GetByUsernameForUpdate(ctx context.Context, username string) (*models.Account, error)
	// ReplaceSecret stores a new TOTP seed and clears the confirmation flag.
	ReplaceSecret(ctx context.Context, id, secret string) error
	ConfirmSecret(ctx context.Context, id string) error
	// AddBalance applies delta and returns the resulting balance.
	AddBalance(ctx context.Context, id string, delta int64) (int64, error)
	UpdateProfile(ctx context.Context, id, name, username string) error
	UpdateEmail(ctx context.Context, id, email string) error
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Account, error)
}
