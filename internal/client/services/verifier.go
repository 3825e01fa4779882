// Package services contains the wallet client's business logic: the session
// state machine, second-factor verification and enrollment, the transfer
// executor and read-only account operations. Services talk to the ledger only
// through client.Client and persist state only through session.Store.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophwallet/internal/client/client"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
)

// SecondFactorVerifier exchanges a fresh code for a single-use operation
// token. Tokens are never cached.
type SecondFactorVerifier interface {
	Verify(ctx context.Context, alias, code string) (*models.OperationToken, error)
}

type secondFactorVerifier struct {
	client client.Client
	logger logging.Logger
}

func NewSecondFactorVerifier(c client.Client, logger logging.Logger) SecondFactorVerifier {
	return &secondFactorVerifier{client: c, logger: logger}
}

// Verify validates inputs locally and only then asks the ledger.
// Malformed codes never leave the process.
func (v *secondFactorVerifier) Verify(ctx context.Context, alias, code string) (*models.OperationToken, error) {
	if alias == "" {
		return nil, client.Invalid("alias", "is required")
	}
	if err := ValidateCode(code); err != nil {
		return nil, err
	}

	token, err := v.client.VerifySecondFactor(ctx, alias, code)
	if err != nil {
		v.logger.Debug(ctx, "second factor rejected", "alias", alias, "error", err)
		return nil, fmt.Errorf("verify error: %w", err)
	}
	if token.Alias != alias {
		return nil, fmt.Errorf("verify error: %w", client.ErrInvalidOrExpiredToken)
	}
	return token, nil
}
