package client

import (
	"context"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// Client is the collaborator contract towards the remote ledger and identity
// service. Implementations translate transport failures into the sentinel
// errors of this package and never retry.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	// Login fetches the account, proving possession of the second factor with
	// code. A pending enrollment yields ErrVerificationRequired.
	Login(ctx context.Context, alias, code string) (*models.UserDetails, error)
	Register(ctx context.Context, identity models.Identity) (*models.EnrollmentMaterial, error)
	ConfirmEnrollment(ctx context.Context, alias, code string) error
	RegenerateEnrollment(ctx context.Context, alias, email string) (*models.EnrollmentMaterial, error)

	// VerifySecondFactor exchanges a code for a single-use operation token.
	VerifySecondFactor(ctx context.Context, alias, code string) (*models.OperationToken, error)
	Transfer(ctx context.Context, from string, req models.TransferRequest, token string) (*models.TransferResult, error)

	History(ctx context.Context, alias, token string) ([]models.TransferRecord, error)
	SearchAccounts(ctx context.Context, prefix string) ([]models.AccountSummary, error)
	EditProfile(ctx context.Context, alias, token, name, newAlias string) (*models.ProfileUpdate, error)
	ChangeEmail(ctx context.Context, alias, code, newEmail string) error
}
