package models

import (
	"sync/atomic"
	"time"
)

// EnrollmentMaterial is shown to the user once so they can add the account to
// an authenticator app. It is never persisted.
type EnrollmentMaterial struct {
	Secret          string
	ProvisioningURI string
	QRCodeURL       string
}

// OperationToken authorizes exactly one funds movement for one alias.
type OperationToken struct {
	Value    string
	Alias    string
	IssuedAt time.Time

	consumed atomic.Bool
}

func NewOperationToken(value, alias string, issuedAt time.Time) *OperationToken {
	return &OperationToken{Value: value, Alias: alias, IssuedAt: issuedAt}
}

// Consume marks the token used. It returns false if it was already used.
func (t *OperationToken) Consume() bool {
	return t.consumed.CompareAndSwap(false, true)
}

func (t *OperationToken) Consumed() bool {
	return t.consumed.Load()
}
