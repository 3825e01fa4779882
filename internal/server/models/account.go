// Package models defines server-side data models persisted by the ledger.
package models

import "time"

// Account is a ledger participant. Username is the public alias; TotpSecret
// is the base32 seed of the account's second factor and is only trusted once
// TotpConfirmed is set.
type Account struct {
	ID            string
	Name          string
	Username      string
	Email         string
	Balance       int64
	TotpSecret    string
	TotpConfirmed bool
	CreatedAt     time.Time
}
