package models

import "time"

// Transaction kinds.
const (
	KindTransfer = "transfer"
	KindAward    = "award"
)

// Transaction is one balance movement. FromAccountID is empty for awards.
// The From*/To* name fields are filled in by reads only.
type Transaction struct {
	ID            string
	Kind          string
	FromAccountID string
	ToAccountID   string
	Amount        int64
	Description   string
	AwardedBy     string
	CreatedAt     time.Time

	FromUsername string
	FromName     string
	ToUsername   string
	ToName       string
}
