// Package models holds the wallet client's domain types: the persisted
// session record, the session state machine's states, second-factor
// material and transfer records.
package models

// SessionRecord is the client's persisted view of the authenticated user.
// It is stored and replaced as a whole.
type SessionRecord struct {
	Name                  string `json:"name"`
	Alias                 string `json:"username"`
	Email                 string `json:"email"`
	Balance               int64  `json:"balance"`
	SecondFactorEnrolled  bool   `json:"secondFactorEnrolled"`
	SecondFactorConfirmed bool   `json:"secondFactorConfirmed"`
	Token                 string `json:"token,omitempty"`
	// BalanceRevision is bumped whenever a transfer adopts a new balance.
	// Readers that fetched a balance before the bump must not store it.
	BalanceRevision uint64 `json:"balanceRevision,omitempty"`
}

// CanTransfer reports whether this record may authorize a funds movement.
// Unconfirmed second factor never qualifies.
func (r *SessionRecord) CanTransfer() bool {
	return r != nil && r.SecondFactorEnrolled && r.SecondFactorConfirmed && r.Alias != ""
}

// Clone returns a copy safe to mutate.
func (r *SessionRecord) Clone() *SessionRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Identity is what a user asserts when registering or recovering enrollment.
type Identity struct {
	Name  string
	Alias string
	Email string
}

// UserDetails is the ledger's view of an account.
type UserDetails struct {
	Name    string
	Alias   string
	Email   string
	Balance int64
	// Token authorizes read calls without a fresh code.
	Token string
}

// ProfileUpdate is returned by a successful profile edit.
type ProfileUpdate struct {
	User    UserDetails
	Changes []string
}

// AccountSummary is a search hit.
type AccountSummary struct {
	Name  string
	Alias string
}
