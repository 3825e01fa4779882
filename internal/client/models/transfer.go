package models

// TransferType classifies a history entry from the owner's point of view.
type TransferType string

const (
	TransferSent     TransferType = "sent"
	TransferReceived TransferType = "received"
	TransferAward    TransferType = "award"
)

// TransferRequest is what the user asks to move.
type TransferRequest struct {
	ToAlias     string
	Amount      int64
	Description string
}

// TransferRecord is one immutable ledger entry. Amount is signed: negative
// for outgoing funds.
type TransferRecord struct {
	ID          string
	Type        TransferType
	Amount      int64
	Description string
	FromAlias   string
	FromName    string
	ToAlias     string
	ToName      string
	AwardedBy   string
	CreatedAt   int64
	// Balance is the owner's balance after this entry, when known.
	Balance int64
}

// TransferResult is returned by a successful transfer.
type TransferResult struct {
	Record     TransferRecord
	NewBalance int64
}
