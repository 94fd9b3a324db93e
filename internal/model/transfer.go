package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus represents the lifecycle state of a transfer.
type TransferStatus string

const (
	StatusPending   TransferStatus = "pending"
	StatusCompleted TransferStatus = "completed"
)

// Transfer is an outgoing e-transfer from the account. Amount is stored
// strictly positive; direction is a display concern.
type Transfer struct {
	ID              int64
	FromAccount     string
	ToName          string
	ToEmail         string
	Amount          decimal.Decimal
	Date            time.Time // scheduled date entered by the sender
	Message         string
	ReferenceNumber string // unique across all transfers
	Status          TransferStatus
	CreatedAt       time.Time
	CompletedAt     *time.Time // set exactly once, when the transfer settles
}

// Settled reports whether the transfer counts toward the balance.
func (t Transfer) Settled() bool {
	return t.Status == StatusCompleted
}

// TransactionID returns the storage-assigned id.
func (t Transfer) TransactionID() int64 { return t.ID }

// EffectiveTime is the single ordering timestamp: CompletedAt when the
// transfer has settled, CreatedAt otherwise.
func (t Transfer) EffectiveTime() time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.CreatedAt
}

// SignedAmount returns the amount as it affects the balance (negative).
func (t Transfer) SignedAmount() decimal.Decimal {
	return t.Amount.Neg()
}
