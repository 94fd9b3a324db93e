package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is money added to the account from another account.
type Deposit struct {
	ID          int64
	FromAccount string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// TransactionID returns the storage-assigned id.
func (d Deposit) TransactionID() int64 { return d.ID }

// EffectiveTime is the deposit's ordering timestamp.
func (d Deposit) EffectiveTime() time.Time { return d.CreatedAt }

// SignedAmount returns the amount as it affects the balance (positive).
func (d Deposit) SignedAmount() decimal.Decimal { return d.Amount }
