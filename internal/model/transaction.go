package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the union of the two record kinds the ledger tracks.
// Both Transfer and Deposit implement it.
type Transaction interface {
	TransactionID() int64
	EffectiveTime() time.Time
	SignedAmount() decimal.Decimal
}
