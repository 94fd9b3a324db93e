package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/ledger"
)

// Currency formats an amount like "$5,299.34"; negative amounts render as
// "-$100.25".
func Currency(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), frac)
}

// LongDate formats a timestamp like "JUNE 15, 2025 at 9:05".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s %d, %d at %d:%02d",
		strings.ToUpper(t.Month().String()), t.Day(), t.Year(), t.Hour(), t.Minute())
}

// Describe returns the one-line description of a history entry.
func Describe(e ledger.Entry) string {
	if e.Kind == ledger.KindTransfer {
		return "INTERAC e-Transfer To: " + e.Counterparty
	}
	return fmt.Sprintf("Deposit from %s account", e.Counterparty)
}

// Category returns the secondary line shown under the description.
func Category(e ledger.Entry) string {
	if e.Kind == ledger.KindTransfer {
		return "Ref: " + e.Reference
	}
	return "Deposit"
}
