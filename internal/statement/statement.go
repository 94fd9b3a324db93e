// Package statement turns an ordered transaction sequence into the pages
// and summary of a fixed-layout account statement. It is order-agnostic:
// pages slice whatever sequence the caller provides.
package statement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/ledger"
)

// Default page capacities, tuned for a fixed A4 layout. The first page
// holds fewer rows because it carries the summary section.
const (
	DefaultFirstPageCapacity = 7
	DefaultOtherPageCapacity = 12
)

// Page is one bounded-capacity slice of the transaction list.
type Page struct {
	Number       int            `json:"page_number"`
	IsFirst      bool           `json:"is_first_page"`
	Transactions []ledger.Entry `json:"transactions"`
}

// Summary totals the statement period.
type Summary struct {
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
}

// Statement is the assembled document, ready for a renderer.
type Statement struct {
	AccountNumber string    `json:"account_number"`
	Holder        string    `json:"holder,omitempty"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	Summary       Summary   `json:"summary"`
	Pages         []Page    `json:"pages"`
	TotalPages    int       `json:"total_pages"`
}

// Paginate splits txns into pages: the first page takes up to firstCap
// entries in input order, every subsequent page up to otherCap, until the
// input is exhausted. An empty input still yields exactly one (empty)
// first page. Concatenating all pages reproduces the input exactly; no
// entry is duplicated or dropped.
func Paginate(txns []ledger.Entry, firstCap, otherCap int) ([]Page, error) {
	if firstCap < 1 {
		return nil, ledger.ValidationError{Field: "first_page_capacity", Reason: "must be at least 1"}
	}
	if otherCap < 1 {
		return nil, ledger.ValidationError{Field: "other_page_capacity", Reason: "must be at least 1"}
	}

	if len(txns) == 0 {
		return []Page{{Number: 1, IsFirst: true}}, nil
	}

	first := firstCap
	if first > len(txns) {
		first = len(txns)
	}
	pages := []Page{{Number: 1, IsFirst: true, Transactions: txns[:first]}}

	remaining := txns[first:]
	for len(remaining) > 0 {
		n := otherCap
		if n > len(remaining) {
			n = len(remaining)
		}
		pages = append(pages, Page{
			Number:       len(pages) + 1,
			Transactions: remaining[:n],
		})
		remaining = remaining[n:]
	}
	return pages, nil
}

// Summarize derives the period summary from the closing balance and the
// period's entries. The opening balance is reconstructed by undoing the
// period's net movement, so the summary always reconciles:
// opening + deposits - withdrawals = closing.
func Summarize(closingBalance decimal.Decimal, txns []ledger.Entry) Summary {
	deposits := decimal.Zero
	withdrawals := decimal.Zero
	for _, e := range txns {
		if e.Amount.IsNegative() {
			withdrawals = withdrawals.Add(e.Amount.Neg())
		} else {
			deposits = deposits.Add(e.Amount)
		}
	}
	return Summary{
		OpeningBalance:   closingBalance.Sub(deposits).Add(withdrawals),
		TotalDeposits:    deposits,
		TotalWithdrawals: withdrawals,
		ClosingBalance:   closingBalance,
	}
}

// Build assembles a Statement from entries in chronological order.
func Build(accountNumber, holder string, periodStart, periodEnd time.Time,
	closingBalance decimal.Decimal, txns []ledger.Entry, firstCap, otherCap int) (*Statement, error) {

	pages, err := Paginate(txns, firstCap, otherCap)
	if err != nil {
		return nil, err
	}
	return &Statement{
		AccountNumber: accountNumber,
		Holder:        holder,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Summary:       Summarize(closingBalance, txns),
		Pages:         pages,
		TotalPages:    len(pages),
	}, nil
}
