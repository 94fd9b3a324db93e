package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/passbook-dev/passbook/internal/statement"
)

// TextRenderer writes a fixed-width plain-text statement.
type TextRenderer struct{}

// Format returns the renderer name.
func (r *TextRenderer) Format() string { return "text" }

const textRule = "--------------------------------------------------------------------------------"

// Render writes the statement to w.
func (r *TextRenderer) Render(w io.Writer, st *statement.Statement) error {
	var b strings.Builder

	fmt.Fprintf(&b, "ACCOUNT STATEMENT  %s\n", st.AccountNumber)
	if st.Holder != "" {
		fmt.Fprintf(&b, "%s\n", st.Holder)
	}
	fmt.Fprintf(&b, "Period: %s to %s\n",
		st.PeriodStart.Format("January 2, 2006"), st.PeriodEnd.Format("January 2, 2006"))
	fmt.Fprintln(&b, textRule)

	fmt.Fprintf(&b, "Opening balance    %14s\n", Currency(st.Summary.OpeningBalance))
	fmt.Fprintf(&b, "Total deposits     %14s\n", Currency(st.Summary.TotalDeposits))
	fmt.Fprintf(&b, "Total withdrawals  %14s\n", Currency(st.Summary.TotalWithdrawals))
	fmt.Fprintf(&b, "Closing balance    %14s\n", Currency(st.Summary.ClosingBalance))

	for _, page := range st.Pages {
		fmt.Fprintln(&b, textRule)
		fmt.Fprintf(&b, "Page %d of %d\n", page.Number, st.TotalPages)
		if len(page.Transactions) == 0 {
			fmt.Fprintln(&b, "No transactions in this period.")
			continue
		}
		for _, e := range page.Transactions {
			fmt.Fprintf(&b, "%-28s %-42s %13s\n",
				LongDate(e.OccurredAt), Describe(e), Currency(e.Amount))
			fmt.Fprintf(&b, "%-28s %-42s %13s\n",
				"", Category(e), Currency(e.BalanceAfter))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
