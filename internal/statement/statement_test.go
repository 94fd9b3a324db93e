package statement

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passbook-dev/passbook/internal/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entries(n int) []ledger.Entry {
	out := make([]ledger.Entry, n)
	for i := range out {
		out[i] = ledger.Entry{
			Kind:       ledger.KindDeposit,
			ID:         int64(i + 1),
			OccurredAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			Amount:     decimal.NewFromInt(int64(i + 1)),
		}
	}
	return out
}

func TestPaginate_EmptyInputYieldsOneEmptyFirstPage(t *testing.T) {
	pages, err := Paginate(nil, 7, 12)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
	assert.True(t, pages[0].IsFirst)
	assert.Empty(t, pages[0].Transactions)
}

func TestPaginate_ExactFirstPageFit(t *testing.T) {
	pages, err := Paginate(entries(7), 7, 12)
	require.NoError(t, err)
	require.Len(t, pages, 1, "no empty second page")
	assert.Len(t, pages[0].Transactions, 7)
}

func TestPaginate_OneOverflowing(t *testing.T) {
	pages, err := Paginate(entries(8), 7, 12)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Transactions, 7)
	assert.True(t, pages[0].IsFirst)
	assert.Len(t, pages[1].Transactions, 1)
	assert.False(t, pages[1].IsFirst)
	assert.Equal(t, 2, pages[1].Number)
}

func TestPaginate_LosslessPartition(t *testing.T) {
	for _, tc := range []struct{ n, first, other int }{
		{0, 7, 12}, {1, 7, 12}, {7, 7, 12}, {8, 7, 12}, {19, 7, 12},
		{20, 7, 12}, {31, 7, 12}, {5, 1, 1}, {9, 3, 4},
	} {
		t.Run(fmt.Sprintf("n=%d_first=%d_other=%d", tc.n, tc.first, tc.other), func(t *testing.T) {
			input := entries(tc.n)
			pages, err := Paginate(input, tc.first, tc.other)
			require.NoError(t, err)

			var flat []ledger.Entry
			for i, p := range pages {
				assert.Equal(t, i+1, p.Number, "page numbering is 1-based and contiguous")
				assert.Equal(t, i == 0, p.IsFirst)
				flat = append(flat, p.Transactions...)
			}
			require.Len(t, flat, tc.n)
			for i := range flat {
				assert.Equal(t, input[i].ID, flat[i].ID, "pagination must preserve input order")
			}
		})
	}
}

func TestPaginate_InvalidCapacity(t *testing.T) {
	_, err := Paginate(entries(3), 0, 12)
	var verr ledger.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "first_page_capacity", verr.Field)

	_, err = Paginate(entries(3), 7, -1)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "other_page_capacity", verr.Field)
}

func TestSummarize(t *testing.T) {
	txns := []ledger.Entry{
		{Amount: dec("100.00")},
		{Amount: dec("-30.50")},
		{Amount: dec("-9.50")},
		{Amount: dec("40.00")},
	}
	sum := Summarize(dec("850.00"), txns)

	assert.True(t, sum.TotalDeposits.Equal(dec("140.00")), "got %s", sum.TotalDeposits)
	assert.True(t, sum.TotalWithdrawals.Equal(dec("40.00")), "got %s", sum.TotalWithdrawals)
	assert.True(t, sum.OpeningBalance.Equal(dec("750.00")), "got %s", sum.OpeningBalance)
	assert.True(t, sum.ClosingBalance.Equal(dec("850.00")))

	// Reconciliation: opening + deposits - withdrawals = closing.
	assert.True(t, sum.OpeningBalance.Add(sum.TotalDeposits).Sub(sum.TotalWithdrawals).Equal(sum.ClosingBalance))
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(dec("500.00"), nil)
	assert.True(t, sum.OpeningBalance.Equal(dec("500.00")))
	assert.True(t, sum.ClosingBalance.Equal(dec("500.00")))
	assert.True(t, sum.TotalDeposits.IsZero())
	assert.True(t, sum.TotalWithdrawals.IsZero())
}

func TestBuild(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	st, err := Build("*** 3982", "Jordan Miles", start, end, dec("1000.00"), entries(9), 7, 12)
	require.NoError(t, err)

	assert.Equal(t, "*** 3982", st.AccountNumber)
	assert.Equal(t, 2, st.TotalPages)
	require.Len(t, st.Pages, 2)
	assert.True(t, st.Summary.ClosingBalance.Equal(dec("1000.00")))
}

func TestBuild_InvalidCapacity(t *testing.T) {
	_, err := Build("*** 3982", "", time.Time{}, time.Time{}, decimal.Zero, entries(2), 7, 0)
	var verr ledger.ValidationError
	require.ErrorAs(t, err, &verr)
}
