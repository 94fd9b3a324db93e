package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/statement"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$5,299.34", Currency(dec("5299.34")))
	assert.Equal(t, "$0.00", Currency(decimal.Zero))
	assert.Equal(t, "-$100.25", Currency(dec("-100.25")))
	assert.Equal(t, "$1,234,567.80", Currency(dec("1234567.8")))
	assert.Equal(t, "$999.99", Currency(dec("999.99")))
	assert.Equal(t, "$1,000.00", Currency(dec("1000")))
}

func TestLongDate(t *testing.T) {
	got := LongDate(time.Date(2025, 6, 15, 9, 5, 0, 0, time.UTC))
	assert.Equal(t, "JUNE 15, 2025 at 9:05", got)
}

func TestDescribe(t *testing.T) {
	transfer := ledger.Entry{Kind: ledger.KindTransfer, Counterparty: "Jordan Miles", Reference: "CAvKm3pQ9dWx"}
	assert.Equal(t, "INTERAC e-Transfer To: Jordan Miles", Describe(transfer))
	assert.Equal(t, "Ref: CAvKm3pQ9dWx", Category(transfer))

	dep := ledger.Entry{Kind: ledger.KindDeposit, Counterparty: "*** 3321"}
	assert.Equal(t, "Deposit from *** 3321 account", Describe(dep))
	assert.Equal(t, "Deposit", Category(dep))
}

func sampleStatement(t *testing.T) *statement.Statement {
	t.Helper()
	txns := []ledger.Entry{
		{
			Kind:         ledger.KindDeposit,
			ID:           1,
			OccurredAt:   time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
			Amount:       dec("200.00"),
			Counterparty: "*** 3321",
			BalanceAfter: dec("5499.34"),
		},
		{
			Kind:         ledger.KindTransfer,
			ID:           2,
			OccurredAt:   time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC),
			Amount:       dec("-100.25"),
			Counterparty: "Jordan Miles",
			Reference:    "CAvKm3pQ9dWx",
			BalanceAfter: dec("5399.09"),
		},
	}
	st, err := statement.Build("*** 3982", "Jordan Miles",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		dec("5399.09"), txns, 7, 12)
	require.NoError(t, err)
	return st
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, sampleStatement(t)))
	out := buf.String()

	assert.Contains(t, out, "ACCOUNT STATEMENT  *** 3982")
	assert.Contains(t, out, "Page 1 of 1")
	assert.Contains(t, out, "INTERAC e-Transfer To: Jordan Miles")
	assert.Contains(t, out, "JUNE 15, 2025 at 14:30")
	assert.Contains(t, out, "-$100.25")
	assert.Contains(t, out, "$5,399.09")
}

func TestTextRenderer_EmptyStatement(t *testing.T) {
	st, err := statement.Build("*** 3982", "", time.Time{}, time.Time{}, dec("500.00"), nil, 7, 12)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&TextRenderer{}).Render(&buf, st))
	assert.Contains(t, buf.String(), "No transactions in this period.")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONRenderer{}).Render(&buf, sampleStatement(t)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "*** 3982", decoded["account_number"])
	assert.EqualValues(t, 1, decoded["total_pages"])
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.NotNil(t, reg.Get("text"))
	assert.NotNil(t, reg.Get("JSON"), "lookup is case-insensitive")
	assert.Nil(t, reg.Get("pdf"))
	assert.ElementsMatch(t, []string{"text", "json"}, reg.Formats())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&TextRenderer{})
	assert.Panics(t, func() { reg.Register(&TextRenderer{}) })
}
