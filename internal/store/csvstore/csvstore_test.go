package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/store"
)

var _ store.Store = (*Store)(nil)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ts(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func sampleTransfer(ref string) model.Transfer {
	return model.Transfer{
		FromAccount:     "Chequing *** 3982",
		ToName:          "Jordan Miles",
		ToEmail:         "jordan@example.com",
		Amount:          dec("125.50"),
		Date:            ts(15, 0),
		Message:         "rent, June",
		ReferenceNumber: ref,
		Status:          model.StatusPending,
		CreatedAt:       ts(15, 9),
	}
}

func TestInsertTransfer_RoundTrip(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	id, err := st.InsertTransfer(ctx, sampleTransfer("refaaaaaaaa1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := st.GetTransfer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Miles", got.ToName)
	assert.Equal(t, "rent, June", got.Message, "commas in fields survive the codec")
	assert.True(t, got.Amount.Equal(dec("125.50")))
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, got.CreatedAt.Equal(ts(15, 9)))
}

func TestInsertTransfer_AssignsSequentialIDs(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	a, err := st.InsertTransfer(ctx, sampleTransfer("refaaaaaaaa1"))
	require.NoError(t, err)
	b, err := st.InsertTransfer(ctx, sampleTransfer("refaaaaaaaa2"))
	require.NoError(t, err)
	assert.Equal(t, a+1, b)
}

func TestInsertTransfer_DuplicateReference(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	_, err := st.InsertTransfer(ctx, sampleTransfer("refaaaaaaaa1"))
	require.NoError(t, err)

	_, err = st.InsertTransfer(ctx, sampleTransfer("refaaaaaaaa1"))
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMarkCompleted(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	id, err := st.InsertTransfer(ctx, sampleTransfer("refaaaaaaaa1"))
	require.NoError(t, err)

	completedAt := ts(16, 10)
	require.NoError(t, st.MarkCompleted(ctx, id, completedAt))

	got, err := st.GetTransfer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(completedAt))
	assert.True(t, got.EffectiveTime().Equal(completedAt), "effective time switches to completed_at")
}

func TestMarkCompleted_Unknown(t *testing.T) {
	st := New(t.TempDir())
	err := st.MarkCompleted(context.Background(), 42, ts(1, 0))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListTransfers_Filters(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	early := sampleTransfer("refaaaaaaaa1")
	early.CreatedAt = ts(1, 9)
	earlyID, err := st.InsertTransfer(ctx, early)
	require.NoError(t, err)
	require.NoError(t, st.MarkCompleted(ctx, earlyID, ts(1, 10)))

	late := sampleTransfer("refaaaaaaaa2")
	late.CreatedAt = ts(20, 9)
	lateID, err := st.InsertTransfer(ctx, late)
	require.NoError(t, err)
	require.NoError(t, st.MarkCompleted(ctx, lateID, ts(20, 10)))

	pending := sampleTransfer("refaaaaaaaa3")
	pending.CreatedAt = ts(21, 9)
	_, err = st.InsertTransfer(ctx, pending)
	require.NoError(t, err)

	all, err := st.ListTransfers(ctx, false, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed, err := st.ListTransfers(ctx, true, time.Time{})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	recent, err := st.ListTransfers(ctx, true, ts(10, 0))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, lateID, recent[0].ID)
}

func TestDeposits_RoundTrip(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	id, err := st.InsertDeposit(ctx, model.Deposit{
		FromAccount: "*** 3321",
		Amount:      dec("200.00"),
		CreatedAt:   ts(3, 9),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	deposits, err := st.ListDeposits(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	assert.True(t, deposits[0].Amount.Equal(dec("200.00")))

	// Since filter.
	none, err := st.ListDeposits(ctx, ts(10, 0))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContacts(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	id, err := st.InsertContact(ctx, model.Contact{Name: "Jordan Miles", Email: "jordan@example.com", CreatedAt: ts(1, 0)})
	require.NoError(t, err)
	_, err = st.InsertContact(ctx, model.Contact{Name: "Alex Chen", Email: "alex@example.com", CreatedAt: ts(2, 0)})
	require.NoError(t, err)

	_, err = st.InsertContact(ctx, model.Contact{Name: "Other", Email: "JORDAN@example.com", CreatedAt: ts(3, 0)})
	require.ErrorIs(t, err, store.ErrDuplicate, "email uniqueness is case-insensitive")

	got, err := st.GetContact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Miles", got.Name)

	all, err := st.ListContacts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alex Chen", all[0].Name, "ordered by name")

	matched, err := st.ListContacts(ctx, "JordAn")
	require.NoError(t, err)
	require.Len(t, matched, 1)
}

func TestFilesCreatedWithHeaders(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "data"))
	ctx := context.Background()

	_, err := st.InsertDeposit(ctx, model.Deposit{FromAccount: "*** 3321", Amount: dec("1.00"), CreatedAt: ts(1, 0)})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "data", "deposits.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), depositsHeader)
}

func TestMissingFilesReadAsEmpty(t *testing.T) {
	st := New(t.TempDir())
	ctx := context.Background()

	transfers, err := st.ListTransfers(ctx, false, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, transfers)

	_, err = st.GetTransfer(ctx, 1)
	require.ErrorIs(t, err, store.ErrNotFound)
}
