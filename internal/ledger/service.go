// Package ledger derives the account balance and the annotated transaction
// history from an append-only record of transfers and deposits. The balance
// is never stored; it is recomputed from the settled transaction set on
// every read, which keeps it reconstructible from history alone.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/store"
)

// Service provides balance and history computation for one account.
type Service struct {
	store   ledgerStore
	opening decimal.Decimal
	now     func() time.Time
}

// ledgerStore is the slice of store.Store the ledger needs.
type ledgerStore interface {
	store.TransferStore
	store.DepositStore
}

// NewService creates a ledger Service seeded with the account's opening
// balance.
func NewService(st ledgerStore, openingBalance decimal.Decimal) *Service {
	return &Service{store: st, opening: openingBalance, now: time.Now}
}

// CurrentBalance recomputes the balance from the settled transaction set:
// opening balance minus completed transfers plus deposits. The result
// depends only on the multiset of settled amounts, not insertion order.
func (s *Service) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	transfers, err := s.store.ListTransfers(ctx, true, time.Time{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing transfers: %w", err)
	}
	deposits, err := s.store.ListDeposits(ctx, time.Time{})
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing deposits: %w", err)
	}

	balance := s.opening
	for _, t := range transfers {
		balance = balance.Sub(t.Amount)
	}
	for _, d := range deposits {
		balance = balance.Add(d.Amount)
	}
	return balance, nil
}

// TransferParams holds the inputs for recording a transfer.
type TransferParams struct {
	FromAccount     string
	ToName          string
	ToEmail         string
	Amount          decimal.Decimal
	Date            time.Time
	Message         string
	ReferenceNumber string
}

// RecordTransfer appends a new transfer in pending state and returns its
// id. Pending transfers do not affect the balance until settled.
func (s *Service) RecordTransfer(ctx context.Context, p TransferParams) (int64, error) {
	if !p.Amount.IsPositive() {
		return 0, ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if p.ReferenceNumber == "" {
		return 0, ValidationError{Field: "reference_number", Reason: "must not be empty"}
	}

	exists, err := s.store.ReferenceExists(ctx, p.ReferenceNumber)
	if err != nil {
		return 0, fmt.Errorf("checking reference number: %w", err)
	}
	if exists {
		return 0, ValidationError{Field: "reference_number", Reason: "already in use"}
	}

	id, err := s.store.InsertTransfer(ctx, model.Transfer{
		FromAccount:     p.FromAccount,
		ToName:          p.ToName,
		ToEmail:         p.ToEmail,
		Amount:          p.Amount,
		Date:            p.Date,
		Message:         p.Message,
		ReferenceNumber: p.ReferenceNumber,
		Status:          model.StatusPending,
		CreatedAt:       s.now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return 0, ValidationError{Field: "reference_number", Reason: "already in use"}
		}
		return 0, fmt.Errorf("inserting transfer: %w", err)
	}
	return id, nil
}

// SettleTransfer transitions a pending transfer to completed, stamping the
// completion instant. Settling an unknown id returns ErrTransferNotFound;
// settling twice returns ErrAlreadySettled with the ledger unchanged.
func (s *Service) SettleTransfer(ctx context.Context, id int64) error {
	t, err := s.store.GetTransfer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("settling transfer %d: %w", id, ErrTransferNotFound)
		}
		return fmt.Errorf("loading transfer %d: %w", id, err)
	}
	if t.Settled() {
		return fmt.Errorf("settling transfer %d: %w", id, ErrAlreadySettled)
	}

	if err := s.store.MarkCompleted(ctx, id, s.now()); err != nil {
		return fmt.Errorf("marking transfer %d completed: %w", id, err)
	}
	return nil
}

// RecordDeposit appends a deposit and returns its id.
func (s *Service) RecordDeposit(ctx context.Context, fromAccount string, amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	id, err := s.store.InsertDeposit(ctx, model.Deposit{
		FromAccount: fromAccount,
		Amount:      amount,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("inserting deposit: %w", err)
	}
	return id, nil
}

// EntryKind tags the transaction variant an Entry was built from.
type EntryKind string

const (
	KindTransfer EntryKind = "transfer"
	KindDeposit  EntryKind = "deposit"
)

// Entry is one annotated row of the account history. Amount is signed:
// negative for outgoing transfers, positive for deposits. BalanceAfter is
// the account balance immediately after the transaction occurred.
type Entry struct {
	Kind         EntryKind       `json:"kind"`
	ID           int64           `json:"id"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty"`
	Reference    string          `json:"reference,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// History returns the settled transfers and deposits of the last
// windowDays days, most recent first, each annotated with the balance as
// of immediately after it. The list is truncated to limit entries after
// sorting, so the oldest entries drop first.
//
// Running balances are reconstructed by walking backward from
// CurrentBalance: each entry's BalanceAfter is the value before undoing
// that entry's own effect, then the effect is undone (transfer amounts
// added back, deposit amounts subtracted) before moving to the next
// older entry.
func (s *Service) History(ctx context.Context, windowDays, limit int) ([]Entry, error) {
	if windowDays <= 0 || limit <= 0 {
		return nil, nil
	}
	since := s.now().AddDate(0, 0, -windowDays)

	transfers, err := s.store.ListTransfers(ctx, true, since)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	deposits, err := s.store.ListDeposits(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing deposits: %w", err)
	}

	entries := make([]Entry, 0, len(transfers)+len(deposits))
	for _, t := range transfers {
		entries = append(entries, Entry{
			Kind:         KindTransfer,
			ID:           t.ID,
			OccurredAt:   t.EffectiveTime(),
			Amount:       t.SignedAmount(),
			Counterparty: t.ToName,
			Reference:    t.ReferenceNumber,
		})
	}
	for _, d := range deposits {
		entries = append(entries, Entry{
			Kind:         KindDeposit,
			ID:           d.ID,
			OccurredAt:   d.EffectiveTime(),
			Amount:       d.SignedAmount(),
			Counterparty: d.FromAccount,
		})
	}

	// Most recent first; ties broken by id, descending, so repeated calls
	// over identical input produce identical output.
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.After(entries[j].OccurredAt)
		}
		return entries[i].ID > entries[j].ID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	running, err := s.CurrentBalance(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].BalanceAfter = running
		running = running.Sub(entries[i].Amount)
	}
	return entries, nil
}
