// Package store defines the storage contracts the ledger and contact
// directory are written against. Implementations own durability and the
// serialization of mutating operations; callers never open, commit, or
// close a connection themselves.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/passbook-dev/passbook/internal/model"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("store: record not found")

// ErrDuplicate is returned when an insert violates a uniqueness rule
// (contact email, transfer reference number).
var ErrDuplicate = errors.New("store: duplicate record")

// TransferStore reads and writes transfer records. A zero since value
// means no lower time bound. List filtering uses the transfer's effective
// time (completed_at when set, created_at otherwise).
type TransferStore interface {
	InsertTransfer(ctx context.Context, t model.Transfer) (int64, error)
	GetTransfer(ctx context.Context, id int64) (model.Transfer, error)
	MarkCompleted(ctx context.Context, id int64, at time.Time) error
	ListTransfers(ctx context.Context, completedOnly bool, since time.Time) ([]model.Transfer, error)
	ReferenceExists(ctx context.Context, ref string) (bool, error)
}

// DepositStore reads and writes deposit records.
type DepositStore interface {
	InsertDeposit(ctx context.Context, d model.Deposit) (int64, error)
	ListDeposits(ctx context.Context, since time.Time) ([]model.Deposit, error)
}

// ContactStore reads and writes the contact directory.
type ContactStore interface {
	InsertContact(ctx context.Context, c model.Contact) (int64, error)
	GetContact(ctx context.Context, id int64) (model.Contact, error)
	ListContacts(ctx context.Context, search string) ([]model.Contact, error)
}

// Store combines all record stores for a single account.
type Store interface {
	TransferStore
	DepositStore
	ContactStore
}
