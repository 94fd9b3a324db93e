// Package memstore is an in-memory store.Store. It backs tests and any
// run that does not need durability.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/store"
)

// Store holds all records in memory. Safe for concurrent use; mutations
// are serialized by a single mutex, which is the whole of this store's
// isolation guarantee.
type Store struct {
	mu        sync.Mutex
	transfers []model.Transfer
	deposits  []model.Deposit
	contacts  []model.Contact
	nextID    int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// InsertTransfer appends a transfer and returns its id.
func (s *Store) InsertTransfer(_ context.Context, t model.Transfer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.transfers {
		if existing.ReferenceNumber == t.ReferenceNumber {
			return 0, store.ErrDuplicate
		}
	}

	t.ID = s.allocID()
	s.transfers = append(s.transfers, t)
	return t.ID, nil
}

// GetTransfer returns a transfer by id.
func (s *Store) GetTransfer(_ context.Context, id int64) (model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transfers {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Transfer{}, store.ErrNotFound
}

// MarkCompleted transitions a transfer to completed at the given instant.
func (s *Store) MarkCompleted(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transfers {
		if t.ID == id {
			completedAt := at
			s.transfers[i].Status = model.StatusCompleted
			s.transfers[i].CompletedAt = &completedAt
			return nil
		}
	}
	return store.ErrNotFound
}

// ListTransfers returns transfers whose effective time is at or after
// since. A zero since means no lower bound.
func (s *Store) ListTransfers(_ context.Context, completedOnly bool, since time.Time) ([]model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Transfer
	for _, t := range s.transfers {
		if completedOnly && !t.Settled() {
			continue
		}
		if !since.IsZero() && t.EffectiveTime().Before(since) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ReferenceExists reports whether a transfer already uses ref.
func (s *Store) ReferenceExists(_ context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transfers {
		if t.ReferenceNumber == ref {
			return true, nil
		}
	}
	return false, nil
}

// InsertDeposit appends a deposit and returns its id.
func (s *Store) InsertDeposit(_ context.Context, d model.Deposit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.allocID()
	s.deposits = append(s.deposits, d)
	return d.ID, nil
}

// ListDeposits returns deposits created at or after since. A zero since
// means no lower bound.
func (s *Store) ListDeposits(_ context.Context, since time.Time) ([]model.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Deposit
	for _, d := range s.deposits {
		if !since.IsZero() && d.CreatedAt.Before(since) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// InsertContact appends a contact. Email must be unique (case-insensitive).
func (s *Store) InsertContact(_ context.Context, c model.Contact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.contacts {
		if strings.EqualFold(existing.Email, c.Email) {
			return 0, store.ErrDuplicate
		}
	}

	c.ID = s.allocID()
	s.contacts = append(s.contacts, c)
	return c.ID, nil
}

// GetContact returns a contact by id.
func (s *Store) GetContact(_ context.Context, id int64) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Contact{}, store.ErrNotFound
}

// ListContacts returns contacts matching search in name or email
// (case-insensitive), ordered by name. An empty search matches all.
func (s *Store) ListContacts(_ context.Context, search string) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(search)
	var out []model.Contact
	for _, c := range s.contacts {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
