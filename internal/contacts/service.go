// Package contacts manages the saved transfer recipients of an account.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/store"
)

// ErrContactNotFound means the contact id does not exist.
var ErrContactNotFound = errors.New("contact not found")

// Service provides contact directory operations over a ContactStore.
type Service struct {
	store store.ContactStore
	now   func() time.Time
}

// NewService creates a contacts Service.
func NewService(st store.ContactStore) *Service {
	return &Service{store: st, now: time.Now}
}

// Add saves a new contact. Email must be unique among all contacts.
func (s *Service) Add(ctx context.Context, name, email string) (model.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return model.Contact{}, ledger.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return model.Contact{}, ledger.ValidationError{Field: "email", Reason: "must be an email address"}
	}

	c := model.Contact{Name: name, Email: email, CreatedAt: s.now()}
	id, err := s.store.InsertContact(ctx, c)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.Contact{}, ledger.ValidationError{Field: "email", Reason: fmt.Sprintf("contact with email %s already exists", email)}
		}
		return model.Contact{}, fmt.Errorf("inserting contact: %w", err)
	}
	c.ID = id
	return c, nil
}

// Search returns contacts whose name or email matches term
// (case-insensitive), ordered by name. An empty term returns all.
func (s *Service) Search(ctx context.Context, term string) ([]model.Contact, error) {
	out, err := s.store.ListContacts(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return out, nil
}

// Get returns a contact by id.
func (s *Service) Get(ctx context.Context, id int64) (model.Contact, error) {
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Contact{}, fmt.Errorf("contact %d: %w", id, ErrContactNotFound)
		}
		return model.Contact{}, fmt.Errorf("loading contact %d: %w", id, err)
	}
	return c, nil
}
