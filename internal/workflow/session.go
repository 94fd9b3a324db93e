// Package workflow drives the multi-step send-money flow: select a
// contact, enter the amount and date, review, send. All step state lives
// in a caller-owned Session rather than anything process-wide, so two
// flows never observe each other.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/contacts"
	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/refnum"
)

var (
	// ErrNoContact means a step ran before a contact was selected.
	ErrNoContact = errors.New("no contact selected")

	// ErrNoDetails means a step ran before transfer details were entered.
	ErrNoDetails = errors.New("no transfer details entered")

	// ErrAlreadySent means Send was called on a spent session.
	ErrAlreadySent = errors.New("transfer already sent")
)

// Details are the transfer inputs gathered in the second step.
type Details struct {
	Amount  decimal.Decimal
	Date    time.Time
	Message string
}

// Review is the read-back of the flow state shown before sending.
type Review struct {
	Contact model.Contact
	Details Details
}

// Receipt is the outcome of a sent transfer.
type Receipt struct {
	TransferID      int64
	ReferenceNumber string
	NewBalance      decimal.Decimal
}

// Session is one in-progress send-money flow. It is single-use and not
// safe for concurrent use; each caller owns its own Session.
type Session struct {
	id          string
	ledger      *ledger.Service
	contacts    *contacts.Service
	fromAccount string

	contact *model.Contact
	details *Details
	receipt *Receipt
}

// NewSession starts a send-money flow drawing from fromAccount.
func NewSession(l *ledger.Service, c *contacts.Service, fromAccount string) *Session {
	return &Session{
		id:          ulid.Make().String(),
		ledger:      l,
		contacts:    c,
		fromAccount: fromAccount,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// SelectContact completes the first step by loading a saved contact.
func (s *Session) SelectContact(ctx context.Context, contactID int64) error {
	c, err := s.contacts.Get(ctx, contactID)
	if err != nil {
		return err
	}
	s.contact = &c
	return nil
}

// EnterDetails completes the second step. It requires a selected contact
// and a positive amount.
func (s *Session) EnterDetails(amount decimal.Decimal, date time.Time, message string) error {
	if s.contact == nil {
		return ErrNoContact
	}
	if !amount.IsPositive() {
		return ledger.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	s.details = &Details{Amount: amount, Date: date, Message: message}
	return nil
}

// Review returns the pending transfer for confirmation.
func (s *Session) Review() (Review, error) {
	if s.contact == nil {
		return Review{}, ErrNoContact
	}
	if s.details == nil {
		return Review{}, ErrNoDetails
	}
	return Review{Contact: *s.contact, Details: *s.details}, nil
}

// Send records the transfer under a fresh reference number and settles it
// immediately; the simulation treats every transfer as instantly accepted
// by the recipient. The session is spent afterward.
func (s *Session) Send(ctx context.Context) (Receipt, error) {
	if s.receipt != nil {
		return Receipt{}, ErrAlreadySent
	}
	if s.contact == nil {
		return Receipt{}, ErrNoContact
	}
	if s.details == nil {
		return Receipt{}, ErrNoDetails
	}

	ref, err := refnum.Generate()
	if err != nil {
		return Receipt{}, fmt.Errorf("generating reference number: %w", err)
	}

	id, err := s.ledger.RecordTransfer(ctx, ledger.TransferParams{
		FromAccount:     s.fromAccount,
		ToName:          s.contact.Name,
		ToEmail:         s.contact.Email,
		Amount:          s.details.Amount,
		Date:            s.details.Date,
		Message:         s.details.Message,
		ReferenceNumber: ref,
	})
	if err != nil {
		return Receipt{}, err
	}
	if err := s.ledger.SettleTransfer(ctx, id); err != nil {
		return Receipt{}, err
	}

	balance, err := s.ledger.CurrentBalance(ctx)
	if err != nil {
		return Receipt{}, err
	}

	s.receipt = &Receipt{TransferID: id, ReferenceNumber: ref, NewBalance: balance}
	return *s.receipt, nil
}
