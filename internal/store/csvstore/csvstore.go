// Package csvstore is a plain-file store.Store: one CSV file per record
// kind under a data directory. Files are human-readable and append-mostly;
// settling a transfer rewrites transfers.csv in place.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/store"
)

const (
	transfersFile = "transfers.csv"
	depositsFile  = "deposits.csv"
	contactsFile  = "contacts.csv"
)

// Store reads and writes CSV files under dir. A single mutex serializes
// all operations; that is this store's whole isolation guarantee.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a Store rooted at dir. The directory is created on first
// write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// readRows reads all data rows of a CSV file, skipping the header.
// A missing file reads as empty.
func (s *Store) readRows(name string, numFields int) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

// appendRow appends one row to a CSV file, creating the directory and the
// header when the file is new.
func (s *Store) appendRow(name, header string, row []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if isNew {
		if err := cw.Write(strings.Split(header, ",")); err != nil {
			return fmt.Errorf("writing %s header: %w", name, err)
		}
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("writing %s row: %w", name, err)
	}
	cw.Flush()
	return cw.Error()
}

// writeAll rewrites a CSV file from scratch (header plus all rows).
func (s *Store) writeAll(name, header string, rows [][]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing %s header: %w", name, err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) readTransfers() ([]model.Transfer, error) {
	rows, err := s.readRows(transfersFile, transferNumFields)
	if err != nil {
		return nil, err
	}
	transfers := make([]model.Transfer, 0, len(rows))
	for i, row := range rows {
		t, err := unmarshalTransfer(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", transfersFile, i+2, err)
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

func (s *Store) readDeposits() ([]model.Deposit, error) {
	rows, err := s.readRows(depositsFile, depositNumFields)
	if err != nil {
		return nil, err
	}
	deposits := make([]model.Deposit, 0, len(rows))
	for i, row := range rows {
		d, err := unmarshalDeposit(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", depositsFile, i+2, err)
		}
		deposits = append(deposits, d)
	}
	return deposits, nil
}

func (s *Store) readContacts() ([]model.Contact, error) {
	rows, err := s.readRows(contactsFile, contactNumFields)
	if err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(rows))
	for i, row := range rows {
		c, err := unmarshalContact(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", contactsFile, i+2, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// nextID returns one past the highest id among the given ids.
func nextID(ids []int64) int64 {
	var max int64
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// InsertTransfer appends a transfer and returns its id.
func (s *Store) InsertTransfer(_ context.Context, t model.Transfer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readTransfers()
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(existing))
	for _, e := range existing {
		if e.ReferenceNumber == t.ReferenceNumber {
			return 0, store.ErrDuplicate
		}
		ids = append(ids, e.ID)
	}

	t.ID = nextID(ids)
	if err := s.appendRow(transfersFile, transfersHeader, marshalTransfer(t)); err != nil {
		return 0, err
	}
	return t.ID, nil
}

// GetTransfer returns a transfer by id.
func (s *Store) GetTransfer(_ context.Context, id int64) (model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transfers, err := s.readTransfers()
	if err != nil {
		return model.Transfer{}, err
	}
	for _, t := range transfers {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Transfer{}, store.ErrNotFound
}

// MarkCompleted rewrites transfers.csv with the transfer completed at the
// given instant.
func (s *Store) MarkCompleted(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transfers, err := s.readTransfers()
	if err != nil {
		return err
	}

	found := false
	rows := make([][]string, 0, len(transfers))
	for _, t := range transfers {
		if t.ID == id {
			completedAt := at
			t.Status = model.StatusCompleted
			t.CompletedAt = &completedAt
			found = true
		}
		rows = append(rows, marshalTransfer(t))
	}
	if !found {
		return store.ErrNotFound
	}
	return s.writeAll(transfersFile, transfersHeader, rows)
}

// ListTransfers returns transfers whose effective time is at or after
// since. A zero since means no lower bound.
func (s *Store) ListTransfers(_ context.Context, completedOnly bool, since time.Time) ([]model.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transfers, err := s.readTransfers()
	if err != nil {
		return nil, err
	}

	var out []model.Transfer
	for _, t := range transfers {
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

	transfers, err := s.readTransfers()
	if err != nil {
		return false, err
	}
	for _, t := range transfers {
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

	existing, err := s.readDeposits()
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.ID)
	}

	d.ID = nextID(ids)
	if err := s.appendRow(depositsFile, depositsHeader, marshalDeposit(d)); err != nil {
		return 0, err
	}
	return d.ID, nil
}

// ListDeposits returns deposits created at or after since. A zero since
// means no lower bound.
func (s *Store) ListDeposits(_ context.Context, since time.Time) ([]model.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deposits, err := s.readDeposits()
	if err != nil {
		return nil, err
	}

	var out []model.Deposit
	for _, d := range deposits {
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

	existing, err := s.readContacts()
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(existing))
	for _, e := range existing {
		if strings.EqualFold(e.Email, c.Email) {
			return 0, store.ErrDuplicate
		}
		ids = append(ids, e.ID)
	}

	c.ID = nextID(ids)
	if err := s.appendRow(contactsFile, contactsHeader, marshalContact(c)); err != nil {
		return 0, err
	}
	return c.ID, nil
}

// GetContact returns a contact by id.
func (s *Store) GetContact(_ context.Context, id int64) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.readContacts()
	if err != nil {
		return model.Contact{}, err
	}
	for _, c := range contacts {
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

	contacts, err := s.readContacts()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(search)
	var out []model.Contact
	for _, c := range contacts {
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
