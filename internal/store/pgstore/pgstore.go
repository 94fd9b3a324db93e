// Package pgstore is a PostgreSQL store.Store backed by a pgx connection
// pool. Mutating operations rely on PostgreSQL's own atomicity; the
// ledger never manages transactions itself.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/passbook-dev/passbook/internal/model"
	"github.com/passbook-dev/passbook/internal/store"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// Store implements store.Store over a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect opens and pings a connection pool for the given database URL.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// InitSchema creates the tables if they do not exist. Amounts are NUMERIC,
// never floating point.
func (s *Store) InitSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS transfers (
			id BIGSERIAL PRIMARY KEY,
			from_account TEXT NOT NULL,
			to_name TEXT NOT NULL,
			to_email TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			date DATE NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			reference_number TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS deposits (
			id BIGSERIAL PRIMARY KEY,
			from_account TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const transferColumns = `id, from_account, to_name, to_email, amount, date,
	message, reference_number, status, created_at, completed_at`

func scanTransfer(row pgx.Row) (model.Transfer, error) {
	var t model.Transfer
	err := row.Scan(
		&t.ID, &t.FromAccount, &t.ToName, &t.ToEmail, &t.Amount, &t.Date,
		&t.Message, &t.ReferenceNumber, &t.Status, &t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

// InsertTransfer inserts a transfer and returns the assigned id.
func (s *Store) InsertTransfer(ctx context.Context, t model.Transfer) (int64, error) {
	query := `
		INSERT INTO transfers
			(from_account, to_name, to_email, amount, date, message, reference_number, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := s.pool.QueryRow(ctx, query,
		t.FromAccount, t.ToName, t.ToEmail, t.Amount, t.Date,
		t.Message, t.ReferenceNumber, t.Status, t.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicate
		}
		s.logger.Error("inserting transfer failed",
			zap.String("reference", t.ReferenceNumber),
			zap.Error(err))
		return 0, fmt.Errorf("inserting transfer: %w", err)
	}
	return id, nil
}

// GetTransfer returns a transfer by id.
func (s *Store) GetTransfer(ctx context.Context, id int64) (model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Transfer{}, store.ErrNotFound
		}
		return model.Transfer{}, fmt.Errorf("loading transfer %d: %w", id, err)
	}
	return t, nil
}

// MarkCompleted transitions a transfer to completed at the given instant.
func (s *Store) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE transfers SET status = $1, completed_at = $2 WHERE id = $3`
	tag, err := s.pool.Exec(ctx, query, model.StatusCompleted, at, id)
	if err != nil {
		s.logger.Error("marking transfer completed failed",
			zap.Int64("transfer_id", id),
			zap.Error(err))
		return fmt.Errorf("marking transfer %d completed: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListTransfers returns transfers filtered on settlement status and
// effective time (completed_at when set, created_at otherwise).
func (s *Store) ListTransfers(ctx context.Context, completedOnly bool, since time.Time) ([]model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
		WHERE ($1 = false OR status = 'completed')
		  AND ($2::timestamptz IS NULL OR COALESCE(completed_at, created_at) >= $2)
		ORDER BY id`

	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}

	rows, err := s.pool.Query(ctx, query, completedOnly, sinceArg)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var out []model.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReferenceExists reports whether a transfer already uses ref.
func (s *Store) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transfers WHERE reference_number = $1)`, ref,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking reference: %w", err)
	}
	return exists, nil
}

// InsertDeposit inserts a deposit and returns the assigned id.
func (s *Store) InsertDeposit(ctx context.Context, d model.Deposit) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO deposits (from_account, amount, created_at) VALUES ($1, $2, $3) RETURNING id`,
		d.FromAccount, d.Amount, d.CreatedAt,
	).Scan(&id)
	if err != nil {
		s.logger.Error("inserting deposit failed", zap.Error(err))
		return 0, fmt.Errorf("inserting deposit: %w", err)
	}
	return id, nil
}

// ListDeposits returns deposits created at or after since.
func (s *Store) ListDeposits(ctx context.Context, since time.Time) ([]model.Deposit, error) {
	query := `SELECT id, from_account, amount, created_at FROM deposits
		WHERE $1::timestamptz IS NULL OR created_at >= $1
		ORDER BY id`

	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}

	rows, err := s.pool.Query(ctx, query, sinceArg)
	if err != nil {
		return nil, fmt.Errorf("listing deposits: %w", err)
	}
	defer rows.Close()

	var out []model.Deposit
	for rows.Next() {
		var d model.Deposit
		if err := rows.Scan(&d.ID, &d.FromAccount, &d.Amount, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning deposit: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InsertContact inserts a contact and returns the assigned id.
func (s *Store) InsertContact(ctx context.Context, c model.Contact) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, created_at) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Email, c.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicate
		}
		s.logger.Error("inserting contact failed", zap.String("email", c.Email), zap.Error(err))
		return 0, fmt.Errorf("inserting contact: %w", err)
	}
	return id, nil
}

// GetContact returns a contact by id.
func (s *Store) GetContact(ctx context.Context, id int64) (model.Contact, error) {
	var c model.Contact
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM contacts WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contact{}, store.ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("loading contact %d: %w", id, err)
	}
	return c, nil
}

// ListContacts returns contacts matching search in name or email, ordered
// by name. An empty search matches all.
func (s *Store) ListContacts(ctx context.Context, search string) ([]model.Contact, error) {
	query := `SELECT id, name, email, created_at FROM contacts
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY name`

	rows, err := s.pool.Query(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var out []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ store.Store = (*Store)(nil)
