package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrTransferNotFound means the transfer id does not exist.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrAlreadySettled means a completed transfer was settled again.
	// Settlement is not idempotent; a second call signals a caller bug.
	ErrAlreadySettled = errors.New("transfer already settled")
)

// ValidationError describes a rejected operation input. The operation
// leaves the ledger unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
