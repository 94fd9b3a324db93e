package csvstore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/passbook-dev/passbook/internal/model"
)

// CSV headers for the three record files.
const (
	transfersHeader = "id,from_account,to_name,to_email,amount,date,message,reference_number,status,created_at,completed_at"
	depositsHeader  = "id,from_account,amount,created_at"
	contactsHeader  = "id,name,email,created_at"
)

const (
	dateFormat = "2006-01-02"

	transferNumFields = 11
	colTID            = 0
	colTFrom          = 1
	colTToName        = 2
	colTToEmail       = 3
	colTAmount        = 4
	colTDate          = 5
	colTMessage       = 6
	colTRef           = 7
	colTStatus        = 8
	colTCreatedAt     = 9
	colTCompletedAt   = 10

	depositNumFields = 4
	colDID           = 0
	colDFrom         = 1
	colDAmount       = 2
	colDCreatedAt    = 3

	contactNumFields = 4
	colCID           = 0
	colCName         = 1
	colCEmail        = 2
	colCCreatedAt    = 3
)

// marshalTransfer converts a Transfer to a CSV row.
func marshalTransfer(t model.Transfer) []string {
	row := make([]string, transferNumFields)
	row[colTID] = strconv.FormatInt(t.ID, 10)
	row[colTFrom] = t.FromAccount
	row[colTToName] = t.ToName
	row[colTToEmail] = t.ToEmail
	row[colTAmount] = t.Amount.StringFixed(2)
	row[colTDate] = t.Date.Format(dateFormat)
	row[colTMessage] = t.Message
	row[colTRef] = t.ReferenceNumber
	row[colTStatus] = string(t.Status)
	row[colTCreatedAt] = t.CreatedAt.Format(time.RFC3339)
	if t.CompletedAt != nil {
		row[colTCompletedAt] = t.CompletedAt.Format(time.RFC3339)
	}
	return row
}

// unmarshalTransfer converts a CSV row to a Transfer.
func unmarshalTransfer(record []string) (model.Transfer, error) {
	if len(record) != transferNumFields {
		return model.Transfer{}, fmt.Errorf("expected %d fields, got %d", transferNumFields, len(record))
	}

	id, err := strconv.ParseInt(record[colTID], 10, 64)
	if err != nil {
		return model.Transfer{}, fmt.Errorf("parsing id %q: %w", record[colTID], err)
	}

	amount, err := decimal.NewFromString(record[colTAmount])
	if err != nil {
		return model.Transfer{}, fmt.Errorf("parsing amount %q: %w", record[colTAmount], err)
	}

	date, err := time.Parse(dateFormat, record[colTDate])
	if err != nil {
		return model.Transfer{}, fmt.Errorf("parsing date %q: %w", record[colTDate], err)
	}

	createdAt, err := time.Parse(time.RFC3339, record[colTCreatedAt])
	if err != nil {
		return model.Transfer{}, fmt.Errorf("parsing created_at %q: %w", record[colTCreatedAt], err)
	}

	var completedAt *time.Time
	if record[colTCompletedAt] != "" {
		ts, err := time.Parse(time.RFC3339, record[colTCompletedAt])
		if err != nil {
			return model.Transfer{}, fmt.Errorf("parsing completed_at %q: %w", record[colTCompletedAt], err)
		}
		completedAt = &ts
	}

	return model.Transfer{
		ID:              id,
		FromAccount:     record[colTFrom],
		ToName:          record[colTToName],
		ToEmail:         record[colTToEmail],
		Amount:          amount,
		Date:            date,
		Message:         record[colTMessage],
		ReferenceNumber: record[colTRef],
		Status:          model.TransferStatus(record[colTStatus]),
		CreatedAt:       createdAt,
		CompletedAt:     completedAt,
	}, nil
}

// marshalDeposit converts a Deposit to a CSV row.
func marshalDeposit(d model.Deposit) []string {
	row := make([]string, depositNumFields)
	row[colDID] = strconv.FormatInt(d.ID, 10)
	row[colDFrom] = d.FromAccount
	row[colDAmount] = d.Amount.StringFixed(2)
	row[colDCreatedAt] = d.CreatedAt.Format(time.RFC3339)
	return row
}

// unmarshalDeposit converts a CSV row to a Deposit.
func unmarshalDeposit(record []string) (model.Deposit, error) {
	if len(record) != depositNumFields {
		return model.Deposit{}, fmt.Errorf("expected %d fields, got %d", depositNumFields, len(record))
	}

	id, err := strconv.ParseInt(record[colDID], 10, 64)
	if err != nil {
		return model.Deposit{}, fmt.Errorf("parsing id %q: %w", record[colDID], err)
	}

	amount, err := decimal.NewFromString(record[colDAmount])
	if err != nil {
		return model.Deposit{}, fmt.Errorf("parsing amount %q: %w", record[colDAmount], err)
	}

	createdAt, err := time.Parse(time.RFC3339, record[colDCreatedAt])
	if err != nil {
		return model.Deposit{}, fmt.Errorf("parsing created_at %q: %w", record[colDCreatedAt], err)
	}

	return model.Deposit{
		ID:          id,
		FromAccount: record[colDFrom],
		Amount:      amount,
		CreatedAt:   createdAt,
	}, nil
}

// marshalContact converts a Contact to a CSV row.
func marshalContact(c model.Contact) []string {
	row := make([]string, contactNumFields)
	row[colCID] = strconv.FormatInt(c.ID, 10)
	row[colCName] = c.Name
	row[colCEmail] = c.Email
	row[colCCreatedAt] = c.CreatedAt.Format(time.RFC3339)
	return row
}

// unmarshalContact converts a CSV row to a Contact.
func unmarshalContact(record []string) (model.Contact, error) {
	if len(record) != contactNumFields {
		return model.Contact{}, fmt.Errorf("expected %d fields, got %d", contactNumFields, len(record))
	}

	id, err := strconv.ParseInt(record[colCID], 10, 64)
	if err != nil {
		return model.Contact{}, fmt.Errorf("parsing id %q: %w", record[colCID], err)
	}

	createdAt, err := time.Parse(time.RFC3339, record[colCCreatedAt])
	if err != nil {
		return model.Contact{}, fmt.Errorf("parsing created_at %q: %w", record[colCCreatedAt], err)
	}

	return model.Contact{
		ID:        id,
		Name:      record[colCName],
		Email:     record[colCEmail],
		CreatedAt: createdAt,
	}, nil
}
