package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/auditlog"
	"github.com/passbook-dev/passbook/internal/export"
	"github.com/passbook-dev/passbook/internal/workflow"
)

func newSendCommand() *cobra.Command {
	var dir string
	var contactID int64
	var amountStr string
	var dateStr string
	var message string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an e-transfer to a saved contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer app.close()

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountStr, err)
			}

			date := time.Now()
			if dateStr != "" {
				date, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("parsing date %q: %w", dateStr, err)
				}
			}

			sess := workflow.NewSession(app.ledger, app.contacts, "Chequing "+app.cfg.Account.Number)
			if err := sess.SelectContact(cmd.Context(), contactID); err != nil {
				return err
			}
			if err := sess.EnterDetails(amount, date, message); err != nil {
				return err
			}

			review, err := sess.Review()
			if err != nil {
				return err
			}

			receipt, err := sess.Send(cmd.Context())
			if err != nil {
				return err
			}

			logAudit(app.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Operation: "transfer",
				Reference: receipt.ReferenceNumber,
				Amount:    export.Currency(amount),
				Details:   "INTERAC e-Transfer To: " + review.Contact.Name,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sent %s to %s <%s>\n",
				export.Currency(amount), review.Contact.Name, review.Contact.Email)
			fmt.Fprintf(out, "Reference: %s\n", receipt.ReferenceNumber)
			fmt.Fprintf(out, "New balance: %s\n", export.Currency(receipt.NewBalance))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().Int64Var(&contactID, "to", 0, "contact id to send to (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount to send (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&dateStr, "date", "", "transfer date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&message, "message", "", "message to the recipient")

	return cmd
}
