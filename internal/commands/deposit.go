package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/auditlog"
	"github.com/passbook-dev/passbook/internal/export"
)

func newDepositCommand() *cobra.Command {
	var dir string
	var amountStr string
	var from string

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Add money to the account",
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
			if from == "" {
				from = app.cfg.Account.DepositSource
			}

			if _, err := app.ledger.RecordDeposit(cmd.Context(), from, amount); err != nil {
				return err
			}

			logAudit(app.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Operation: "deposit",
				Amount:    export.Currency(amount),
				Details:   fmt.Sprintf("Deposit from %s account", from),
			})

			bal, err := app.ledger.CurrentBalance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deposited %s. New balance: %s\n",
				export.Currency(amount), export.Currency(bal))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount to deposit (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&from, "from", "", "source account")

	return cmd
}

// logAudit appends to the activity log; failures are reported but never
// fail the operation that already happened.
func logAudit(dir string, e auditlog.Entry) {
	if err := auditlog.Append(dir, []auditlog.Entry{e}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write activity log: %v\n", err)
	}
}
