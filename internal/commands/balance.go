package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/export"
)

func newBalanceCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the current account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer app.close()

			bal, err := app.ledger.CurrentBalance(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", app.cfg.Account.Number, export.Currency(bal))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}
