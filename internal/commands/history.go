package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/export"
)

func newHistoryCommand() *cobra.Command {
	var dir string
	var days int
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transactions with running balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer app.close()

			if days == 0 {
				days = app.cfg.History.WindowDays
			}
			if limit == 0 {
				limit = app.cfg.History.Limit
			}

			entries, err := app.ledger.History(cmd.Context(), days, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No transactions in the last %d days.\n", days)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-26s %-44s %12s %14s\n",
					export.LongDate(e.OccurredAt), export.Describe(e),
					export.Currency(e.Amount), export.Currency(e.BalanceAfter))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().IntVar(&days, "days", 0, "window in days (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries (default from config)")

	return cmd
}
