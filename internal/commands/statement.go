package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/export"
	"github.com/passbook-dev/passbook/internal/ledger"
	"github.com/passbook-dev/passbook/internal/statement"
)

func newStatementCommand() *cobra.Command {
	var dir string
	var days int
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Generate an account statement",
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

			entries, err := app.ledger.History(cmd.Context(), days, app.cfg.History.Limit)
			if err != nil {
				return err
			}

			// History is most recent first; statements read oldest first.
			chrono := make([]ledger.Entry, len(entries))
			for i, e := range entries {
				chrono[len(entries)-1-i] = e
			}

			closing, err := app.ledger.CurrentBalance(cmd.Context())
			if err != nil {
				return err
			}

			end := time.Now()
			start := end.AddDate(0, 0, -days)
			st, err := statement.Build(app.cfg.Account.Number, app.cfg.Account.Holder,
				start, end, closing, chrono,
				app.cfg.Statement.FirstPageCapacity, app.cfg.Statement.OtherPageCapacity)
			if err != nil {
				return err
			}

			registry := export.DefaultRegistry()
			renderer := registry.Get(format)
			if renderer == nil {
				return fmt.Errorf("unknown format %q (available: %s)",
					format, strings.Join(registry.Formats(), ", "))
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			return renderer.Render(w, st)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().IntVar(&days, "days", 0, "statement period in days (default from config)")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json)")
	cmd.Flags().StringVar(&outPath, "out", "", "write to file instead of stdout")

	return cmd
}
