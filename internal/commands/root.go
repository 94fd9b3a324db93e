package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "passbook",
		Short:   "Simulated consumer bank account with e-transfers and statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newBalanceCommand())
	rootCmd.AddCommand(newDepositCommand())
	rootCmd.AddCommand(newSendCommand())
	rootCmd.AddCommand(newContactsCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newStatementCommand())

	return rootCmd
}
