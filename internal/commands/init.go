package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/config"
)

func newInitCommand() *cobra.Command {
	var holder string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Passbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, holder)
		},
	}

	cmd.Flags().StringVar(&holder, "holder", "", "account holder name")

	return cmd
}

func runInit(cmd *cobra.Command, dir, holder string) error {
	for _, d := range []string{"data", "logs", "statements"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(holder)
	if err := config.Save(dir, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// .env holds the optional database URL; keep it out of version control.
	gitignore := ".env\nstatements/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized Passbook project at %s (account %s)\n", dir, cfg.Account.Number)
	return nil
}
