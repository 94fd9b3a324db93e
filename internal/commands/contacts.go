package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/passbook-dev/passbook/internal/auditlog"
)

func newContactsCommand() *cobra.Command {
	contactsCmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage saved transfer recipients",
	}
	contactsCmd.AddCommand(newContactsAddCommand())
	contactsCmd.AddCommand(newContactsListCommand())
	return contactsCmd
}

func newContactsAddCommand() *cobra.Command {
	var dir string
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a new contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer app.close()

			c, err := app.contacts.Add(cmd.Context(), name, email)
			if err != nil {
				return err
			}

			logAudit(app.dir, auditlog.Entry{
				Timestamp: time.Now(),
				Operation: "contact",
				Details:   fmt.Sprintf("Added contact %s <%s>", c.Name, c.Email),
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Added contact %d: %s <%s>\n", c.ID, c.Name, c.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&name, "name", "", "contact name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&email, "email", "", "contact email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newContactsListCommand() *cobra.Command {
	var dir string
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer app.close()

			found, err := app.contacts.Search(cmd.Context(), search)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "No contacts.")
				return nil
			}
			for _, c := range found {
				fmt.Fprintf(out, "%4d  %-24s %s\n", c.ID, c.Name, c.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&search, "search", "", "filter by name or email")

	return cmd
}
