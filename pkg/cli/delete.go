package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/pkg/listview"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	var format string

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a site and print the remaining sites",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := a.client.GetSite(ctx, args[0])
			if err != nil {
				return siteLookupError(args[0], err)
			}

			if !yes {
				if !a.interactive() {
					return fmt.Errorf("%w: pass --yes to delete %s", ErrNotInteractive, s.Domain)
				}
				ok, err := a.prompter.Confirm(listview.DeletePrompt(*s))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
					return nil
				}
			}

			m := listview.New(a.client, nil, nil)
			if err := m.DeleteConfirmed(ctx, *s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted site %s\n", s.Domain)

			if m.State() == listview.StateError {
				return fmt.Errorf("site deleted, but reloading the list failed: %w", m.Err())
			}
			return a.printSites(cmd, format, m.Sites())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	return cmd
}

func newRetryCertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retry-cert <id>",
		Short: "Enqueue a certificate retry for an SSL site",
		Long: `Ask the API to enqueue a new certificate request. The server rejects
sites without ssl.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			s, err := a.client.GetSite(ctx, args[0])
			if err != nil {
				return siteLookupError(args[0], err)
			}
			m := listview.New(a.client, nil, nil)
			if err := m.RetryCertNow(ctx, *s); err != nil {
				return err
			}

			w := stdout(cmd)
			return a.printResult(w, map[string]any{"id": s.ID, "domain": s.Domain, "enqueued": true}, func() error {
				fmt.Fprintln(w, listview.RetryCertMessage(*s, nil))
				return nil
			})
		},
	}
}
