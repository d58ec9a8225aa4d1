package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/pkg/cli/internal/output"
	"github.com/sitectl/sitectl/pkg/listview"
	"github.com/sitectl/sitectl/pkg/site"
)

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured sites",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := listview.New(a.client, nil, nil)
			if err := m.Reload(commandContext(cmd)); err != nil {
				return err
			}
			return a.printSites(cmd, format, m.Sites())
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	return cmd
}

func (a *app) printSites(cmd *cobra.Command, format string, sites []site.Site) error {
	if sites == nil {
		sites = []site.Site{}
	}
	w := stdout(cmd)
	return a.printFormatted(w, format, sites, func() error {
		return listview.RenderTable(w, sites)
	})
}

func newGetCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.GetSite(commandContext(cmd), args[0])
			if err != nil {
				return siteLookupError(args[0], err)
			}
			w := stdout(cmd)
			return a.printFormatted(w, format, s, func() error {
				return printSiteDetail(w, *s)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	return cmd
}

func printSiteDetail(w io.Writer, s site.Site) error {
	tw := output.Table(w)
	fmt.Fprintf(tw, "ID:\t%s\n", s.ID)
	fmt.Fprintf(tw, "Domain:\t%s\n", s.Domain)
	fmt.Fprintf(tw, "SSL:\t%t\n", s.SSL)
	if s.SSL {
		fmt.Fprintf(tw, "SSL provider:\t%s\n", s.SSLProvider)
	}
	fmt.Fprintf(tw, "Proxy pass:\t%s\n", s.ProxyPass)
	rows := site.RowsFromMap(s.ProxyHeaders)
	if len(rows) == 0 {
		fmt.Fprintf(tw, "Headers:\t-\n")
	}
	for i, r := range rows {
		label := ""
		if i == 0 {
			label = "Headers:"
		}
		fmt.Fprintf(tw, "%s\t%s: %s\n", label, r.Key, r.Value)
	}
	return tw.Flush()
}
