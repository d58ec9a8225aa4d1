package listview

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sitectl/sitectl/pkg/site"
)

// EmptyPlaceholder replaces the table when there are no sites.
const EmptyPlaceholder = "No sites configured"

// TableHeader lists the rendered columns.
var TableHeader = []string{"ID", "DOMAIN", "SSL", "PROVIDER", "PROXY PASS", "HEADERS"}

// emptyCell stands in for an unset provider or proxy pass.
const emptyCell = "-"

// Row returns the table cells for s. The provider is shown only when ssl is on.
func Row(s site.Site) []string {
	ssl, provider := "no", ""
	if s.SSL {
		ssl, provider = "yes", s.SSLProvider
	}
	return []string{s.ID, s.Domain, ssl, orDash(provider), orDash(s.ProxyPass), site.HeaderSummary(s.ProxyHeaders)}
}

func orDash(v string) string {
	if v == "" {
		return emptyCell
	}
	return v
}

// RenderTable writes sites as an aligned table, or the placeholder when empty.
func RenderTable(w io.Writer, sites []site.Site) error {
	if len(sites) == 0 {
		_, err := fmt.Fprintln(w, EmptyPlaceholder)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, TableHeader)
	for _, s := range sites {
		writeRow(tw, Row(s))
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_, _ = io.WriteString(w, "\t")
		}
		_, _ = io.WriteString(w, c)
	}
	_, _ = io.WriteString(w, "\n")
}
