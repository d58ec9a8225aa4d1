package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/pkg/site"
	"github.com/sitectl/sitectl/pkg/siteform"
)

// siteFlags are the field flags shared by add and edit.
type siteFlags struct {
	domain        string
	ssl           bool
	sslProvider   string
	proxyPass     string
	headers       []string
	removeHeaders []string
}

func (sf *siteFlags) register(cmd *cobra.Command, edit bool) {
	flags := cmd.Flags()
	flags.StringVar(&sf.domain, "domain", "", "Domain name served by the site")
	flags.BoolVar(&sf.ssl, "ssl", false, "Serve the site over TLS")
	flags.StringVar(&sf.sslProvider, "ssl-provider", "", "Certificate provider, e.g. "+strings.Join(site.SSLProviders, ", "))
	flags.StringVar(&sf.proxyPass, "proxy-pass", "", "Upstream URL, e.g. http://localhost:8080")
	flags.StringArrayVar(&sf.headers, "header", nil, "Proxy header Key=Value (repeatable, replaces all headers)")
	if edit {
		flags.StringArrayVar(&sf.removeHeaders, "remove-header", nil, "Remove a proxy header by name (repeatable)")
	}
}

// values returns only the flags given on the command line.
func (sf *siteFlags) values(cmd *cobra.Command) siteform.Values {
	flags := cmd.Flags()
	var v siteform.Values
	if flags.Changed("domain") {
		v.Domain = &sf.domain
	}
	if flags.Changed("ssl") {
		v.SSL = &sf.ssl
	}
	if flags.Changed("ssl-provider") {
		v.SSLProvider = &sf.sslProvider
	}
	if flags.Changed("proxy-pass") {
		v.ProxyPass = &sf.proxyPass
	}
	if flags.Changed("header") {
		v.Headers = sf.headers
	}
	if flags.Lookup("remove-header") != nil && flags.Changed("remove-header") {
		v.RemoveHeaders = sf.removeHeaders
	}
	return v
}

// fill applies flag values, or opens the interactive form when none were given.
func (a *app) fill(f *siteform.Form, v siteform.Values) error {
	if v.Empty() {
		if !a.interactive() {
			return fmt.Errorf("%w: pass --domain", ErrNotInteractive)
		}
		return a.prompter.SiteForm(f)
	}
	return f.Apply(v)
}

func (a *app) submit(cmd *cobra.Command, f *siteform.Form) error {
	saved, err := f.Submit(commandContext(cmd), a.client)
	if err != nil {
		return err
	}
	verb := "Created"
	if f.Mode() == siteform.ModeEdit {
		verb = "Updated"
	}
	a.log.Info("site saved", "mode", f.Mode().String(), "id", saved.ID)

	w := stdout(cmd)
	return a.printResult(w, saved, func() error {
		fmt.Fprintf(w, "%s site %s (%s)\n", verb, saved.Domain, saved.ID)
		return nil
	})
}

func newAddCmd(a *app) *cobra.Command {
	var sf siteFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a site",
		Long: `Create a site from flags, or through an interactive form when no field
flags are given on a terminal.`,
		Example: `  sitectl add --domain example.com --proxy-pass http://localhost:8080 \
    --ssl --ssl-provider letsencrypt --header 'X-Real-IP=$remote_addr'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := siteform.New("")
			if err := a.fill(f, sf.values(cmd)); err != nil {
				return err
			}
			return a.submit(cmd, f)
		},
	}

	sf.register(cmd, false)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var sf siteFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a site",
		Long: `Load a site, apply the given flags, and save it. Without field flags on a
terminal, the interactive form opens prefilled with the current values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := siteform.New(args[0])
			if err := f.Load(commandContext(cmd), a.client); err != nil {
				return siteLookupError(args[0], err)
			}
			if err := a.fill(f, sf.values(cmd)); err != nil {
				return err
			}
			return a.submit(cmd, f)
		},
	}

	sf.register(cmd, true)
	return cmd
}
