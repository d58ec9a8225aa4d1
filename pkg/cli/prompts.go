package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/sitectl/sitectl/pkg/site"
	"github.com/sitectl/sitectl/pkg/siteform"
)

// Prompter asks the user for input when flags are missing.
type Prompter interface {
	Login(username, password *string) error
	Confirm(title string) (bool, error)
	SiteForm(f *siteform.Form) error
}

// huhPrompter implements Prompter with huh forms.
type huhPrompter struct{}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func (huhPrompter) Login(username, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	).WithTheme(huh.ThemeBase16()).Run()
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// SiteForm edits f in place. Header rows are entered one "Key=Value" per line.
func (huhPrompter) SiteForm(f *siteform.Form) error {
	headers := formatHeaderLines(f.Rows)
	providers := make([]huh.Option[string], 0, len(site.SSLProviders))
	for _, p := range site.SSLProviders {
		providers = append(providers, huh.NewOption(p, p))
	}
	provider := f.SSLProvider
	if provider == "" {
		provider = site.DefaultSSLProvider
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Domain").
				Placeholder("example.com").
				Value(&f.Domain).
				Validate(required("domain")),
			huh.NewInput().
				Title("Proxy pass").
				Placeholder("http://localhost:8080").
				Value(&f.ProxyPass),
			huh.NewConfirm().
				Title("Enable SSL").
				Value(&f.SSL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("SSL provider").
				Options(providers...).
				Value(&provider),
		).WithHideFunc(func() bool { return !f.SSL }),
		huh.NewGroup(
			huh.NewText().
				Title("Proxy headers").
				Description("One Key=Value per line").
				Value(&headers).
				Validate(func(s string) error {
					_, err := parseHeaderLines(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeBase16())
	if err := form.Run(); err != nil {
		return err
	}
	rows, err := parseHeaderLines(headers)
	if err != nil {
		return err
	}
	f.Rows = rows
	if f.SSL {
		f.SSLProvider = provider
	}
	return nil
}

func formatHeaderLines(rows site.HeaderRows) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Key+"="+r.Value)
	}
	return strings.Join(lines, "\n")
}

func parseHeaderLines(s string) (site.HeaderRows, error) {
	var rows site.HeaderRows
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := siteform.ParseHeader(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
