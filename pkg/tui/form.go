package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sitectl/sitectl/pkg/site"
	"github.com/sitectl/sitectl/pkg/siteform"
)

type fieldKind int

const (
	fieldDomain fieldKind = iota
	fieldSSL
	fieldProvider
	fieldProxyPass
	fieldHeaderKey
	fieldHeaderValue
)

type field struct {
	kind fieldKind
	row  int
}

// FormModel edits a siteform.Form with text inputs.
type FormModel struct {
	form    *siteform.Form
	loading bool

	domain    textinput.Model
	provider  textinput.Model
	proxyPass textinput.Model
	keys      []textinput.Model
	values    []textinput.Model

	focus int
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 512
	return in
}

// NewFormModel returns a form screen for f. loading disables input until
// the site being edited arrived.
func NewFormModel(f *siteform.Form, loading bool) FormModel {
	m := FormModel{
		form:      f,
		loading:   loading,
		domain:    newInput("example.com"),
		provider:  newInput(site.DefaultSSLProvider),
		proxyPass: newInput("http://localhost:8080"),
	}
	m.provider.ShowSuggestions = true
	m.provider.SetSuggestions(site.SSLProviders)
	return m.reset()
}

// Loaded fills the form with the fetched site.
func (m FormModel) Loaded(s site.Site) FormModel {
	m.form.Fill(s)
	m.loading = false
	return m.reset()
}

// reset rebuilds every input from the form values.
func (m FormModel) reset() FormModel {
	m.domain.SetValue(m.form.Domain)
	m.provider.SetValue(m.form.SSLProvider)
	m.proxyPass.SetValue(m.form.ProxyPass)
	m.keys = make([]textinput.Model, len(m.form.Rows))
	m.values = make([]textinput.Model, len(m.form.Rows))
	for i, r := range m.form.Rows {
		m.keys[i] = newInput("Header-Name")
		m.keys[i].SetValue(r.Key)
		m.values[i] = newInput("value")
		m.values[i].SetValue(r.Value)
	}
	m.focus = 0
	return m.applyFocus()
}

func (m FormModel) fields() []field {
	fs := []field{{kind: fieldDomain}, {kind: fieldSSL}}
	if m.form.SSL {
		fs = append(fs, field{kind: fieldProvider})
	}
	fs = append(fs, field{kind: fieldProxyPass})
	for i := range m.keys {
		fs = append(fs, field{kind: fieldHeaderKey, row: i}, field{kind: fieldHeaderValue, row: i})
	}
	return fs
}

func (m FormModel) focused() field {
	fs := m.fields()
	if m.focus >= len(fs) {
		return fs[len(fs)-1]
	}
	return fs[m.focus]
}

func (m FormModel) applyFocus() FormModel {
	if n := len(m.fields()); m.focus >= n {
		m.focus = n - 1
	}
	if m.focus < 0 {
		m.focus = 0
	}
	m.domain.Blur()
	m.provider.Blur()
	m.proxyPass.Blur()
	for i := range m.keys {
		m.keys[i].Blur()
		m.values[i].Blur()
	}
	switch f := m.focused(); f.kind {
	case fieldDomain:
		m.domain.Focus()
	case fieldProvider:
		m.provider.Focus()
	case fieldProxyPass:
		m.proxyPass.Focus()
	case fieldHeaderKey:
		m.keys[f.row].Focus()
	case fieldHeaderValue:
		m.values[f.row].Focus()
	}
	return m
}

// Disabled reports whether input is ignored (loading or saving).
func (m FormModel) Disabled() bool {
	return m.loading || m.form.Saving()
}

func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey && m.Disabled() {
		return m, nil
	}
	if isKey {
		switch key.String() {
		case "tab", "down", "enter":
			m.focus = (m.focus + 1) % len(m.fields())
			return m.applyFocus(), nil
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + len(m.fields())) % len(m.fields())
			return m.applyFocus(), nil
		case "ctrl+n":
			m.form.AddRow()
			m.keys = append(m.keys, newInput("Header-Name"))
			m.values = append(m.values, newInput("value"))
			m.focus = len(m.fields()) - 2
			return m.applyFocus(), nil
		case "ctrl+d":
			f := m.focused()
			if f.kind != fieldHeaderKey && f.kind != fieldHeaderValue {
				return m, nil
			}
			m.form.RemoveRow(f.row)
			m.keys = append(m.keys[:f.row:f.row], m.keys[f.row+1:]...)
			m.values = append(m.values[:f.row:f.row], m.values[f.row+1:]...)
			return m.applyFocus(), nil
		case " ":
			if m.focused().kind == fieldSSL {
				m.form.SSL = !m.form.SSL
				return m.applyFocus(), nil
			}
		}
	}

	var cmd tea.Cmd
	switch f := m.focused(); f.kind {
	case fieldDomain:
		m.domain, cmd = m.domain.Update(msg)
		m.form.Domain = m.domain.Value()
	case fieldProvider:
		m.provider, cmd = m.provider.Update(msg)
		m.form.SSLProvider = m.provider.Value()
	case fieldProxyPass:
		m.proxyPass, cmd = m.proxyPass.Update(msg)
		m.form.ProxyPass = m.proxyPass.Value()
	case fieldHeaderKey:
		m.keys[f.row], cmd = m.keys[f.row].Update(msg)
		m.form.SetRow(f.row, m.keys[f.row].Value(), m.values[f.row].Value())
	case fieldHeaderValue:
		m.values[f.row], cmd = m.values[f.row].Update(msg)
		m.form.SetRow(f.row, m.keys[f.row].Value(), m.values[f.row].Value())
	}
	return m, cmd
}

func (m FormModel) View() string {
	title := "Add site"
	if m.form.Mode() == siteform.ModeEdit {
		title = "Edit site " + m.form.Domain
	}
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left,
			heading(title),
			StyleSubtitle.Render("Loading site…"),
		)
	}

	current := m.focused()
	label := func(kind fieldKind, s string) string {
		if current.kind == kind {
			return StyleLabelFocused.Render(s)
		}
		return StyleLabel.Render(s)
	}

	ssl := "[ ] off"
	if m.form.SSL {
		ssl = "[x] on"
	}
	rows := []string{
		label(fieldDomain, "Domain") + m.domain.View(),
		label(fieldSSL, "SSL") + ssl,
	}
	if m.form.SSL {
		rows = append(rows, label(fieldProvider, "SSL provider")+m.provider.View())
	}
	rows = append(rows, label(fieldProxyPass, "Proxy pass")+m.proxyPass.View(), "", StyleTitle.Render("Proxy headers"))
	if len(m.keys) == 0 {
		rows = append(rows, StyleSubtitle.Render("none (ctrl+n adds one)"))
	}
	for i := range m.keys {
		marker := "  "
		if (current.kind == fieldHeaderKey || current.kind == fieldHeaderValue) && current.row == i {
			marker = "> "
		}
		rows = append(rows, fmt.Sprintf("%s%s = %s", marker, m.keys[i].View(), m.values[i].View()))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	status := StyleHelp.Render("tab: next · space: toggle ssl · ctrl+n/ctrl+d: add/remove header · ctrl+s: save · esc: back")
	if m.form.Saving() {
		body = StyleDisabled.Render(body)
		status = StyleSubtitle.Render("Saving…")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		heading(title),
		StyleCard.Render(body),
		status,
	)
}

func loadFormCmd(ctx context.Context, backend Backend, f *siteform.Form) tea.Cmd {
	id := f.ID
	return func() tea.Msg {
		s, err := backend.GetSite(ctx, id)
		return formLoadedMsg{form: f, site: s, err: err}
	}
}

func saveFormCmd(ctx context.Context, backend Backend, f *siteform.Form, payload site.Payload) tea.Cmd {
	return func() tea.Msg {
		_, err := f.Send(ctx, backend, payload)
		return formSavedMsg{form: f, err: err}
	}
}
