package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sitectl/sitectl/pkg/apiclient"
)

// LoginModel is the login screen.
type LoginModel struct {
	username   textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	err        string
}

func NewLoginModel() LoginModel {
	u := textinput.New()
	u.Prompt = ""
	u.Placeholder = "username"
	u.CharLimit = 128
	u.Focus()

	p := textinput.New()
	p.Prompt = ""
	p.Placeholder = "password"
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'
	p.CharLimit = 256

	return LoginModel{username: u, password: p}
}

func (m LoginModel) setFocus(i int) LoginModel {
	m.focus = i
	if i == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
	return m
}

// Update handles keys on the login screen. login is called to build the
// submit command.
func (m LoginModel) Update(msg tea.Msg, login func(username, password string) tea.Cmd) (LoginModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}
	if m.submitting {
		return m, nil
	}

	switch key.String() {
	case "tab", "down", "shift+tab", "up":
		return m.setFocus(1 - m.focus), nil
	case "enter":
		if m.focus == 0 {
			return m.setFocus(1), nil
		}
		username := strings.TrimSpace(m.username.Value())
		password := m.password.Value()
		if username == "" || password == "" {
			m.err = "username and password required"
			return m, nil
		}
		m.err = ""
		m.submitting = true
		return m, login(username, password)
	}
	return m.updateInputs(msg)
}

func (m LoginModel) updateInputs(msg tea.Msg) (LoginModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// Failed shows err inline and re-enables the form. The password is cleared.
func (m LoginModel) Failed(err error) LoginModel {
	m.submitting = false
	var authErr *apiclient.AuthError
	if errors.As(err, &authErr) {
		m.err = "Invalid credentials (" + err.Error() + ")"
	} else {
		m.err = err.Error()
	}
	m.password.SetValue("")
	return m.setFocus(1)
}

func (m LoginModel) View() string {
	label := func(i int, s string) string {
		if m.focus == i {
			return StyleLabelFocused.Render(s)
		}
		return StyleLabel.Render(s)
	}
	rows := []string{
		StyleTitle.Render("Sign in"),
		"",
		label(0, "Username") + m.username.View(),
		label(1, "Password") + m.password.View(),
		"",
	}
	switch {
	case m.submitting:
		rows = append(rows, StyleSubtitle.Render("Signing in…"))
	case m.err != "":
		rows = append(rows, StyleStatusBad.Render(m.err))
	}
	rows = append(rows, StyleHelp.Render("tab: switch field · enter: submit · ctrl+c: quit"))
	return StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func loginCmd(ctx context.Context, backend Backend, username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := backend.Login(ctx, username, password)
		return loginResultMsg{err: err}
	}
}
