package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalAlert modalKind = iota
	modalConfirm
)

// afterAlert is what happens once an alert is dismissed.
type afterAlert int

const (
	afterNothing afterAlert = iota
	afterBack
)

// modal blocks all other input until answered.
type modal struct {
	kind    modalKind
	message string
	onYes   tea.Cmd
	after   afterAlert
}

func alert(message string) *modal {
	return &modal{kind: modalAlert, message: message}
}

func confirm(message string, onYes tea.Cmd) *modal {
	return &modal{kind: modalConfirm, message: message, onYes: onYes}
}

// answer reports whether key closes the modal and whether it was a yes.
func (d *modal) answer(key string) (closed, yes bool) {
	if d.kind == modalAlert {
		return true, false
	}
	switch key {
	case "y", "Y":
		return true, true
	case "n", "N", "esc":
		return true, false
	}
	return false, false
}

func (d *modal) View() string {
	hint := "press any key"
	if d.kind == modalConfirm {
		hint = "y: yes · n: no"
	}
	return StyleModal.Render(lipgloss.JoinVertical(lipgloss.Center,
		d.message,
		"",
		StyleHelp.Render(hint),
	))
}
