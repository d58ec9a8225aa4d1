package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sitectl/sitectl/pkg/listview"
	"github.com/sitectl/sitectl/pkg/site"
)

var columnWidths = []int{12, 26, 5, 12, 28, 32}

// ListModel renders a listview.Model as a table.
type ListModel struct {
	view  *listview.Model
	table table.Model
}

func NewListModel(view *listview.Model) ListModel {
	columns := make([]table.Column, len(listview.TableHeader))
	for i, title := range listview.TableHeader {
		columns[i] = table.Column{Title: title, Width: columnWidths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorDeep).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorDark).
		Background(ColorAccent).
		Bold(false)
	t.SetStyles(s)

	return ListModel{view: view, table: t}
}

// Refresh reloads when trigger changed since the last call, or on first use.
func (m ListModel) Refresh(ctx context.Context, trigger int) tea.Cmd {
	if !m.view.ObserveTrigger(trigger) {
		return nil
	}
	return m.Reload(ctx)
}

// Reload issues a new sequence-tagged load.
func (m ListModel) Reload(ctx context.Context) tea.Cmd {
	seq := m.view.Begin()
	view := m.view
	return func() tea.Msg {
		_, sites, err := view.Fetch(ctx, seq)
		return sitesLoadedMsg{seq: seq, sites: sites, err: err}
	}
}

// Apply completes a load. Stale results are dropped by the sequence guard.
func (m ListModel) Apply(msg sitesLoadedMsg) (ListModel, bool) {
	if !m.view.Complete(msg.seq, msg.sites, msg.err) {
		return m, false
	}
	return m.Sync(), true
}

// Sync copies the model's sites into the table rows.
func (m ListModel) Sync() ListModel {
	sites := m.view.Sites()
	rows := make([]table.Row, len(sites))
	for i, s := range sites {
		rows[i] = table.Row(listview.Row(s))
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	return m
}

// Selected returns the site under the cursor.
func (m ListModel) Selected() (site.Site, bool) {
	sites := m.view.Sites()
	c := m.table.Cursor()
	if c < 0 || c >= len(sites) {
		return site.Site{}, false
	}
	return sites[c], true
}

func (m ListModel) Resize(height int) ListModel {
	m.table.SetHeight(max(height-10, 3))
	return m
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) View() string {
	var body string
	switch m.view.State() {
	case listview.StateLoading:
		body = StyleSubtitle.Render("Loading sites…")
	case listview.StateError:
		body = StyleStatusBad.Render(fmt.Sprintf("Failed to load sites: %v", m.view.Err())) +
			"\n" + StyleHelp.Render("r: retry")
	default:
		if m.view.Empty() {
			body = StyleSubtitle.Render(listview.EmptyPlaceholder)
		} else {
			body = m.table.View()
		}
	}

	help := "enter/e: edit · a: add · d: delete · r: reload · L: logout · q: quit"
	if s, ok := m.Selected(); ok && listview.CanRetryCert(s) {
		help = "enter/e: edit · a: add · d: delete · c: retry cert · r: reload · L: logout · q: quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		heading("Sites"),
		StyleCard.Render(body),
		StyleSubtitle.Render(fmt.Sprintf("%d sites", len(m.view.Sites()))),
		StyleHelp.Render(help),
	)
}

func deleteCmd(ctx context.Context, view *listview.Model, s site.Site) tea.Cmd {
	return func() tea.Msg {
		return deleteResultMsg{site: s, err: view.DeleteConfirmed(ctx, s)}
	}
}

func retryCertCmd(ctx context.Context, view *listview.Model, s site.Site) tea.Cmd {
	return func() tea.Msg {
		return retryCertResultMsg{site: s, err: view.RetryCertNow(ctx, s)}
	}
}
