// Package tui is the interactive console: a bubbletea program with a login
// screen, the site list, and the add/edit form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sitectl/sitectl/pkg/apiclient"
	"github.com/sitectl/sitectl/pkg/console"
	"github.com/sitectl/sitectl/pkg/listview"
	"github.com/sitectl/sitectl/pkg/logging"
	"github.com/sitectl/sitectl/pkg/site"
	"github.com/sitectl/sitectl/pkg/siteform"
)

// Backend is the API the console drives. *apiclient.Client implements it.
type Backend interface {
	Login(ctx context.Context, username, password string) (*apiclient.TokenResponse, error)
	ListSites(ctx context.Context) ([]site.Site, error)
	GetSite(ctx context.Context, id string) (*site.Site, error)
	CreateSite(ctx context.Context, payload site.Payload) (*site.Site, error)
	UpdateSite(ctx context.Context, id string, payload site.Payload) (*site.Site, error)
	DeleteSite(ctx context.Context, id string) error
	RetryCert(ctx context.Context, id string) error
}

// controllerNotifier forwards list intents to the controller.
type controllerNotifier struct {
	ctrl *console.Controller
	log  *slog.Logger
}

func (n controllerNotifier) Edit(s site.Site) { n.ctrl.Edit(s) }
func (n controllerNotifier) Add()             { n.ctrl.Add() }
func (n controllerNotifier) Logout() {
	if err := n.ctrl.Logout(); err != nil {
		n.log.Warn("failed to clear stored token", "error", err)
	}
}

// Model is the root console model.
type Model struct {
	ctx     context.Context
	backend Backend
	ctrl    *console.Controller
	log     *slog.Logger

	view   *listview.Model
	login  LoginModel
	list   ListModel
	form   FormModel
	modal  *modal
	width  int
	height int
}

// NewModel creates the root model. ctx bounds every request the console makes.
func NewModel(ctx context.Context, backend Backend, ctrl *console.Controller, log *slog.Logger) Model {
	if log == nil {
		log = logging.Nop()
	}
	view := listview.New(backend, nil, controllerNotifier{ctrl: ctrl, log: log})
	return Model{
		ctx:     ctx,
		backend: backend,
		ctrl:    ctrl,
		log:     log,
		view:    view,
		login:   NewLoginModel(),
		list:    NewListModel(view),
	}
}

func (m Model) Init() tea.Cmd {
	if !m.ctrl.Authenticated() {
		return nil
	}
	return m.list.Refresh(m.ctx, m.ctrl.RefreshTrigger())
}

// navigate reconciles authentication and prepares the screen the controller
// now points at.
func (m Model) navigate() (Model, tea.Cmd) {
	if !m.ctrl.Reconcile() {
		m.login = NewLoginModel()
		return m, nil
	}
	snap := m.ctrl.Snapshot()
	switch snap.View {
	case console.ViewEdit:
		f := siteform.New(snap.Selected.ID)
		m.form = NewFormModel(f, true)
		return m, loadFormCmd(m.ctx, m.backend, f)
	case console.ViewAdd:
		m.form = NewFormModel(siteform.New(""), false)
		return m, nil
	default:
		// Every return to the list is a fresh mount.
		m.view.ObserveTrigger(snap.RefreshTrigger)
		return m, m.list.Reload(m.ctx)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list = m.list.Resize(msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal != nil {
			return m.updateModal(msg)
		}

	case loginResultMsg:
		if msg.err != nil {
			m.log.Info("login failed", "error", msg.err)
			m.login = m.login.Failed(msg.err)
			return m, nil
		}
		m.ctrl.LoginSucceeded()
		m.login = NewLoginModel()
		return m.navigate()

	case sitesLoadedMsg:
		var applied bool
		m.list, applied = m.list.Apply(msg)
		if !applied {
			m.log.Debug("dropped stale site list", "seq", msg.seq)
		} else if msg.err != nil {
			m.log.Warn("failed to load sites", "error", msg.err)
		}
		return m, nil

	case deleteResultMsg:
		if msg.err != nil {
			m.modal = alert(listview.DeleteFailedMessage(msg.err))
			return m, nil
		}
		m.list = m.list.Sync()
		return m, nil

	case retryCertResultMsg:
		m.modal = alert(listview.RetryCertMessage(msg.site, msg.err))
		return m, nil

	case formLoadedMsg:
		if msg.form != m.form.form {
			return m, nil
		}
		if msg.err != nil {
			m.modal = alert(fmt.Sprintf("Failed to load site: %v", msg.err))
			m.modal.after = afterBack
			return m, nil
		}
		m.form = m.form.Loaded(*msg.site)
		return m, nil

	case formSavedMsg:
		msg.form.FinishSubmit()
		if msg.form != m.form.form {
			return m, nil
		}
		if msg.err != nil {
			m.modal = alert(fmt.Sprintf("Failed to save site: %v", msg.err))
			return m, nil
		}
		m.ctrl.Saved()
		return m.navigate()
	}

	if !m.ctrl.Authenticated() {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg, func(username, password string) tea.Cmd {
			return loginCmd(m.ctx, m.backend, username, password)
		})
		return m, cmd
	}

	switch m.ctrl.View() {
	case console.ViewEdit, console.ViewAdd:
		return m.updateForm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateModal(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	closed, yes := m.modal.answer(key.String())
	if !closed {
		return m, nil
	}
	d := m.modal
	m.modal = nil
	if yes {
		return m, d.onYes
	}
	if d.after == afterBack {
		m.ctrl.Back()
		return m.navigate()
	}
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	selected, hasSelection := m.list.Selected()
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.list.Reload(m.ctx)
	case "a":
		m.view.Add()
		return m.navigate()
	case "L":
		m.view.Logout()
		return m.navigate()
	case "enter", "e":
		if hasSelection {
			m.view.Edit(selected)
			return m.navigate()
		}
		return m, nil
	case "d":
		if hasSelection {
			m.modal = confirm(listview.DeletePrompt(selected), deleteCmd(m.ctx, m.view, selected))
		}
		return m, nil
	case "c":
		if hasSelection && listview.CanRetryCert(selected) {
			return m, retryCertCmd(m.ctx, m.view, selected)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if m.form.form.Saving() {
				return m, nil
			}
			m.ctrl.Back()
			return m.navigate()
		case "ctrl+s":
			return m.submitForm()
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.form.Disabled() {
		return m, nil
	}
	f := m.form.form
	if err := f.Validate(); err != nil {
		m.modal = alert(err.Error())
		return m, nil
	}
	payload, ok := f.BeginSubmit()
	if !ok {
		return m, nil
	}
	m.log.Debug("saving site", "mode", f.Mode().String(), "domain", payload.Domain)
	return m, saveFormCmd(m.ctx, m.backend, f, payload)
}

func (m Model) View() string {
	var doc string
	switch {
	case !m.ctrl.Authenticated():
		doc = m.login.View()
	case m.ctrl.View() == console.ViewList:
		doc = m.list.View()
	default:
		doc = m.form.View()
	}
	if m.modal != nil {
		doc = lipgloss.JoinVertical(lipgloss.Left, doc, "", m.modal.View())
	}
	return StyleApp.Render(doc)
}

// Options configures Run.
type Options struct {
	Backend    Backend
	Controller *console.Controller
	Logger     *slog.Logger
	Input      io.Reader
	Output     io.Writer
}

// Run starts the console and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Backend == nil || opts.Controller == nil {
		return errors.New("tui: backend and controller are required")
	}
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(NewModel(ctx, opts.Backend, opts.Controller, opts.Logger), progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
