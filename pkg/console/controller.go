// Package console owns the top-level view state of the interactive console:
// whether the user is authenticated, which screen is shown, the selected site,
// and the trigger that asks the list to reload.
package console

import (
	"fmt"
	"sync"

	"github.com/sitectl/sitectl/pkg/session"
	"github.com/sitectl/sitectl/pkg/site"
)

// View is the screen shown to an authenticated user.
type View int

const (
	ViewList View = iota
	ViewEdit
	ViewAdd
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewEdit:
		return "edit"
	case ViewAdd:
		return "add"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Authenticated  bool
	View           View
	Selected       *site.Site
	RefreshTrigger int
}

// Controller switches between the login, list and form screens.
// Authentication is derived from token presence only; the token is never
// validated against the server here.
type Controller struct {
	session *session.Session

	mu             sync.Mutex
	authenticated  bool
	view           View
	selected       *site.Site
	refreshTrigger int
}

// New returns a controller whose authentication reflects the stored token.
func New(sess *session.Session) *Controller {
	return &Controller{
		session:       sess,
		authenticated: sess.Authenticated(),
		view:          ViewList,
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Authenticated:  c.authenticated,
		View:           c.view,
		RefreshTrigger: c.refreshTrigger,
	}
	if c.selected != nil {
		sel := *c.selected
		snap.Selected = &sel
	}
	return snap
}

// Authenticated reports whether the login screen is skipped.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// View returns the current screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// RefreshTrigger returns the list reload trigger.
func (c *Controller) RefreshTrigger() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshTrigger
}

// LoginSucceeded shows the list after a successful login.
func (c *Controller) LoginSucceeded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = true
	c.view = ViewList
	c.selected = nil
}

// Logout clears the stored token and resets the view state.
func (c *Controller) Logout() error {
	err := c.session.Clear()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = false
	c.view = ViewList
	c.selected = nil
	return err
}

// Edit opens the form for s.
func (c *Controller) Edit(s site.Site) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &s
	c.view = ViewEdit
}

// Add opens a blank form.
func (c *Controller) Add() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.view = ViewAdd
}

// Back returns to the list without reloading it.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.view = ViewList
}

// Saved returns to the list and bumps the reload trigger.
func (c *Controller) Saved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.view = ViewList
	c.refreshTrigger++
}

// Reconcile re-derives authentication from token presence. It is called on
// navigation; a token cleared by a 401 shows the login screen only then.
func (c *Controller) Reconcile() bool {
	auth := c.session.Authenticated()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authenticated = auth
	if !auth {
		c.view = ViewList
		c.selected = nil
	}
	return auth
}
