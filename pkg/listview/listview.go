// Package listview holds the state of the site list screen: the
// loading/ready/error machine, the delete and certificate-retry actions, and
// the notifications sent to the owning controller.
package listview

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitectl/sitectl/pkg/site"
)

// State is the list screen state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// API is the subset of the API client the list needs.
type API interface {
	ListSites(ctx context.Context) ([]site.Site, error)
	DeleteSite(ctx context.Context, id string) error
	RetryCert(ctx context.Context, id string) error
}

// Prompter provides the blocking user interactions.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(message string) bool
	// Alert shows a message and returns once acknowledged.
	Alert(message string)
}

// Notifier receives navigation intents. The list does nothing else with them.
type Notifier interface {
	Edit(s site.Site)
	Add()
	Logout()
}

// Model is the list screen state. It is safe for concurrent use so that
// overlapping reloads can complete from different goroutines.
type Model struct {
	api      API
	prompter Prompter
	notifier Notifier

	mu          sync.Mutex
	state       State
	sites       []site.Site
	err         error
	issued      uint64
	applied     uint64
	trigger     int
	triggerSeen bool
}

// New returns a Model in the loading state.
func New(api API, prompter Prompter, notifier Notifier) *Model {
	return &Model{
		api:      api,
		prompter: prompter,
		notifier: notifier,
		state:    StateLoading,
	}
}

// State returns the current state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Sites returns the displayed sites, in server order.
func (m *Model) Sites() []site.Site {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]site.Site, len(m.sites))
	copy(out, m.sites)
	return out
}

// Err returns the error of the last applied load, if it failed.
func (m *Model) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Empty reports a successfully loaded, empty list.
func (m *Model) Empty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateReady && len(m.sites) == 0
}

// Begin starts a reload and returns its sequence number.
func (m *Model) Begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	m.state = StateLoading
	return m.issued
}

// Complete applies the result of reload seq. Results older than the newest
// applied or issued reload are discarded and Complete returns false.
func (m *Model) Complete(seq uint64, sites []site.Site, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.issued || seq <= m.applied {
		return false
	}
	m.applied = seq
	if err != nil {
		m.state = StateError
		m.err = err
		return true
	}
	m.state = StateReady
	m.err = nil
	m.sites = sites
	return true
}

// Fetch runs the request for reload seq without touching the model.
func (m *Model) Fetch(ctx context.Context, seq uint64) (uint64, []site.Site, error) {
	sites, err := m.api.ListSites(ctx)
	return seq, sites, err
}

// Reload fetches the list and applies it.
func (m *Model) Reload(ctx context.Context) error {
	seq := m.Begin()
	_, sites, err := m.Fetch(ctx, seq)
	m.Complete(seq, sites, err)
	return err
}

// Refresh reloads on first use and whenever trigger differs from the last
// value seen. It reports whether a reload ran.
func (m *Model) Refresh(ctx context.Context, trigger int) (bool, error) {
	if !m.ObserveTrigger(trigger) {
		return false, nil
	}
	return true, m.Reload(ctx)
}

// ObserveTrigger records trigger and reports whether a reload is due.
func (m *Model) ObserveTrigger(trigger int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.triggerSeen && trigger == m.trigger {
		return false
	}
	m.triggerSeen = true
	m.trigger = trigger
	return true
}

// Delete asks for confirmation, deletes the site, and reloads the whole list.
// A failed delete is alerted and leaves the list as it was. It reports
// whether the site was deleted.
func (m *Model) Delete(ctx context.Context, s site.Site) bool {
	if !m.prompter.Confirm(DeletePrompt(s)) {
		return false
	}
	if err := m.DeleteConfirmed(ctx, s); err != nil {
		m.prompter.Alert(DeleteFailedMessage(err))
		return false
	}
	return true
}

// DeleteConfirmed deletes without asking and reloads on success. The reload
// outcome is reflected in the model state, not in the returned error.
func (m *Model) DeleteConfirmed(ctx context.Context, s site.Site) error {
	if err := m.api.DeleteSite(ctx, s.ID); err != nil {
		return err
	}
	_ = m.Reload(ctx)
	return nil
}

// RetryCert requests a new certificate and alerts the outcome. The list is
// not reloaded; the request only enqueues work on the server.
func (m *Model) RetryCert(ctx context.Context, s site.Site) error {
	err := m.api.RetryCert(ctx, s.ID)
	m.prompter.Alert(RetryCertMessage(s, err))
	return err
}

// RetryCertNow requests a new certificate without alerting.
func (m *Model) RetryCertNow(ctx context.Context, s site.Site) error {
	return m.api.RetryCert(ctx, s.ID)
}

// DeletePrompt is the confirmation question for deleting s.
func DeletePrompt(s site.Site) string {
	return fmt.Sprintf("Delete site %s?", s.Domain)
}

// DeleteFailedMessage is the alert shown when a delete fails.
func DeleteFailedMessage(err error) string {
	return fmt.Sprintf("Failed to delete site: %v", err)
}

// RetryCertMessage is the alert shown after a certificate retry.
func RetryCertMessage(s site.Site, err error) string {
	if err != nil {
		return fmt.Sprintf("Failed to retry certificate: %v", err)
	}
	return fmt.Sprintf("Certificate retry enqueued for %s", s.Domain)
}

// CanRetryCert reports whether the retry action is offered for s.
func CanRetryCert(s site.Site) bool {
	return s.SSL
}

// Edit forwards an edit intent.
func (m *Model) Edit(s site.Site) {
	if m.notifier != nil {
		m.notifier.Edit(s)
	}
}

// Add forwards an add intent.
func (m *Model) Add() {
	if m.notifier != nil {
		m.notifier.Add()
	}
}

// Logout forwards a logout intent.
func (m *Model) Logout() {
	if m.notifier != nil {
		m.notifier.Logout()
	}
}
