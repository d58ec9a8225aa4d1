// Package siteform is the add/edit form model for a site.
package siteform

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sitectl/sitectl/pkg/site"
)

// Mode distinguishes creating a site from editing one.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// ErrSaving is returned when a submit is attempted while one is in flight.
var ErrSaving = errors.New("save already in progress")

// API is the subset of the API client the form needs.
type API interface {
	GetSite(ctx context.Context, id string) (*site.Site, error)
	CreateSite(ctx context.Context, payload site.Payload) (*site.Site, error)
	UpdateSite(ctx context.Context, id string, payload site.Payload) (*site.Site, error)
}

// Form holds the editable fields of one site.
type Form struct {
	ID          string
	Domain      string
	SSL         bool
	SSLProvider string
	ProxyPass   string
	Rows        site.HeaderRows

	mu     sync.Mutex
	saving bool
}

// New returns an edit form for id, or a blank add form when id is empty.
func New(id string) *Form {
	return &Form{ID: id}
}

// FromSite returns an edit form filled from s.
func FromSite(s site.Site) *Form {
	f := New(s.ID)
	f.Fill(s)
	return f
}

// Mode reports whether the form edits an existing site.
func (f *Form) Mode() Mode {
	if f.ID != "" {
		return ModeEdit
	}
	return ModeAdd
}

// Fill copies the fields of s into the form.
func (f *Form) Fill(s site.Site) {
	f.Domain = s.Domain
	f.SSL = s.SSL
	f.SSLProvider = s.SSLProvider
	f.ProxyPass = s.ProxyPass
	f.Rows = site.RowsFromMap(s.ProxyHeaders)
}

// Load fetches the site being edited and fills the form. It is a no-op in
// add mode. On failure the caller is expected to alert and navigate back.
func (f *Form) Load(ctx context.Context, api API) error {
	if f.Mode() != ModeEdit {
		return nil
	}
	s, err := api.GetSite(ctx, f.ID)
	if err != nil {
		return err
	}
	f.Fill(*s)
	return nil
}

// AddRow appends a blank header row.
func (f *Form) AddRow() {
	f.Rows = f.Rows.Append()
}

// RemoveRow removes the header row at i.
func (f *Form) RemoveRow(i int) {
	f.Rows = f.Rows.Remove(i)
}

// SetRow edits the header row at i in place.
func (f *Form) SetRow(i int, key, value string) {
	f.Rows = f.Rows.Set(i, key, value)
}

// Payload builds the request body. Header rows are reduced here and only here.
func (f *Form) Payload() site.Payload {
	return site.Payload{
		Domain:       f.Domain,
		SSL:          f.SSL,
		SSLProvider:  f.SSLProvider,
		ProxyPass:    f.ProxyPass,
		ProxyHeaders: f.Rows.Map(),
	}
}

// ErrDomainRequired is returned by Validate for a blank domain.
var ErrDomainRequired = errors.New("domain required")

// Validate checks the required fields. Only the domain is required; an
// empty proxy_pass is sent as is.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Domain) == "" {
		return ErrDomainRequired
	}
	return nil
}

// Saving reports whether a submit is in flight.
func (f *Form) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// BeginSubmit marks the form as saving and returns the payload to send.
// It returns false if a submit is already in flight.
func (f *Form) BeginSubmit() (site.Payload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saving {
		return site.Payload{}, false
	}
	f.saving = true
	return f.Payload(), true
}

// FinishSubmit clears the saving flag once the request settled.
func (f *Form) FinishSubmit() {
	f.mu.Lock()
	f.saving = false
	f.mu.Unlock()
}

// Send issues the create or update request for payload, depending on mode.
func (f *Form) Send(ctx context.Context, api API, payload site.Payload) (*site.Site, error) {
	if f.Mode() == ModeEdit {
		return api.UpdateSite(ctx, f.ID, payload)
	}
	return api.CreateSite(ctx, payload)
}

// Submit validates, then creates or updates the site. The fields are left
// untouched on failure so the user can correct and resubmit.
func (f *Form) Submit(ctx context.Context, api API) (*site.Site, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	payload, ok := f.BeginSubmit()
	if !ok {
		return nil, ErrSaving
	}
	defer f.FinishSubmit()
	return f.Send(ctx, api, payload)
}
