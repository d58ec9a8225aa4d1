package tui

import (
	"github.com/sitectl/sitectl/pkg/site"
	"github.com/sitectl/sitectl/pkg/siteform"
)

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	err error
}

// sitesLoadedMsg carries the result of list reload seq.
type sitesLoadedMsg struct {
	seq   uint64
	sites []site.Site
	err   error
}

// deleteResultMsg is sent once a delete (and the reload after it) settled.
type deleteResultMsg struct {
	site site.Site
	err  error
}

type retryCertResultMsg struct {
	site site.Site
	err  error
}

// formLoadedMsg carries the site fetched for the edit form identified by form.
type formLoadedMsg struct {
	form *siteform.Form
	site *site.Site
	err  error
}

type formSavedMsg struct {
	form *siteform.Form
	err  error
}
