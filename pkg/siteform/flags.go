package siteform

import (
	"fmt"
	"strings"

	"github.com/sitectl/sitectl/pkg/site"
)

// Values carries field values from command-line flags. Nil pointers mean
// "not given" so that edits only touch what was passed.
type Values struct {
	Domain      *string
	SSL         *bool
	SSLProvider *string
	ProxyPass   *string
	// Headers replaces all header rows when non-nil.
	Headers []string
	// RemoveHeaders drops rows by key.
	RemoveHeaders []string
}

// Empty reports whether no field was given.
func (v Values) Empty() bool {
	return v.Domain == nil && v.SSL == nil && v.SSLProvider == nil && v.ProxyPass == nil &&
		v.Headers == nil && v.RemoveHeaders == nil
}

// ParseHeader parses a "Key=Value" (or "Key: Value") header argument.
func ParseHeader(arg string) (site.HeaderRow, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		key, value, ok = strings.Cut(arg, ":")
	}
	if !ok {
		return site.HeaderRow{}, fmt.Errorf("invalid header %q: expected Key=Value", arg)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return site.HeaderRow{}, fmt.Errorf("invalid header %q: empty name", arg)
	}
	return site.HeaderRow{Key: key, Value: strings.TrimSpace(value)}, nil
}

// Apply copies the given values into the form.
func (f *Form) Apply(v Values) error {
	if v.Domain != nil {
		f.Domain = *v.Domain
	}
	if v.SSL != nil {
		f.SSL = *v.SSL
	}
	if v.SSLProvider != nil {
		f.SSLProvider = *v.SSLProvider
	}
	if v.ProxyPass != nil {
		f.ProxyPass = *v.ProxyPass
	}
	if v.Headers != nil {
		rows := make(site.HeaderRows, 0, len(v.Headers))
		for _, h := range v.Headers {
			row, err := ParseHeader(h)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		f.Rows = rows
	}
	for _, key := range v.RemoveHeaders {
		for i := len(f.Rows) - 1; i >= 0; i-- {
			if strings.EqualFold(strings.TrimSpace(f.Rows[i].Key), strings.TrimSpace(key)) {
				f.RemoveRow(i)
			}
		}
	}
	return nil
}
