// Package site defines the reverse-proxy site record exchanged with the
// admin API and the editable header-row representation used by forms.
package site

import (
	"sort"
	"strings"
)

// DefaultSSLProvider is suggested when ssl is turned on. Forms start blank.
const DefaultSSLProvider = "letsencrypt"

// SSLProviders lists the providers offered by interactive forms.
// Any other value is still accepted and sent as is.
var SSLProviders = []string{"letsencrypt", "zerossl", "custom"}

// Site is a configured reverse-proxy virtual host as returned by the API.
type Site struct {
	ID           string            `json:"id" yaml:"id"`
	Domain       string            `json:"domain" yaml:"domain"`
	SSL          bool              `json:"ssl" yaml:"ssl"`
	SSLProvider  string            `json:"ssl_provider" yaml:"ssl_provider"`
	ProxyPass    string            `json:"proxy_pass" yaml:"proxy_pass"`
	ProxyHeaders map[string]string `json:"proxy_headers" yaml:"proxy_headers"`
}

// Payload is the body of create and update requests: a Site without its ID.
type Payload struct {
	Domain       string            `json:"domain" yaml:"domain"`
	SSL          bool              `json:"ssl" yaml:"ssl"`
	SSLProvider  string            `json:"ssl_provider" yaml:"ssl_provider"`
	ProxyPass    string            `json:"proxy_pass" yaml:"proxy_pass"`
	ProxyHeaders map[string]string `json:"proxy_headers" yaml:"proxy_headers"`
}

// Payload returns the writable part of the site.
func (s Site) Payload() Payload {
	headers := make(map[string]string, len(s.ProxyHeaders))
	for k, v := range s.ProxyHeaders {
		headers[k] = v
	}
	return Payload{
		Domain:       s.Domain,
		SSL:          s.SSL,
		SSLProvider:  s.SSLProvider,
		ProxyPass:    s.ProxyPass,
		ProxyHeaders: headers,
	}
}

// HeaderRow is one editable proxy header line.
type HeaderRow struct {
	Key   string
	Value string
}

// HeaderRows is the ordered, editable list of proxy headers.
// Rows may be blank or repeat a key; Map resolves both.
type HeaderRows []HeaderRow

// RowsFromMap builds rows from a header map, sorted by key.
func RowsFromMap(headers map[string]string) HeaderRows {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make(HeaderRows, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, HeaderRow{Key: k, Value: headers[k]})
	}
	return rows
}

// Map reduces the rows to the submitted header mapping. Keys and values are
// trimmed, rows with an empty key are dropped, and a later row wins over an
// earlier one with the same key.
func (r HeaderRows) Map() map[string]string {
	headers := make(map[string]string, len(r))
	for _, row := range r {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(row.Value)
	}
	return headers
}

// Append returns the rows with a blank row added at the end.
func (r HeaderRows) Append() HeaderRows {
	return append(r, HeaderRow{})
}

// Remove returns the rows without the row at index i.
// An out-of-range index leaves the rows unchanged.
func (r HeaderRows) Remove(i int) HeaderRows {
	if i < 0 || i >= len(r) {
		return r
	}
	out := make(HeaderRows, 0, len(r)-1)
	out = append(out, r[:i]...)
	return append(out, r[i+1:]...)
}

// Set returns the rows with row i replaced.
// An out-of-range index leaves the rows unchanged.
func (r HeaderRows) Set(i int, key, value string) HeaderRows {
	if i < 0 || i >= len(r) {
		return r
	}
	out := make(HeaderRows, len(r))
	copy(out, r)
	out[i] = HeaderRow{Key: key, Value: value}
	return out
}

// HeaderSummary renders headers as "K=V, K=V" in key order, for tables.
func HeaderSummary(headers map[string]string) string {
	rows := RowsFromMap(headers)
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.Key+"="+row.Value)
	}
	return strings.Join(parts, ", ")
}
