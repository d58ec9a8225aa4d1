// Package apiclient is the typed HTTP client for the site admin API.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sitectl/sitectl/pkg/logging"
	"github.com/sitectl/sitectl/pkg/session"
	"github.com/sitectl/sitectl/pkg/site"
)

// BasePath is prefixed to every endpoint.
const BasePath = "/api/v1"

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Client talks to the admin API on behalf of a Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets an overall per-request timeout. Zero means none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInsecureTLS skips TLS certificate verification (self-signed backends).
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in flag
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8000").
// A nil session gets an in-memory one.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	if sess == nil {
		sess = session.New(nil)
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		session:    sess,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session whose token the client sends.
func (c *Client) Session() *session.Session {
	return c.session
}

// Login exchanges credentials for a bearer token and stores it in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	if username == "" || password == "" {
		return nil, &AuthError{Message: "username and password are required"}
	}

	resp, err := c.do(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password}, false)
	if err != nil {
		return nil, &RequestFailedError{Op: "log in", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		drain(resp)
		return nil, &AuthError{StatusCode: resp.StatusCode}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("login response has no access_token")
	}
	if err := c.session.SetToken(token.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	c.log.Info("logged in", "user", username)
	return &token, nil
}

// ListSites returns all sites in server order.
func (c *Client) ListSites(ctx context.Context) ([]site.Site, error) {
	var sites []site.Site
	if err := c.call(ctx, "list sites", http.MethodGet, "/sites", nil, &sites); err != nil {
		return nil, err
	}
	if sites == nil {
		sites = []site.Site{}
	}
	return sites, nil
}

// GetSite returns one site.
func (c *Client) GetSite(ctx context.Context, id string) (*site.Site, error) {
	var s site.Site
	if err := c.call(ctx, "load site", http.MethodGet, sitePath(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSite creates a site and returns the stored record.
func (c *Client) CreateSite(ctx context.Context, payload site.Payload) (*site.Site, error) {
	var s site.Site
	if err := c.call(ctx, "create site", http.MethodPost, "/sites", payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSite replaces a site and returns the stored record.
func (c *Client) UpdateSite(ctx context.Context, id string, payload site.Payload) (*site.Site, error) {
	var s site.Site
	if err := c.call(ctx, "update site", http.MethodPut, sitePath(id), payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSite removes a site.
func (c *Client) DeleteSite(ctx context.Context, id string) error {
	return c.call(ctx, "delete site", http.MethodDelete, sitePath(id), nil, nil)
}

// RetryCert asks the server to enqueue a new certificate request for a site.
func (c *Client) RetryCert(ctx context.Context, id string) error {
	return c.call(ctx, "retry certificate", http.MethodPost, sitePath(id)+"/cert", nil, nil)
}

func sitePath(id string) string {
	return "/sites/" + url.PathEscape(id)
}

// call performs an authenticated request and applies the uniform error policy.
func (c *Client) call(ctx context.Context, op, method, path string, body, dest any) error {
	resp, err := c.do(ctx, method, path, body, true)
	if err != nil {
		return &RequestFailedError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		drain(resp)
		if err := c.session.Clear(); err != nil {
			c.log.Warn("failed to clear token", "error", err)
		}
		return ErrUnauthorized
	case !isSuccess(resp.StatusCode):
		drain(resp)
		return &RequestFailedError{Op: op, StatusCode: resp.StatusCode}
	}

	if dest == nil {
		drain(resp)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	return nil
}

// do sends one request. Errors are transport-level only.
func (c *Client) do(ctx context.Context, method, path string, body any, auth bool) (*http.Response, error) {
	fullURL := c.baseURL + BasePath + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if auth {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("cannot connect to %s: %w", c.baseURL, err)
	}
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// drain discards the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
}
