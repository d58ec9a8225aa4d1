package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitectl/sitectl/internal/devapi"
	"github.com/sitectl/sitectl/pkg/session"
	"github.com/sitectl/sitectl/pkg/site"
)

func newDevClient(t *testing.T) (*Client, *devapi.Server) {
	t.Helper()
	api := devapi.New(devapi.Config{Users: map[string]string{"admin": "secret"}})
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)
	return New(ts.URL, session.New(session.NewMemoryStore(""))), api
}

func TestLogin_StoresToken(t *testing.T) {
	client, _ := newDevClient(t)
	ctx := context.Background()

	resp, err := client.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, resp.AccessToken, client.Session().Token())

	// subsequent calls carry the token
	sites, err := client.ListSites(ctx)
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestLogin_RejectedStoresNothing(t *testing.T) {
	client, _ := newDevClient(t)

	_, err := client.Login(context.Background(), "admin", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.False(t, client.Session().Authenticated())
}

func TestLogin_EmptyCredentials(t *testing.T) {
	var called bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	for _, creds := range [][2]string{{"", "x"}, {"admin", ""}} {
		_, err := New(ts.URL, nil).Login(context.Background(), creds[0], creds[1])

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Zero(t, authErr.StatusCode)
		assert.Equal(t, "login failed: username and password are required", err.Error())
	}
	assert.False(t, called, "no request is sent without credentials")
}

func TestWithHTTPClient_NilKeepsDefault(t *testing.T) {
	var c *Client
	assert.NotPanics(t, func() {
		c = New("http://localhost:8000", nil, WithHTTPClient(nil), WithTimeout(time.Second), WithInsecureTLS())
	})
	require.NotNil(t, c.httpClient)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.NotNil(t, c.httpClient.Transport)
}

func TestLogin_DoesNotSendBearer(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "new", TokenType: "bearer"})
	}))
	defer ts.Close()

	sess := session.New(session.NewMemoryStore(""))
	require.NoError(t, sess.SetToken("old"))

	_, err := New(ts.URL, sess).Login(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.Empty(t, auth)
	assert.Equal(t, "new", sess.Token())
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	sess := session.New(nil)
	require.NoError(t, sess.SetToken("tok"))

	_, err := New(ts.URL+"/", sess).ListSites(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/sites", path)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get(RequestIDHeader))
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	var auth []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, nil).ListSites(context.Background())
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	calls := map[string]func(c *Client) error{
		"list":   func(c *Client) error { _, err := c.ListSites(context.Background()); return err },
		"get":    func(c *Client) error { _, err := c.GetSite(context.Background(), "1"); return err },
		"create": func(c *Client) error { _, err := c.CreateSite(context.Background(), site.Payload{}); return err },
		"update": func(c *Client) error { _, err := c.UpdateSite(context.Background(), "1", site.Payload{}); return err },
		"delete": func(c *Client) error { return c.DeleteSite(context.Background(), "1") },
		"cert":   func(c *Client) error { return c.RetryCert(context.Background(), "1") },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			store := session.NewMemoryStore("")
			sess := session.New(store)
			require.NoError(t, sess.SetToken("stale"))

			err := call(New(ts.URL, sess))

			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.False(t, sess.Authenticated())
			stored, _ := store.Read()
			assert.Empty(t, stored, "persisted token is cleared too")
		})
	}
}

func TestRequestFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer ts.Close()

	sess := session.New(nil)
	require.NoError(t, sess.SetToken("tok"))

	err := New(ts.URL, sess).DeleteSite(context.Background(), "42")

	var reqErr *RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "delete site", reqErr.Op)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, "failed to delete site (status 500)", err.Error())
	assert.NotContains(t, err.Error(), "boom", "server body is not parsed")
	assert.True(t, sess.Authenticated(), "non-401 failures keep the token")
}

func TestConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, nil).ListSites(context.Background())

	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestSiteLifecycle(t *testing.T) {
	client, api := newDevClient(t)
	ctx := context.Background()
	_, err := client.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	created, err := client.CreateSite(ctx, site.Payload{
		Domain:       "example.com",
		SSL:          true,
		SSLProvider:  "letsencrypt",
		ProxyPass:    "http://localhost:8080",
		ProxyHeaders: map[string]string{"X-Real-IP": "$remote_addr"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := client.GetSite(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	payload := got.Payload()
	payload.SSL = false
	updated, err := client.UpdateSite(ctx, created.ID, payload)
	require.NoError(t, err)
	assert.False(t, updated.SSL)
	assert.Equal(t, "letsencrypt", updated.SSLProvider, "provider is sent regardless of ssl")

	require.NoError(t, client.RetryCert(ctx, created.ID))
	assert.Equal(t, []string{created.ID}, api.CertRequests())

	require.NoError(t, client.DeleteSite(ctx, created.ID))
	sites, err := client.ListSites(ctx)
	require.NoError(t, err)
	assert.Empty(t, sites)

	_, err = client.GetSite(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}
