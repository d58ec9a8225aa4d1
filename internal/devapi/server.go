// Package devapi is an in-memory implementation of the site admin API.
// It backs the tests and the hidden "sitectl dev-api" command; it is not a
// production server.
package devapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sitectl/sitectl/internal/httputil"
	"github.com/sitectl/sitectl/pkg/logging"
	"github.com/sitectl/sitectl/pkg/site"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = time.Hour

const issuer = "sitectl-devapi"

// Config configures a Server.
type Config struct {
	// Users maps usernames to passwords.
	Users map[string]string
	// Secret signs issued tokens. A random secret is used when empty.
	Secret []byte
	// TokenTTL defaults to DefaultTokenTTL.
	TokenTTL time.Duration
	Logger   *slog.Logger
}

// Server is an http.Handler serving /api/v1.
type Server struct {
	cfg   Config
	mux   *http.ServeMux
	log   *slog.Logger
	now   func() time.Time
	mu    sync.RWMutex
	sites []site.Site // insertion order
	certs []string    // site ids with a requested cert retry, in order
}

// New returns a Server with no sites.
func New(cfg Config) *Server {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = []byte(uuid.NewString())
	}
	if cfg.Users == nil {
		cfg.Users = map[string]string{}
	}
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		log: cfg.Logger,
		now: time.Now,
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/v1/sites", s.requireAuth(s.handleListSites))
	s.mux.HandleFunc("POST /api/v1/sites", s.requireAuth(s.handleCreateSite))
	s.mux.HandleFunc("GET /api/v1/sites/{id}", s.requireAuth(s.handleGetSite))
	s.mux.HandleFunc("PUT /api/v1/sites/{id}", s.requireAuth(s.handleUpdateSite))
	s.mux.HandleFunc("DELETE /api/v1/sites/{id}", s.requireAuth(s.handleDeleteSite))
	s.mux.HandleFunc("POST /api/v1/sites/{id}/cert", s.requireAuth(s.handleRetryCert))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Seed adds a site directly, assigning an id when it has none.
func (s *Server) Seed(st site.Site) site.Site {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.ProxyHeaders == nil {
		st.ProxyHeaders = map[string]string{}
	}
	s.mu.Lock()
	s.sites = append(s.sites, st)
	s.mu.Unlock()
	return st
}

// Sites returns a copy of the stored sites.
func (s *Server) Sites() []site.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]site.Site, len(s.sites))
	copy(out, s.sites)
	return out
}

// CertRequests returns the ids passed to the cert retry endpoint, in order.
func (s *Server) CertRequests() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.certs))
	copy(out, s.certs)
	return out
}

// IssueToken returns a signed token for username, bypassing the password check.
func (s *Server) IssueToken(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
}

func (s *Server) validToken(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.cfg.Secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	return err == nil && token.Valid
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || !s.validToken(tokenString) {
			httputil.WriteUnauthorized(w, "not authenticated")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "invalid JSON")
		return
	}
	want, ok := s.cfg.Users[req.Username]
	if !ok || want != req.Password {
		s.log.Info("login rejected", "user", req.Username)
		httputil.WriteUnauthorized(w, "Incorrect username or password")
		return
	}
	token, err := s.IssueToken(req.Username)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (s *Server) handleListSites(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.Sites())
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(r.PathValue("id"))
	if i < 0 {
		httputil.WriteNotFound(w, "Site not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.sites[i])
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	created := s.Seed(fromPayload(uuid.NewString(), payload))
	s.log.Info("site created", "id", created.ID, "domain", created.Domain)
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		httputil.WriteNotFound(w, "Site not found")
		return
	}
	s.sites[i] = fromPayload(id, payload)
	httputil.WriteJSON(w, http.StatusOK, s.sites[i])
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Deleting an unknown id is not an error.
	if i := s.indexOf(r.PathValue("id")); i >= 0 {
		s.sites = append(s.sites[:i], s.sites[i+1:]...)
	}
	httputil.WriteStatus(w, http.StatusNoContent)
}

func (s *Server) handleRetryCert(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		httputil.WriteNotFound(w, "Site not found")
		return
	}
	if !s.sites[i].SSL {
		httputil.WriteBadRequest(w, "Site does not have SSL enabled")
		return
	}
	s.certs = append(s.certs, id)
	httputil.WriteStatus(w, http.StatusNoContent)
}

// indexOf must be called with mu held.
func (s *Server) indexOf(id string) int {
	for i := range s.sites {
		if s.sites[i].ID == id {
			return i
		}
	}
	return -1
}

func decodePayload(w http.ResponseWriter, r *http.Request) (site.Payload, bool) {
	var payload site.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteBadRequest(w, "invalid JSON")
		return payload, false
	}
	return payload, true
}

func fromPayload(id string, p site.Payload) site.Site {
	headers := p.ProxyHeaders
	if headers == nil {
		headers = map[string]string{}
	}
	return site.Site{
		ID:           id,
		Domain:       p.Domain,
		SSL:          p.SSL,
		SSLProvider:  p.SSLProvider,
		ProxyPass:    p.ProxyPass,
		ProxyHeaders: headers,
	}
}
