package session

import "sync"

// Session is the single resident bearer token of a running client.
// It is owned by the root layer and passed by reference to the API client;
// writes go through to the backing Store.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

// New returns a Session backed by store. Call Load to pick up a persisted token.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore("")
	}
	return &Session{store: store}
}

// Load reads the persisted token into memory.
func (s *Session) Load() error {
	token, err := s.store.Read()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Token returns the current token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present. The token is not validated.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores token, replacing any previous one.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Write(token); err != nil {
		return err
	}
	s.token = token
	return nil
}

// Clear drops the token from memory and from the store.
// The in-memory token is dropped even if the store fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return s.store.Clear()
}
