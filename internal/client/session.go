package client

import (
	"net/http"
	"sync"
)

// Session holds the bearer token of the signed-in user. It is passed to the
// Client explicitly and is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Clear() {
	s.Set("")
}

// sessionTransport adds the session's bearer token to every request that
// does not already carry an Authorization header.
type sessionTransport struct {
	session *Session
	base    http.RoundTripper
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.session.Token()
	if token == "" || req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(req)
}
