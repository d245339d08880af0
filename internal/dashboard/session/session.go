// Package session holds the dashboard's authentication credential and gates
// every data operation on its presence.
package session

import (
	"context"
	"sync"

	"github.com/highimexy/Bugly/internal/dashboard/client"
)

// Session owns the bearer token for the running dashboard. The token is only
// ever set by a successful login (or Resume) and cleared by Invalidate or
// Logout, so no further write coordination is needed.
type Session struct {
	mu    sync.Mutex
	api   *client.Client
	token string
}

// New creates a session with no credential.
func New(api *client.Client) *Session {
	return &Session{api: api}
}

// Login exchanges credentials for a token and stores it on success.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Resume installs a previously issued token, e.g. one persisted by the CLI
// between invocations. An expired token surfaces as unauthorized on the next
// guarded call and is then discarded as usual.
func (s *Session) Resume(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Token returns the current credential and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a credential is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Invalidate discards the credential. The store calls this whenever the
// server rejects a request as unauthorized; subsequent guarded operations
// short-circuit until the next login.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Logout discards the credential on explicit user action.
func (s *Session) Logout() {
	s.Invalidate()
}
