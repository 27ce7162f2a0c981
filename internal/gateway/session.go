package gateway

import (
	"sync"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

// Session carries the bearer credentials of one signed-in user. It is created on
// login, destroyed on logout, and invalidated by the gateway on any 401.
type Session struct {
	mu     sync.RWMutex
	token  string
	user   storefront.User
	active bool
}

func NewSession(token string, user storefront.User) *Session {
	return &Session{token: token, user: user, active: token != ""}
}

// Token returns the bearer token while the session is active.
func (s *Session) Token() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.active
}

func (s *Session) Active() bool {
	_, ok := s.Token()
	return ok
}

func (s *Session) User() storefront.User {
	if s == nil {
		return storefront.User{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) SetUser(u storefront.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Invalidate drops the credentials after the API rejected them.
func (s *Session) Invalidate() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.token = ""
	s.active = false
	s.mu.Unlock()
}

// Destroy ends the session on logout.
func (s *Session) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.token = ""
	s.user = storefront.User{}
	s.active = false
	s.mu.Unlock()
}
