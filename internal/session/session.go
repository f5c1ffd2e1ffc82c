package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrNotAuthenticated = errors.New("not logged in")

// Session is the credential context injected into the transport. It is the
// only holder of the bearer token; logout and expiry clear it explicitly.
type Session struct {
	mu       sync.RWMutex
	token    string
	store    Store
	onExpire []func()
}

// New loads a previously persisted token from store, if any.
func New(store Store) (*Session, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "session.New")
	}
	return &Session{token: tok, store: store}, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool { return s.Token() != "" }

// SetToken replaces the current token and persists it.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token); err != nil {
		return errors.Wrap(err, "session.SetToken")
	}
	s.token = token
	return nil
}

// Logout tears the session down: the token is dropped from memory and store.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return errors.Wrap(s.store.Clear(), "session.Logout")
}

// OnExpire registers fn to run when the backend rejects the token.
func (s *Session) OnExpire(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = append(s.onExpire, fn)
}

// Expire is called by the transport on a 401 response.
func (s *Session) Expire() {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	hooks := append([]func(){}, s.onExpire...)
	err := s.store.Clear()
	s.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("Failed to clear expired session token")
	}
	if !hadToken {
		return
	}
	log.Warn().Msg("Session expired; token cleared")
	for _, fn := range hooks {
		fn()
	}
}

// ExpiresAt reads the exp claim of the token without verifying its signature.
func (s *Session) ExpiresAt() (time.Time, bool) {
	tok := s.Token()
	if tok == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !exp.After(now)
}
