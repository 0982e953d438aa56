package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("not logged in")

type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
	store Store
}

// Claims are the token fields the CLI cares about. The signature is never
// verified here: the backend is the only party that trusts the token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Load creates a session rehydrated from the store.
func Load(store Store) (*Session, error) {
	s := &Session{store: store}

	state, err := store.Load()
	if err != nil {
		return nil, err
	}

	s.token = strings.TrimSpace(state.AccessToken)
	s.user = state.User

	return s, nil
}

// SetToken replaces the current credentials and persists them.
func (s *Session) SetToken(token string, user *User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("access token must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(&State{AccessToken: token, User: user}); err != nil {
		return err
	}

	s.token = token
	s.user = user

	return nil
}

// ClearToken forgets the credentials both in memory and in the store.
func (s *Session) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	return s.store.Clear()
}

// CurrentToken returns the bearer token, or an empty string when logged out.
func (s *Session) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Claims decodes the current token without verifying its signature.
func (s *Session) Claims() (*Claims, error) {
	token := s.CurrentToken()
	if token == "" {
		return nil, ErrNoToken
	}

	return parseClaims(token)
}

// Authenticated reports whether a token is present and not known to be expired.
// Tokens that cannot be decoded are given the benefit of the doubt; the backend
// answers 401 for them anyway.
func (s *Session) Authenticated(now time.Time) bool {
	claims, err := s.Claims()
	if errors.Is(err, ErrNoToken) {
		return false
	}
	if err != nil {
		return true
	}

	return claims.ExpiresAt.IsZero() || now.Before(claims.ExpiresAt)
}

func parseClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	claims := &Claims{}

	// Some backends issue numeric subjects, so GetSubject is not used here.
	if sub, ok := mapClaims["sub"]; ok && sub != nil {
		claims.Subject = fmt.Sprint(sub)
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("decode access token expiry: %w", err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Time
	}

	iat, err := mapClaims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("decode access token issue time: %w", err)
	}
	if iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}
