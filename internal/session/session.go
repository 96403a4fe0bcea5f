package session

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store manages the bearer token lifecycle. The token is persisted as a single
// string in a file so it survives restarts; everything else is memory-only.
type Store struct {
	path     string
	onLogout func()
	now      func() time.Time
}

func New(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// OnLogout installs the hook invoked by Logout and by the HTTP boundary on
// authentication failure. This is the hard reset back to the login entry point.
func (s *Store) OnLogout(fn func()) {
	s.onLogout = fn
}

// IsAuthenticated reports whether a token is present. Presence only; expiry
// is deliberately not checked here (see IsTokenExpired).
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the stored token, or "" when absent.
func (s *Store) Token() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetToken persists the token.
func (s *Store) SetToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// RemoveToken deletes the persisted token. Absence is not an error.
func (s *Store) RemoveToken() error {
	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Logout removes the token and fires the installed hook.
func (s *Store) Logout() {
	_ = s.RemoveToken()
	if s.onLogout != nil {
		s.onLogout()
	}
}

// Claims decodes the token payload without signature verification, purely
// for reading embedded fields like exp. Returns ok=false on any failure.
func (s *Store) Claims() (jwt.MapClaims, bool) {
	token := s.Token()
	if token == "" {
		return nil, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	return claims, true
}

// IsTokenExpired reports whether the embedded exp claim is in the past.
// A missing or undecodable token counts as expired; a decodable token without
// an exp claim does not.
func (s *Store) IsTokenExpired() bool {
	claims, ok := s.Claims()
	if !ok {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(s.now())
}
