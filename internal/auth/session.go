package auth

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vidysea/notes/internal/models"
)

// Storage keys. Token and role are stored independently.
const (
	TokenKey = "token"
	RoleKey  = "role"
)

// Session holds the client-side proof of identity (token) plus the
// last-known role. It is passed explicitly to the guard, the credential
// exchange and the API client instead of being looked up globally.
type Session struct {
	kv  KV
	log zerolog.Logger
}

// NewSession creates a session backed by kv
func NewSession(kv KV, log zerolog.Logger) *Session {
	return &Session{kv: kv, log: log}
}

// NewMemorySession returns a session that lives only as long as the process
func NewMemorySession() *Session {
	return NewSession(NewMemoryKV(), zerolog.Nop())
}

func (s *Session) read(key string) (string, bool) {
	v, ok, err := s.kv.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to read session key")
		return "", false
	}
	return v, ok
}

// SetToken persists the token, overwriting any prior value
func (s *Session) SetToken(token string) error {
	if err := s.kv.Set(map[string]string{TokenKey: token}); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Token returns the persisted token, or false if never set or cleared
func (s *Session) Token() (string, bool) {
	return s.read(TokenKey)
}

// RemoveToken clears the token only. Use Clear to log out.
func (s *Session) RemoveToken() error {
	if err := s.kv.Delete(TokenKey); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// SetRole persists the role string as given
func (s *Session) SetRole(role string) error {
	if err := s.kv.Set(map[string]string{RoleKey: role}); err != nil {
		return fmt.Errorf("failed to save role: %w", err)
	}
	return nil
}

// Role returns the persisted role string, or false if never set or cleared
func (s *Session) Role() (string, bool) {
	return s.read(RoleKey)
}

// RemoveRole clears the role only
func (s *Session) RemoveRole() error {
	if err := s.kv.Delete(RoleKey); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored
func (s *Session) IsAuthenticated() bool {
	token, ok := s.Token()
	return ok && token != ""
}

// Establish stores token and role in a single write
func (s *Session) Establish(token string, role models.Role) error {
	if err := s.kv.Set(map[string]string{
		TokenKey: token,
		RoleKey:  string(role),
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes token and role together
func (s *Session) Clear() error {
	if err := s.kv.Delete(TokenKey, RoleKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
