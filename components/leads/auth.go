package leads

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Authentication failures surfaced by the login form.
var (
	ErrPasswordTooShort   = errors.New("leads: password is too short")
	ErrInvalidCredentials = errors.New("leads: wrong credentials")
)

const minPasswordLength = 7

// Session is an authenticated dashboard session.
type Session struct {
	Token    string    `json:"token"`
	User     string    `json:"user"`
	IssuedAt time.Time `json:"issued_at"`
}

// Authenticator is the identity port. The dashboard core never sees
// credentials beyond this boundary; applications wire it to their identity
// provider.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
}

// StaticAuthenticator checks credentials against a caller-supplied table. It
// exists for demos and tests; production deployments supply their own
// Authenticator.
type StaticAuthenticator struct {
	Credentials map[string]string
}

// Login validates the password policy, then the credential table.
func (a StaticAuthenticator) Login(_ context.Context, email, password string) (Session, error) {
	if email == "" || len(password) < minPasswordLength {
		return Session{}, ErrPasswordTooShort
	}
	expected, ok := a.Credentials[email]
	if !ok || expected != password {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		Token:    uuid.NewString(),
		User:     email,
		IssuedAt: time.Now(),
	}, nil
}

// SessionStore persists the active session under the namespaced auth key.
type SessionStore struct {
	storage StateStorage
}

// NewSessionStore wraps a StateStorage for session persistence.
func NewSessionStore(storage StateStorage) *SessionStore {
	return &SessionStore{storage: storage}
}

// Current returns the persisted session, if any. A corrupt blob reads as
// signed out.
func (s *SessionStore) Current() (Session, bool) {
	if s == nil || s.storage == nil {
		return Session{}, false
	}
	raw, ok := s.storage.Get(AuthSessionKey)
	if !ok {
		return Session{}, false
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return Session{}, false
	}
	return session, session.Token != ""
}

// Save persists the session.
func (s *SessionStore) Save(session Session) error {
	if s == nil || s.storage == nil {
		return nil
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.storage.Set(AuthSessionKey, string(raw))
}

// Clear signs the viewer out.
func (s *SessionStore) Clear() error {
	if s == nil || s.storage == nil {
		return nil
	}
	return s.storage.Delete(AuthSessionKey)
}
