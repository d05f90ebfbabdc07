// Package session tracks the backoffice login state and restores it after the
// server rejects a request with 401.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/backoffice/backoffice-cli/internal/api"
)

// Events emitted by the session service, in addition to the api events.
const (
	EventAuthenticated = "app.authenticated"
	EventLoggedOut     = "app.loggedOut"
)

// ErrNoCredentials is returned when re-authentication needs a password that is not available.
var ErrNoCredentials = errors.New("no stored credentials; run 'bo auth login'")

// State is the login state as last observed.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateExpired
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	case StateLoggedOut:
		return "logged_out"
	}
	return "unknown"
}

// Tracker records what the server last said about the session.
type Tracker struct {
	mu        sync.RWMutex
	state     State
	user      *api.CurrentUser
	remaining float64
	reported  time.Time
	now       func() time.Time
}

var _ api.SessionTracker = (*Tracker)(nil)

// NewTracker creates a tracker in StateUnknown.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// SetRemainingSeconds records the lifetime reported in a response header.
func (t *Tracker) SetRemainingSeconds(seconds float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = seconds
	t.reported = t.now()
	if seconds <= 0 {
		t.state = StateExpired
	} else if t.state != StateLoggedOut {
		t.state = StateAuthenticated
	}
}

// RemainingSeconds is the reported lifetime less the time since it was reported.
func (t *Tracker) RemainingSeconds() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.reported.IsZero() {
		return 0
	}
	left := t.remaining - t.now().Sub(t.reported).Seconds()
	if left < 0 {
		return 0
	}
	return left
}

func (t *Tracker) setUser(u *api.CurrentUser) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.user = u
	t.state = StateAuthenticated
	if u != nil && u.RemainingAuthSeconds > 0 {
		t.remaining = u.RemainingAuthSeconds
		t.reported = t.now()
	}
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
	if s != StateAuthenticated {
		t.user = nil
		t.remaining = 0
		t.reported = time.Time{}
	}
}

// State returns the current login state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// User returns the last known current user, or nil.
func (t *Tracker) User() *api.CurrentUser {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.user
}

// Credentials are what a re-login needs.
type Credentials struct {
	Username string
	Password string
}

// Publisher broadcasts events and lets callers subscribe to them.
type Publisher interface {
	api.EventPublisher
	Subscribe(name string, fn func(payload any)) (unsubscribe func())
}

// Service logs in and out and implements api.Authenticator.
type Service struct {
	Auth        api.AuthenticationService
	Tracker     *Tracker
	Events      api.EventPublisher
	Credentials func() (Credentials, bool)

	refreshing atomic.Bool
}

var _ api.Authenticator = (*Service)(nil)

// Login authenticates with username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*api.CurrentUser, error) {
	user, err := s.Auth.Login(ctx, api.LoginArgs{Username: username, Password: password})
	if err != nil {
		s.Tracker.setState(StateLoggedOut)
		return nil, err
	}
	s.Tracker.setUser(user)
	s.emit(EventAuthenticated, user)
	return user, nil
}

// Logout ends the server session. The local state is cleared even when the call fails.
func (s *Service) Logout(ctx context.Context) error {
	err := s.Auth.Logout(ctx)
	s.Tracker.setState(StateLoggedOut)
	s.emit(EventLoggedOut, nil)
	return err
}

// Reauthenticate re-checks the current user and, when the server no longer
// knows the session, logs in again with the stored credentials.
func (s *Service) Reauthenticate(ctx context.Context) error {
	if _, err := s.Refresh(ctx); err == nil {
		slog.Debug("session still valid")
		return nil
	}
	s.Tracker.setState(StateExpired)
	if s.Credentials == nil {
		return ErrNoCredentials
	}
	creds, ok := s.Credentials()
	if !ok || creds.Username == "" || creds.Password == "" {
		return ErrNoCredentials
	}
	slog.Debug("logging in again", "username", creds.Username)
	if _, err := s.Login(ctx, creds.Username, creds.Password); err != nil {
		return fmt.Errorf("login as %s: %w", creds.Username, err)
	}
	return nil
}

// Refresh reloads the current user from the server.
func (s *Service) Refresh(ctx context.Context) (*api.CurrentUser, error) {
	user, err := s.Auth.GetCurrentUser(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			s.Tracker.setState(StateExpired)
		}
		return nil, err
	}
	s.Tracker.setUser(user)
	return user, nil
}

// Watch refreshes the current user whenever the server reports it was modified.
// A report arriving while a refresh is running is dropped.
// The returned function stops watching.
func (s *Service) Watch(ctx context.Context, bus Publisher) (stop func()) {
	return bus.Subscribe(api.EventUserRefresh, func(any) {
		if !s.refreshing.CompareAndSwap(false, true) {
			return
		}
		defer s.refreshing.Store(false)
		if _, err := s.Refresh(ctx); err != nil {
			slog.Debug("user refresh failed", "error", err)
		}
	})
}

func (s *Service) emit(name string, payload any) {
	if s.Events != nil {
		s.Events.Emit(name, payload)
	}
}
