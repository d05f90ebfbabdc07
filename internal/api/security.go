package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Events emitted by the security interceptor.
const (
	EventUserRefresh      = "app.userRefresh"
	EventNotAuthenticated = "app.notAuthenticated"
)

// ReauthTimeout bounds one shared re-authentication attempt.
const ReauthTimeout = 30 * time.Second

// DefaultIgnoredURLs are hosts whose failures never surface to the user.
var DefaultIgnoredURLs = []string{"www.gravatar.com"}

// SessionTracker receives the remaining session lifetime reported by the server.
type SessionTracker interface {
	SetRemainingSeconds(seconds float64)
}

// Notifier shows a message to the user.
type Notifier interface {
	Error(headline, message string)
}

// EventPublisher broadcasts application events.
type EventPublisher interface {
	Emit(name string, payload any)
}

// Authenticator restores a valid session after a 401.
type Authenticator interface {
	Reauthenticate(ctx context.Context) error
}

// Security is the response side of the interceptor chain. Every collaborator is optional.
type Security struct {
	Session       SessionTracker
	Notifier      Notifier
	Events        EventPublisher
	Authenticator Authenticator
	IgnoredURLs   []string

	reauth singleflight.Group
}

// NewSecurity returns a Security with the default ignore list.
func NewSecurity() *Security {
	return &Security{IgnoredURLs: append([]string(nil), DefaultIgnoredURLs...)}
}

// inspectHeaders forwards session headers from any response, successful or not.
func (s *Security) inspectHeaders(h http.Header) {
	if s == nil || h == nil {
		return
	}
	if raw := strings.TrimSpace(h.Get(HeaderUserSeconds)); raw != "" && s.Session != nil {
		if secs, err := strconv.ParseFloat(raw, 64); err == nil {
			s.Session.SetRemainingSeconds(secs)
		}
	}
	if strings.EqualFold(strings.TrimSpace(h.Get(HeaderUserModified)), "true") && s.Events != nil {
		s.Events.Emit(EventUserRefresh, nil)
	}
}

// handleError applies the status policies to a failed response.
// retry is true when the request should be replayed after re-authentication.
func (s *Security) handleError(ctx context.Context, req *Request, resErr *ResourceError) (retry bool, err error) {
	if s == nil {
		return false, resErr
	}
	if req.ignoresStatus(resErr.Status) || s.isIgnoredURL(req.URL) {
		return false, resErr
	}

	switch resErr.Status {
	case http.StatusUnauthorized:
		if req.SkipAuthRetry || req.replayed || s.Authenticator == nil {
			return false, resErr
		}
		if err := s.reauthenticate(ctx); err != nil {
			if s.Events != nil {
				s.Events.Emit(EventNotAuthenticated, nil)
			}
			return false, &AuthError{Reason: "session expired and re-authentication failed", Err: err}
		}
		return true, nil

	case http.StatusNotFound:
		msg := "The URL returned a 404 (not found): " + stripQuery(req.URL)
		if detail := exceptionMessage(resErr.Data); detail != "" {
			msg += " with error: " + detail
		}
		s.notify("Request error", msg)

	case http.StatusForbidden:
		s.notify("Authorization error", "The URL returned a 403 (unauthorized) for URL: "+stripQuery(req.URL))
	}
	return false, resErr
}

// reauthenticate shares one in-flight attempt between every request that hit a 401.
// The attempt outlives the cancellation of the request that started it.
func (s *Security) reauthenticate(ctx context.Context) error {
	_, err, shared := s.reauth.Do("reauth", func() (any, error) {
		slog.Debug("session rejected, re-authenticating")
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReauthTimeout)
		defer cancel()
		return nil, s.Authenticator.Reauthenticate(actx)
	})
	if shared {
		slog.Debug("joined in-flight re-authentication")
	}
	if err != nil {
		return fmt.Errorf("re-authenticate: %w", err)
	}
	return nil
}

func (s *Security) notify(headline, msg string) {
	if s.Notifier != nil {
		s.Notifier.Error(headline, msg)
	}
}

func (s *Security) isIgnoredURL(u string) bool {
	for _, pattern := range s.IgnoredURLs {
		if pattern != "" && strings.Contains(u, pattern) {
			return true
		}
	}
	return false
}

func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
