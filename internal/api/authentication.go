package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// LoginArgs are backoffice credentials.
type LoginArgs struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login posts credentials and returns the logged-in user. The session and
// anti-forgery cookies land in the client's jar.
func (s AuthenticationService) Login(ctx context.Context, args LoginArgs) (*CurrentUser, error) {
	if err := validateArgs(args); err != nil {
		return nil, err
	}
	u, err := s.apiURL(AliasAuthentication, "PostLogin")
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPost, u, args)
	// A bad password is a 4xx the caller reports itself.
	req.SkipAuthRetry = true
	req.IgnoreErrors = true
	return resourcePromise[*CurrentUser](ctx, s, req, "Login failed for user "+args.Username)
}

// Logout ends the server session.
func (s AuthenticationService) Logout(ctx context.Context) error {
	u, err := s.apiURL(AliasAuthentication, "PostLogout")
	if err != nil {
		return err
	}
	req := NewRequest(http.MethodPost, u, nil)
	req.SkipAuthRetry = true
	_, err = resourcePromise[string](ctx, s, req, "Logout failed")
	return err
}

// GetCurrentUser is the "who am I" check. It never triggers re-authentication,
// so a 401 here is reported instead of looping.
func (s AuthenticationService) GetCurrentUser(ctx context.Context) (*CurrentUser, error) {
	u, err := s.apiURL(AliasAuthentication, "GetCurrentUser")
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, u, nil)
	req.SkipAuthRetry = true
	req.IgnoreErrors = true
	return resourcePromise[*CurrentUser](ctx, s, req, "Server call failed for getting current user")
}

// IsAuthenticated reports whether the current session is valid.
func (s AuthenticationService) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.GetCurrentUser(ctx)
	if err == nil {
		return true, nil
	}
	if StatusOf(err) == http.StatusUnauthorized {
		return false, nil
	}
	return false, err
}

// GetRemainingTimeoutSeconds asks the server how long the session has left.
func (s AuthenticationService) GetRemainingTimeoutSeconds(ctx context.Context) (float64, error) {
	u, err := s.apiURL(AliasAuthentication, "GetRemainingTimeoutSeconds")
	if err != nil {
		return 0, err
	}
	req := NewRequest(http.MethodGet, u, nil)
	req.SkipAuthRetry = true
	req.IgnoreErrors = true
	return resourcePromiseWith(ctx, s, req, Handlers[float64]{
		ErrorMsg: "Server call failed for checking remaining seconds",
		Success: func(resp *Response) (float64, error) {
			text, err := decodeBody[string](resp.Body)
			if err != nil {
				return 0, err
			}
			return strconv.ParseFloat(strings.TrimSpace(text), 64)
		},
	})
}

// RequestPasswordReset asks the server to email a reset link.
func (s AuthenticationService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := requireString("email", email); err != nil {
		return err
	}
	_, err := postResource[string](ctx, s, AliasAuthentication, "PostRequestPasswordReset",
		map[string]string{"email": email}, "Request password reset failed")
	return err
}
