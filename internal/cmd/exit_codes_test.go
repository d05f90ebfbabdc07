package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/resolve"
	"github.com/backoffice/backoffice-cli/internal/session"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"argument", &api.ArgumentError{Arg: "id"}, exitUsage},
		{"ambiguous", &resolve.AmbiguousError{Query: "Home"}, exitUsage},
		{"auth", &api.AuthError{Reason: "session expired"}, exitAuth},
		{"no credentials", fmt.Errorf("login: %w", session.ErrNoCredentials), exitAuth},
		{"not configured", config.ErrNotConfigured, exitAuth},
		{"unsupported server", fmt.Errorf("%w: 7.15.0", api.ErrUnsupportedServer), exitUnsupported},
		{"no match", fmt.Errorf("%w for %q", resolve.ErrNoMatch, "Hme"), exitNotFound},
		{"not found", &api.ResourceError{Status: 404}, exitNotFound},
		{"forbidden", &api.ResourceError{Status: 403}, exitForbidden},
		{"bad request", &api.ResourceError{Status: 400}, exitUsage},
		{"server error", &api.ResourceError{Status: 502}, exitServer},
		{"timeout", fmt.Errorf("get: %w", context.DeadlineExceeded), exitNetwork},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), exitNetwork},
		{"flag", errors.New("unknown flag: --nope"), exitUsage},
		{"generic", errors.New("boom"), exitGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCodeOfHandledError(t *testing.T) {
	err := &handledError{err: &api.ResourceError{Status: 404}, exitCode: exitNotFound}
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.ErrorIs(t, err, errAlreadyHandled)

	wrapped := &handledError{err: &api.ResourceError{Status: 403}}
	assert.Equal(t, exitForbidden, ExitCode(wrapped))
}

func TestHandleErrorSuggestions(t *testing.T) {
	assert.Contains(t, HandleError(config.ErrNotConfigured), "bo auth login")
	assert.Contains(t, HandleError(&api.ResourceError{Status: 403, ErrorMsg: "Forbidden"}), "start nodes")
	assert.Contains(t, HandleError(&api.ResourceError{Status: 500, ErrorMsg: "Internal Server Error"}), "--umb-debug")
	assert.Contains(t, HandleError(fmt.Errorf("%w: 7.15.0", api.ErrUnsupportedServer)), api.MinServerVersion)
	assert.Contains(t, HandleError(fmt.Errorf("%w for %q", resolve.ErrNoMatch, "Hme")), "bo entity search")
	assert.Equal(t, "Error: boom\n", HandleError(errors.New("boom")))
	assert.Empty(t, HandleError(nil))
}

func TestErrorPayload(t *testing.T) {
	payload := errorPayload(&api.ResourceError{Status: 404, URL: "http://cms/umbraco/x", ErrorMsg: "Not Found"})
	assert.Equal(t, 404, payload["status"])
	assert.Equal(t, "http://cms/umbraco/x", payload["url"])
	assert.Equal(t, exitNotFound, payload["exit_code"])
}

func TestStructuredErrorsGoToStderrAsJSON(t *testing.T) {
	h := newRouteHandler()
	setupTestEnv(t, h)

	out, stderr, err := runCmd(t, "", "media", "get", "4242", "--json")
	assert.Error(t, err)
	assert.Empty(t, out)
	payload := decodeJSON(t, lastLine(stderr))
	assert.EqualValues(t, exitNotFound, payload["exit_code"])
	assert.EqualValues(t, 404, payload["status"])
}
