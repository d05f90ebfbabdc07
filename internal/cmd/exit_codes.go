package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/spf13/pflag"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/resolve"
	"github.com/backoffice/backoffice-cli/internal/session"
)

const (
	exitOK          = 0
	exitGeneric     = 1
	exitUsage       = 2
	exitAuth        = 3
	exitNotFound    = 4
	exitForbidden   = 5
	exitServer      = 7
	exitNetwork     = 8
	exitUnsupported = 9
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != 0 {
			return handled.exitCode
		}
		err = handled.err
	}

	if code := exitCodeFromTyped(err); code != 0 {
		return code
	}
	if isUsageError(err) {
		return exitUsage
	}
	if isNetworkError(err) {
		return exitNetwork
	}
	return exitGeneric
}

func exitCodeFromTyped(err error) int {
	var ambiguous *resolve.AmbiguousError
	switch {
	case api.IsArgumentError(err), errors.As(err, &ambiguous):
		return exitUsage
	case api.IsAuthError(err),
		errors.Is(err, session.ErrNoCredentials),
		errors.Is(err, config.ErrNotConfigured):
		return exitAuth
	case errors.Is(err, api.ErrUnsupportedServer):
		return exitUnsupported
	case errors.Is(err, resolve.ErrNoMatch):
		return exitNotFound
	}

	switch status := api.StatusOf(err); {
	case status == http.StatusNotFound:
		return exitNotFound
	case status == http.StatusForbidden:
		return exitForbidden
	case status >= 500:
		return exitServer
	case status >= 400:
		return exitUsage
	}
	return 0
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "certificate") ||
		strings.Contains(msg, "timeout")
}

func isUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"requires at least",
		"accepts ",
		"invalid argument",
		"invalid ",
		"must be",
		"is required",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
