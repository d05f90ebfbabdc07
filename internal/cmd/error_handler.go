package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/resolve"
	"github.com/backoffice/backoffice-cli/internal/session"
)

// HandleError returns a user-facing message with suggestions for err.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var argErr *api.ArgumentError
	var authErr *api.AuthError
	var resErr *api.ResourceError
	var ambiguous *resolve.AmbiguousError

	switch {
	case errors.As(err, &argErr):
		fmt.Fprintf(&msg, "Invalid arguments: %s\n", argErr.Error())

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No backoffice configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: bo auth login https://cms.example.com --username you@example.com\n")
		msg.WriteString("  - Or set BO_BASE_URL, BO_USERNAME and BO_PASSWORD\n")

	case errors.Is(err, session.ErrNoCredentials), errors.As(err, &authErr), api.IsAuthError(err):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: bo auth login\n")
		msg.WriteString("  - Set BO_PASSWORD so expired sessions can be renewed\n")

	case errors.Is(err, api.ErrUnsupportedServer):
		fmt.Fprintf(&msg, "%s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		fmt.Fprintf(&msg, "  - Upgrade the server to %s or later\n", api.MinServerVersion)

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "%s\n", ambiguous.Error())

	case errors.Is(err, resolve.ErrNoMatch):
		fmt.Fprintf(&msg, "%s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Search first: bo entity search <name>\n")

	case errors.As(err, &resErr) && resErr.Status > 0:
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", resErr.Status, resErr.Error())
		msg.WriteString(suggestionsForStatusCode(resErr.Status))

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the server is running\n")
		msg.WriteString("  - Verify the URL: bo auth status\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the server URL spelling\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's certificate\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --debug to see the request\n")
	case 401:
		suggestions.WriteString("  - Your session expired: bo auth login\n")
	case 403:
		suggestions.WriteString("  - Your user lacks access to this section or node\n")
		suggestions.WriteString("  - Check the user's groups and start nodes\n")
	case 404:
		suggestions.WriteString("  - The node doesn't exist or was deleted\n")
		suggestions.WriteString("  - Check the id is correct\n")
	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error, retry later\n")
		suggestions.WriteString("  - Use --umb-debug for a detailed server response\n")
	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

// errorPayload is the structured form of err, written to stderr in JSON modes.
func errorPayload(err error) map[string]any {
	payload := map[string]any{
		"error":     err.Error(),
		"exit_code": ExitCode(err),
	}
	var resErr *api.ResourceError
	if errors.As(err, &resErr) {
		if resErr.Status > 0 {
			payload["status"] = resErr.Status
		}
		if resErr.URL != "" {
			payload["url"] = resErr.URL
		}
	}
	return payload
}
