package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/dryrun"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
	"github.com/backoffice/backoffice-cli/internal/outfmt"
	"github.com/backoffice/backoffice-cli/internal/resolve"
	"github.com/backoffice/backoffice-cli/internal/urlparse"
)

// errAlreadyHandled marks an error that RunE already printed. Cobra still sees
// a failure (for the exit code) but root does not print it again.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command body so failures are printed once, with suggestions.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		errOut := iocontext.GetIO(cmd.Context()).ErrOut
		if isStructured(cmd) {
			_ = outfmt.WriteJSON(errOut, errorPayload(err), true)
		} else {
			_, _ = fmt.Fprint(errOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// getApp builds the client for the active profile and returns the request context
// carrying the configured culture.
func getApp(cmd *cobra.Command) (*app, context.Context, error) {
	a, err := newClientFactory().build(cmdContext(cmd))
	if err != nil {
		return nil, nil, err
	}
	return a, a.context(cmdContext(cmd)), nil
}

func isStructured(cmd *cobra.Command) bool {
	return outfmt.FromContext(cmd.Context()).Structured()
}

func newPrinter(cmd *cobra.Command) *outfmt.Printer {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewPrinter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON writes v in the structured output format.
func printJSON(cmd *cobra.Command, v any) error {
	return newPrinter(cmd).Print(v)
}

// printAction reports a completed mutation in text mode.
func printAction(cmd *cobra.Command, action, resource string, id any, name string) {
	if flags.Quiet || isStructured(cmd) {
		return
	}
	message := fmt.Sprintf("%s %s", action, resource)
	if id != nil {
		message = fmt.Sprintf("%s %v", message, id)
	}
	if name != "" {
		message = fmt.Sprintf("%s: %s", message, name)
	}
	_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, message)
}

func maybeDryRun(cmd *cobra.Command, preview *dryrun.Preview) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	if preview == nil {
		preview = &dryrun.Preview{}
	}
	if isStructured(cmd) {
		return true, printJSON(cmd, map[string]any{
			"dry_run":   true,
			"operation": preview.Operation,
			"resource":  preview.Resource,
			"method":    preview.Method,
			"url":       preview.URL,
			"details":   preview.Details,
			"warnings":  preview.Warnings,
		})
	}
	preview.Write(iocontext.GetIO(cmd.Context()).Out)
	return true, nil
}

// confirmAction asks before an irreversible change. --yes skips the prompt.
func confirmAction(cmd *cobra.Command, prompt string) (bool, error) {
	if flags.Yes {
		return true, nil
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintf(ioStreams.ErrOut, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(ioStreams.In).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("confirmation required: re-run with --yes")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// parsePositiveIntArg parses a numeric id argument.
func parsePositiveIntArg(input, label string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", label, input)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s %d: must be positive", label, id)
	}
	return id, nil
}

// parseParentArg parses a parent id, where -1 is the tree root.
func parseParentArg(input string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("invalid parent %q: must be a number (-1 for the root)", input)
	}
	if id == 0 || id < -1 {
		return 0, fmt.Errorf("invalid parent %d: must be positive or -1 for the root", id)
	}
	return id, nil
}

// nodeID accepts a numeric id, a backoffice editor URL, or a node name to search for.
func nodeID(ctx context.Context, a *app, typ api.EntityType, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		parsed, err := urlparse.Parse(ref)
		if err != nil {
			return 0, err
		}
		if got, ok := parsed.EntityType(); ok && got != typ {
			return 0, fmt.Errorf("URL points at a %s, expected a %s", strings.ToLower(string(got)), strings.ToLower(string(typ)))
		}
		if !parsed.HasID() {
			return 0, fmt.Errorf("URL %q does not name a node", ref)
		}
		return parsed.ID, nil
	}
	return resolve.NodeID(ctx, a.client.Entity(), typ, ref)
}

// nodeIDs resolves every reference; see nodeID.
func nodeIDs(ctx context.Context, a *app, typ api.EntityType, refs []string) ([]int, error) {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		for _, part := range splitCommaList(ref) {
			id, err := nodeID(ctx, a, typ, part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseIntList parses ids given as separate arguments or comma-separated.
func parseIntList(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range splitCommaList(arg) {
			id, err := parsePositiveIntArg(part, "id")
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one id is required")
	}
	return ids, nil
}

func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
