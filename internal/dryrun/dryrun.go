// Package dryrun previews mutating commands without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Preview describes a request that would have been sent.
type Preview struct {
	Operation string         `json:"operation"`
	Resource  string         `json:"resource"`
	Method    string         `json:"method,omitempty"`
	URL       string         `json:"url,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Write prints the preview as text. Details are listed in key order.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[dry-run] would %s %s\n", p.Operation, p.Resource)
	if p.Method != "" || p.URL != "" {
		_, _ = fmt.Fprintf(w, "  %s %s\n", p.Method, p.URL)
	}
	keys := make([]string, 0, len(p.Details))
	for k := range p.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", k, p.Details[k])
	}
	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	_, _ = fmt.Fprintln(w, "no changes made")
}

// Summary is a one-line description, for bulk previews.
func (p *Preview) Summary() string {
	parts := []string{p.Operation, p.Resource}
	if p.URL != "" {
		parts = append(parts, "("+p.Method+" "+p.URL+")")
	}
	return strings.Join(parts, " ")
}
