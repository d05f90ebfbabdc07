// Package outfmt renders command results as text tables, JSON, JSON lines or a Go template.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// Mode is the output format.
type Mode int

const (
	Text Mode = iota
	JSON
	JSONL
)

// ParseMode parses a --output value.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "text", "table":
		return Text, nil
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	}
	return Text, fmt.Errorf("invalid output format: %q (use 'text', 'json' or 'jsonl')", s)
}

func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	}
	return "text"
}

// Options control rendering. They travel with the command context.
type Options struct {
	Mode     Mode
	Query    string // jq expression applied before writing
	Template string // Go text/template; takes precedence over Mode
	Compact  bool
}

// Structured reports whether output is machine-readable rather than a table.
func (o Options) Structured() bool {
	return o.Mode != Text || o.Query != "" || o.Template != ""
}

type optionsKey struct{}

// WithOptions stores rendering options in ctx.
func WithOptions(ctx context.Context, o Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, o)
}

// FromContext returns the options stored by WithOptions, or text output.
func FromContext(ctx context.Context) Options {
	if o, ok := ctx.Value(optionsKey{}).(Options); ok {
		return o
	}
	return Options{}
}

// WriteJSON writes v as indented JSON, or on one line when compact.
func WriteJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// envelope wraps list results as {"items": [...]} so every JSON document is an object.
// A nil slice becomes an empty list rather than null.
func envelope(v any) any {
	if v == nil {
		return v
	}
	switch v.(type) {
	case []byte, json.RawMessage:
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return v
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return map[string]any{"items": []any{}}
	}
	return map[string]any{"items": rv.Interface()}
}

// elements returns the members of a slice value, or nil when v is not a list.
func elements(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
