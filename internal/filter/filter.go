// Package filter runs jq expressions over command output.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression.
type Query struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles expr. Shell-escaped bangs (zsh turns != into \!=)
// are repaired first.
func Compile(expr string) (*Query, error) {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), `\!`, `!`)
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return &Query{expr: expr, code: code}, nil
}

// Run evaluates the query against v. A single result is returned bare, several as a slice.
//
// A query written for a bare list (".[]...") also works on the {"items": [...]}
// envelope used for list output.
func (q *Query) Run(v any) (any, error) {
	data, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	results, err := q.collect(data)
	if err != nil {
		items, ok := itemsOf(data)
		if !ok || !q.iteratesRoot() {
			return nil, err
		}
		results, err = q.collect(items)
		if err != nil {
			return nil, err
		}
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func (q *Query) collect(data any) ([]any, error) {
	var out []any
	iter := q.code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			return out, nil
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("query error: %w", err)
		}
		out = append(out, v)
	}
}

func (q *Query) iteratesRoot() bool {
	for _, prefix := range []string{".[]", "[.[]", "(.[]", "map(", "length"} {
		if strings.HasPrefix(q.expr, prefix) {
			return true
		}
	}
	return false
}

func itemsOf(data any) (any, bool) {
	m, ok := data.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, false
	}
	items, ok := m["items"].([]any)
	return items, ok
}

// Apply compiles expr and runs it against v. An empty expr returns v unchanged.
func Apply(v any, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return v, nil
	}
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Run(v)
}

// toJSONValue converts typed structs into the map/slice form gojq operates on.
func toJSONValue(v any) (any, error) {
	switch v.(type) {
	case nil, bool, string, float64, int, map[string]any, []any:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value for query: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode value for query: %w", err)
	}
	return out, nil
}
