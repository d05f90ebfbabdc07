package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownAlias is returned when a URL is requested for an alias that was never registered.
var ErrUnknownAlias = errors.New("unknown API base URL alias")

// Base URL aliases known to the backoffice.
const (
	AliasContent        = "contentApiBaseUrl"
	AliasMedia          = "mediaApiBaseUrl"
	AliasEntity         = "entityApiBaseUrl"
	AliasAuthentication = "authenticationApiBaseUrl"
	AliasCurrentUser    = "currentUserApiBaseUrl"
	AliasUsers          = "userApiBaseUrl"
	AliasDictionary     = "dictionaryApiBaseUrl"
	AliasTemplate       = "templateApiBaseUrl"
	AliasDataType       = "dataTypeApiBaseUrl"
	AliasLanguage       = "languageApiBaseUrl"
)

// DefaultBackofficePath is the path the backoffice is mounted under when the server does not say otherwise.
const DefaultBackofficePath = "/umbraco"

var defaultControllers = map[string]string{
	AliasContent:        "Content",
	AliasMedia:          "Media",
	AliasEntity:         "Entity",
	AliasAuthentication: "Authentication",
	AliasCurrentUser:    "CurrentUser",
	AliasUsers:          "Users",
	AliasDictionary:     "Dictionary",
	AliasTemplate:       "Template",
	AliasDataType:       "DataType",
	AliasLanguage:       "Language",
}

// Param is a single query string parameter. Order of a []Param is preserved in the built URL.
type Param struct {
	Key   string
	Value any
}

// P is shorthand for Param{Key: key, Value: value}.
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// Endpoints is the registered table of API base URL aliases.
type Endpoints struct {
	mu    sync.RWMutex
	bases map[string]string
}

// NewEndpoints creates a table seeded with the given alias → base URL pairs.
func NewEndpoints(bases map[string]string) *Endpoints {
	e := &Endpoints{bases: make(map[string]string, len(bases))}
	for alias, base := range bases {
		e.bases[alias] = base
	}
	return e
}

// DefaultEndpoints returns the built-in alias table for a backoffice mounted at backofficePath.
func DefaultEndpoints(backofficePath string) *Endpoints {
	backofficePath = normalizeBackofficePath(backofficePath)
	bases := make(map[string]string, len(defaultControllers))
	for alias, controller := range defaultControllers {
		bases[alias] = fmt.Sprintf("%s/backoffice/UmbracoApi/%s/", backofficePath, controller)
	}
	return NewEndpoints(bases)
}

func normalizeBackofficePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultBackofficePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}

// Register adds or replaces an alias.
func (e *Endpoints) Register(alias, base string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bases == nil {
		e.bases = map[string]string{}
	}
	e.bases[alias] = base
}

// Base returns the base URL registered for alias.
func (e *Endpoints) Base(alias string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	base, ok := e.bases[alias]
	if !ok || base == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return base, nil
}

// Aliases returns the registered aliases in sorted order.
func (e *Endpoints) Aliases() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.bases))
	for alias := range e.bases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// URL builds base + action + query for the given alias. Values are percent-encoded
// and emitted in the order supplied.
func (e *Endpoints) URL(alias, action string, params ...Param) (string, error) {
	base, err := e.Base(alias)
	if err != nil {
		return "", err
	}
	u := base + action
	if q := QueryString(params); q != "" {
		u += "?" + q
	}
	return u, nil
}

// URLFromMap is URL for a flat parameter object. Keys are sorted so the result is deterministic.
func (e *Endpoints) URLFromMap(alias, action string, params map[string]any) (string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]Param, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, Param{Key: k, Value: params[k]})
	}
	return e.URL(alias, action, ordered...)
}

// QueryString encodes params as key=value pairs joined by '&'.
// Slice values expand to one pair per element; nil values are skipped.
func QueryString(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		for _, v := range paramValues(p.Value) {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(encodeComponent(p.Key))
			b.WriteByte('=')
			b.WriteString(encodeComponent(v))
		}
	}
	return b.String()
}

// encodeComponent percent-encodes s, spaces included, so values survive any query parser.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func paramValues(v any) []string {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case int:
		return []string{strconv.Itoa(t)}
	case []int:
		out := make([]string, len(t))
		for i, n := range t {
			out[i] = strconv.Itoa(n)
		}
		return out
	case bool:
		return []string{strconv.FormatBool(t)}
	case fmt.Stringer:
		return []string{t.String()}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return paramValues(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, paramValues(rv.Index(i).Interface())...)
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}

// resolveURL joins a relative base URL onto the server origin. Absolute URLs are returned as-is.
func resolveURL(origin, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	origin = strings.TrimSuffix(origin, "/")
	if u != "" && u[0] != '/' {
		u = "/" + u
	}
	return origin + u
}
