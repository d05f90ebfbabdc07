package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/backoffice/backoffice-cli/internal/debug"
)

// Header and cookie names exchanged with the backoffice.
const (
	HeaderCulture        = "X-UMB-CULTURE"
	HeaderSegment        = "X-UMB-SEGMENT"
	HeaderDebug          = "X-UMB-DEBUG"
	HeaderRequestedWith  = "X-Requested-With"
	HeaderXSRF           = "X-UMB-XSRF-TOKEN"
	CookieXSRF           = "UMB-XSRF-TOKEN"
	HeaderUserSeconds    = "X-Umb-User-Seconds"
	HeaderUserModified   = "X-Umb-User-Modified"
	requestedWithAjaxVal = "XMLHttpRequest"
)

// RequestInterceptor runs on every outgoing request attempt, in registration order.
// Implementations must be idempotent: a replayed request passes through again.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, req *Request) error
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, req *Request) error

func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// DefaultInterceptors returns the standard chain in its fixed order.
func DefaultInterceptors(backofficePath string, jar http.CookieJar) []RequestInterceptor {
	return []RequestInterceptor{
		CultureInterceptor(backofficePath),
		DebugInterceptor(),
		RequiredHeadersInterceptor(),
		StripDollarFieldsInterceptor(),
		XSRFInterceptor(jar),
	}
}

type cultureKey struct{}

// Culture is the content variant the caller is working on.
type Culture struct {
	Culture string
	Segment string
}

// WithCulture attaches the current culture and segment to ctx.
func WithCulture(ctx context.Context, culture, segment string) context.Context {
	return context.WithValue(ctx, cultureKey{}, Culture{Culture: culture, Segment: segment})
}

// CultureFromContext returns the culture set by WithCulture.
func CultureFromContext(ctx context.Context) (Culture, bool) {
	c, ok := ctx.Value(cultureKey{}).(Culture)
	return c, ok
}

// CultureInterceptor adds culture and segment headers to backoffice API calls only.
func CultureInterceptor(backofficePath string) RequestInterceptor {
	prefix := strings.ToLower(normalizeBackofficePath(backofficePath))
	return RequestInterceptorFunc(func(ctx context.Context, req *Request) error {
		c, ok := CultureFromContext(ctx)
		if !ok || !isBackofficeURL(req.URL, prefix) {
			return nil
		}
		if c.Culture != "" {
			req.Header.Set(HeaderCulture, c.Culture)
		}
		if c.Segment != "" {
			req.Header.Set(HeaderSegment, c.Segment)
		}
		return nil
	})
}

func isBackofficeURL(raw, prefix string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

// DebugInterceptor adds the server debug header when server debugging is enabled in ctx.
func DebugInterceptor() RequestInterceptor {
	return RequestInterceptorFunc(func(ctx context.Context, req *Request) error {
		if debug.ServerDebugEnabled(ctx) {
			req.Header.Set(HeaderDebug, "true")
		}
		return nil
	})
}

// RequiredHeadersInterceptor marks every request as an XHR call.
func RequiredHeadersInterceptor() RequestInterceptor {
	return RequestInterceptorFunc(func(_ context.Context, req *Request) error {
		req.Header.Set(HeaderRequestedWith, requestedWithAjaxVal)
		return nil
	})
}

// StripDollarFieldsInterceptor replaces POST bodies with a deep copy that has
// every '$'-prefixed property removed. The caller's value is not modified.
func StripDollarFieldsInterceptor() RequestInterceptor {
	return RequestInterceptorFunc(func(_ context.Context, req *Request) error {
		if req.Method != http.MethodPost || req.Body == nil {
			return nil
		}
		clone, err := cloneJSON(req.Body)
		if err != nil {
			return fmt.Errorf("failed to copy request body: %w", err)
		}
		req.Body = stripDollarFields(clone)
		return nil
	})
}

func cloneJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func stripDollarFields(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if strings.HasPrefix(k, "$") {
				delete(t, k)
				continue
			}
			t[k] = stripDollarFields(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = stripDollarFields(child)
		}
		return t
	}
	return v
}

// XSRFInterceptor copies the anti-forgery cookie from jar into the request header.
func XSRFInterceptor(jar http.CookieJar) RequestInterceptor {
	return RequestInterceptorFunc(func(_ context.Context, req *Request) error {
		if jar == nil {
			return nil
		}
		u, err := url.Parse(req.URL)
		if err != nil {
			return nil
		}
		for _, c := range jar.Cookies(u) {
			if c.Name == CookieXSRF && c.Value != "" {
				req.Header.Set(HeaderXSRF, c.Value)
				break
			}
		}
		return nil
	})
}
