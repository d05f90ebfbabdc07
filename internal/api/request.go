package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// xssiPrefix is prepended by the server to JSON responses to defeat JSON hijacking.
var xssiPrefix = []byte(")]}',")

// Request describes one API call before it is put on the wire.
// Interceptors may mutate it; the body is marshaled after they run.
type Request struct {
	Method string
	URL    string
	Body   any
	Header http.Header

	// IgnoreErrors suppresses every error notification for this request.
	IgnoreErrors bool
	// IgnoreStatus suppresses error notifications for the listed statuses only.
	IgnoreStatus []int
	// SkipAuthRetry keeps a 401 from triggering re-authentication and replay.
	SkipAuthRetry bool

	replayed bool
}

// NewRequest creates a request with an empty header set.
func NewRequest(method, url string, body any) *Request {
	return &Request{
		Method: method,
		URL:    url,
		Body:   body,
		Header: http.Header{},
	}
}

func (r *Request) ignoresStatus(status int) bool {
	if r.IgnoreErrors {
		return true
	}
	for _, s := range r.IgnoreStatus {
		if s == status {
			return true
		}
	}
	return false
}

// Response is a completed HTTP exchange.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v, ignoring the anti-hijacking prefix.
// An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	body := stripXSSI(r.Body)
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// Handlers customize how a resource call resolves and rejects.
// A nil Success decodes the JSON body into T; a nil Error keeps the normalized error.
type Handlers[T any] struct {
	ErrorMsg string
	Success  func(resp *Response) (T, error)
	Error    func(err *ResourceError) error
}

// resourcePromise sends req and decodes the response into T, rejecting with a
// *ResourceError carrying errorMsg on failure.
func resourcePromise[T any](ctx context.Context, r Requester, req *Request, errorMsg string) (T, error) {
	return resourcePromiseWith(ctx, r, req, Handlers[T]{ErrorMsg: errorMsg})
}

// resourcePromiseWith is resourcePromise with custom success and error transforms.
func resourcePromiseWith[T any](ctx context.Context, r Requester, req *Request, h Handlers[T]) (T, error) {
	var zero T
	resp, err := r.send(ctx, req)
	if err != nil {
		resErr := normalizeError(err, req, h.ErrorMsg)
		if h.Error != nil {
			return zero, h.Error(resErr)
		}
		return zero, resErr
	}
	if h.Success != nil {
		return h.Success(resp)
	}
	return decodeBody[T](resp.Body)
}

// normalizeError converts transport and HTTP failures into *ResourceError.
// Errors that are not about the exchange itself (argument, auth) pass through.
func normalizeError(err error, req *Request, errorMsg string) *ResourceError {
	switch e := err.(type) {
	case *ResourceError:
		out := *e
		if errorMsg != "" {
			out.ErrorMsg = errorMsg
		}
		return &out
	case *AuthError:
		return &ResourceError{ErrorMsg: errorMsg, Status: http.StatusUnauthorized, URL: req.URL, Err: e}
	}
	return &ResourceError{ErrorMsg: errorMsg, URL: req.URL, Err: err}
}

// decodeBody unmarshals a JSON body into T. A string T receives raw text when the body is not a JSON string.
func decodeBody[T any](body []byte) (T, error) {
	var out T
	body = stripXSSI(body)
	switch p := any(&out).(type) {
	case *string:
		var s string
		if len(body) > 0 && body[0] == '"' && json.Unmarshal(body, &s) == nil {
			*p = s
		} else {
			*p = string(body)
		}
		return out, nil
	case *json.RawMessage:
		*p = append(json.RawMessage(nil), body...)
		return out, nil
	case *[]byte:
		*p = append([]byte(nil), body...)
		return out, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return out, nil
}

func stripXSSI(body []byte) []byte {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if bytes.HasPrefix(trimmed, xssiPrefix) {
		return bytes.TrimLeft(trimmed[len(xssiPrefix):], "\r\n")
	}
	return body
}

// errorData parses an error body into JSON when possible, otherwise returns it as text.
func errorData(body []byte) any {
	body = stripXSSI(body)
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}
