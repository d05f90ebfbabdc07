package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sync"
	"time"

	"github.com/backoffice/backoffice-cli/internal/debug"
	"github.com/backoffice/backoffice-cli/internal/validation"
)

const DefaultTimeout = 30 * time.Second

// Client is the backoffice API client.
//
// Requests pass through Interceptors in order, then the response is handed to
// Security, which owns the status policies and the 401 replay.
// The client keeps cookies (session and anti-forgery) in its own jar.
type Client struct {
	BaseURL        string
	BackofficePath string
	Endpoints      *Endpoints
	HTTP           *http.Client
	UserAgent      string
	Interceptors   []RequestInterceptor
	Security       *Security

	skipURLValidation bool // internal flag for testing only
	validatedBaseURL  bool
	validateMu        sync.Mutex
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

var validateBaseURL = validation.ValidateBaseURL

// New creates a client for the server at baseURL with the backoffice mounted at backofficePath.
func New(baseURL, backofficePath string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)

	backofficePath = normalizeBackofficePath(backofficePath)
	return &Client{
		BaseURL:           trimSlash(baseURL),
		BackofficePath:    backofficePath,
		Endpoints:         DefaultEndpoints(backofficePath),
		Interceptors:      DefaultInterceptors(backofficePath, jar),
		Security:          NewSecurity(),
		skipURLValidation: os.Getenv("BO_TESTING") == "1",
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
			Jar:       jar,
		},
	}
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL string) *Client {
	c := New(baseURL, DefaultBackofficePath)
	c.skipURLValidation = true
	return c
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}

	if err := validateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	c.validatedBaseURL = true
	return nil
}

func (c *Client) apiURL(alias, action string, params ...Param) (string, error) {
	u, err := c.Endpoints.URL(alias, action, params...)
	if err != nil {
		return "", err
	}
	return resolveURL(c.BaseURL, u), nil
}

// URL returns the absolute URL for an alias, action and parameters.
func (c *Client) URL(alias, action string, params ...Param) (string, error) {
	return c.apiURL(alias, action, params...)
}

// Call performs an arbitrary action against a registered alias and returns the raw response.
func (c *Client) Call(ctx context.Context, method, alias, action string, params []Param, body any) (*Response, error) {
	u, err := c.apiURL(alias, action, params...)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, NewRequest(method, u, body))
}

// send runs the interceptor chain, performs the exchange and applies the
// response policies. A request is replayed at most once after re-authentication.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}

	for {
		resp, err := c.roundTrip(ctx, req)
		if err != nil {
			return nil, err
		}
		c.Security.inspectHeaders(resp.Header)

		if resp.Status < 400 {
			return resp, nil
		}

		resErr := &ResourceError{
			ErrorMsg: http.StatusText(resp.Status),
			Data:     errorData(resp.Body),
			Status:   resp.Status,
			URL:      req.URL,
		}
		retry, err := c.Security.handleError(ctx, req, resErr)
		if retry {
			req.replayed = true
			slog.Debug("replaying request after re-authentication", "method", req.Method, "url", req.URL)
			continue
		}
		return nil, err
	}
}

// roundTrip performs one attempt: interceptors, marshaling, HTTP exchange.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	for _, ic := range c.Interceptors {
		if err := ic.InterceptRequest(ctx, req); err != nil {
			return nil, &ResourceError{ErrorMsg: "request interceptor failed", URL: req.URL, Err: err}
		}
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &ResourceError{ErrorMsg: "failed to marshal request body", URL: req.URL, Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, &ResourceError{ErrorMsg: "failed to create request", URL: req.URL, Err: err}
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method, "url", req.URL, "error", err)
		}
		return nil, &ResourceError{ErrorMsg: "request failed", URL: req.URL, Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &ResourceError{ErrorMsg: "failed to read response", Status: resp.StatusCode, URL: req.URL, Err: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", req.Method, "url", req.URL, "status", resp.StatusCode, "replay", req.replayed, "duration", time.Since(start))
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
