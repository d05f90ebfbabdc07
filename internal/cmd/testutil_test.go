package cmd

// Test helpers for command tests.
//
// A typical test routes the endpoints it needs and runs the command:
//
//	func TestContentGet(t *testing.T) {
//		h := newRouteHandler().
//			On("GET", "/umbraco/backoffice/UmbracoApi/Content/GetById", jsonResponse(200, `{"id":1234}`))
//		setupTestEnv(t, h)
//		out, _, err := runCmd(t, "", "content", "get", "1234")
//		require.NoError(t, err)
//	}

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
)

const apiPrefix = "/umbraco/backoffice/UmbracoApi"

type testEnv struct {
	server *httptest.Server
}

// setupTestEnv serves handler and points the BO_* environment at it.
func setupTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("BO_BASE_URL", server.URL)
	t.Setenv("BO_USERNAME", "editor@example.com")
	t.Setenv("BO_PASSWORD", "secret")
	t.Setenv("BO_TESTING", "1") // skip URL validation for localhost
	t.Setenv("BO_OUTPUT", "text")
	return &testEnv{server: server}
}

// useSharedKeyring makes every config call in the test see the same keyring.
func useSharedKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

// runCmd executes the CLI with stdin and returns what it wrote.
func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	streams, out, errOut := iocontext.Buffers(stdin)
	err := Execute(iocontext.WithIO(context.Background(), streams), args)
	return out.String(), errOut.String(), err
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// xssiResponse prefixes body the way the server guards JSON responses.
func xssiResponse(status int, body string) http.HandlerFunc {
	return jsonResponse(status, ")]}',\n"+body)
}

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

// routeHandler dispatches on method and path and records every request.
type routeHandler struct {
	mu       sync.Mutex
	routes   []route
	requests []capturedRequest
}

func newRouteHandler() *routeHandler {
	return &routeHandler{}
}

func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	rh.routes = append(rh.routes, route{method: method, path: path, handler: handler})
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rh.mu.Lock()
	rh.requests = append(rh.requests, capturedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	var h http.HandlerFunc
	for _, rt := range rh.routes {
		if rt.method == r.Method && rt.path == r.URL.Path {
			h = rt.handler
			break
		}
	}
	rh.mu.Unlock()

	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// calls returns the requests made to path.
func (rh *routeHandler) calls(path string) []capturedRequest {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	var out []capturedRequest
	for _, r := range rh.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (rh *routeHandler) count() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return len(rh.requests)
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(s)), &out), "output: %s", s)
	return out
}

func TestRouteHandlerRecordsRequests(t *testing.T) {
	h := newRouteHandler().On(http.MethodGet, "/ping", jsonResponse(http.StatusOK, `{}`))
	server := httptest.NewServer(h)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ping?x=1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/missing")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	calls := h.calls("/ping")
	require.Len(t, calls, 1)
	require.Equal(t, "x=1", calls[0].Query)
	require.Equal(t, 2, h.count())
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
