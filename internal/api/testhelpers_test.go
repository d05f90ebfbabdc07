package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// recorder is an httptest handler that captures every request it serves.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   string(body),
	})
	h := r.handler
	r.mu.Unlock()
	if h != nil {
		h(w, req)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func newRecordingServer(t *testing.T, h http.HandlerFunc) (*recorder, *Client) {
	t.Helper()
	rec := &recorder{handler: h}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)
	return rec, newTestClient(server.URL)
}

type notification struct {
	Headline string
	Message  string
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notification
}

func (n *fakeNotifier) Error(headline, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, notification{Headline: headline, Message: message})
}

func (n *fakeNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.msgs...)
}

type fakeEvents struct {
	mu    sync.Mutex
	names []string
}

func (e *fakeEvents) Emit(name string, _ any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = append(e.names, name)
}

func (e *fakeEvents) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.names...)
}

type fakeTracker struct {
	mu      sync.Mutex
	seconds []float64
}

func (f *fakeTracker) SetRemainingSeconds(s float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seconds = append(f.seconds, s)
}

type fakeAuth struct {
	calls atomic.Int32
	fn    func(ctx context.Context) error
}

func (a *fakeAuth) Reauthenticate(ctx context.Context) error {
	a.calls.Add(1)
	if a.fn != nil {
		return a.fn(ctx)
	}
	return nil
}
