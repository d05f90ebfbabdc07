package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/events"
)

// fakeBackoffice accepts admin/secret and rejects everything else until logged in.
type fakeBackoffice struct {
	loggedIn atomic.Bool
	logins   atomic.Int32
	userName atomic.Value

	// rejections makes the next n content requests fail with 401 despite a valid session.
	rejections    atomic.Int32
	currentUsers  atomic.Int32
	contentCalls  atomic.Int32
	alwaysChanged atomic.Bool
}

func (f *fakeBackoffice) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/Authentication/PostLogin"):
		f.logins.Add(1)
		var args api.LoginArgs
		_ = json.NewDecoder(r.Body).Decode(&args)
		if args.Username != "admin" || args.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.loggedIn.Store(true)
		f.writeUser(w)
	case strings.HasSuffix(r.URL.Path, "/Authentication/PostLogout"):
		f.loggedIn.Store(false)
	case !f.loggedIn.Load():
		w.WriteHeader(http.StatusUnauthorized)
	case strings.HasSuffix(r.URL.Path, "/Authentication/GetCurrentUser"):
		f.currentUsers.Add(1)
		if f.alwaysChanged.Load() {
			w.Header().Set(api.HeaderUserModified, "true")
		}
		f.writeUser(w)
	case f.rejections.Add(-1) >= 0:
		f.contentCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	default:
		f.contentCalls.Add(1)
		w.Header().Set(api.HeaderUserSeconds, "1200")
		w.Header().Set(api.HeaderUserModified, "true")
		_, _ = w.Write([]byte(`{"id":1,"name":"Home"}`))
	}
}

func (f *fakeBackoffice) writeUser(w http.ResponseWriter) {
	name, _ := f.userName.Load().(string)
	if name == "" {
		name = "Admin"
	}
	_, _ = w.Write([]byte(`)]}',` + "\n" + `{"id":-1,"name":"` + name + `","remainingAuthSeconds":1199}`))
}

func newService(t *testing.T, creds *Credentials) (*fakeBackoffice, *api.Client, *Service, *events.Bus) {
	t.Helper()
	t.Setenv("BO_TESTING", "1")
	backend := &fakeBackoffice{}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := api.New(server.URL, "")
	bus := events.NewBus()
	svc := &Service{
		Auth:    client.Authentication(),
		Tracker: NewTracker(),
		Events:  bus,
		Credentials: func() (Credentials, bool) {
			if creds == nil {
				return Credentials{}, false
			}
			return *creds, true
		},
	}
	client.Security.Authenticator = svc
	client.Security.Session = svc.Tracker
	client.Security.Events = bus
	return backend, client, svc, bus
}

func TestLoginAndLogout(t *testing.T) {
	_, _, svc, bus := newService(t, nil)
	var seen []string
	bus.Subscribe(EventAuthenticated, func(any) { seen = append(seen, EventAuthenticated) })
	bus.Subscribe(EventLoggedOut, func(any) { seen = append(seen, EventLoggedOut) })

	user, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)
	assert.Equal(t, StateAuthenticated, svc.Tracker.State())
	assert.InDelta(t, 1199, svc.Tracker.RemainingSeconds(), 1)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, StateLoggedOut, svc.Tracker.State())
	assert.Nil(t, svc.Tracker.User())
	assert.Equal(t, []string{EventAuthenticated, EventLoggedOut}, seen)
}

func TestLoginBadPassword(t *testing.T) {
	_, _, svc, _ := newService(t, nil)
	_, err := svc.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, StateLoggedOut, svc.Tracker.State())
}

func TestReauthenticateOn401(t *testing.T) {
	backend, client, svc, _ := newService(t, &Credentials{Username: "admin", Password: "secret"})

	item, err := client.Content().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Home", item.Name)
	assert.EqualValues(t, 1, backend.logins.Load())
	assert.Equal(t, StateAuthenticated, svc.Tracker.State())
	assert.InDelta(t, 1200, svc.Tracker.RemainingSeconds(), 1)
}

func TestReauthenticateWithoutCredentials(t *testing.T) {
	backend, client, svc, bus := newService(t, nil)
	var notAuthenticated int
	bus.Subscribe(api.EventNotAuthenticated, func(any) { notAuthenticated++ })

	_, err := client.Content().GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.True(t, errors.Is(err, ErrNoCredentials))
	assert.Zero(t, backend.logins.Load())
	assert.Equal(t, 1, notAuthenticated)
	assert.Equal(t, StateExpired, svc.Tracker.State())
}

func TestReauthenticateKeepsValidSession(t *testing.T) {
	backend, client, svc, bus := newService(t, nil)
	backend.loggedIn.Store(true)
	backend.rejections.Store(1)
	var notAuthenticated int
	bus.Subscribe(api.EventNotAuthenticated, func(any) { notAuthenticated++ })

	item, err := client.Content().GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Home", item.Name)
	assert.EqualValues(t, 2, backend.contentCalls.Load(), "request is replayed once")
	assert.EqualValues(t, 1, backend.currentUsers.Load())
	assert.Zero(t, backend.logins.Load())
	assert.Zero(t, notAuthenticated)
	assert.Equal(t, StateAuthenticated, svc.Tracker.State())
}

func TestWatchIgnoresNestedRefresh(t *testing.T) {
	backend, client, svc, bus := newService(t, nil)
	_, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	backend.alwaysChanged.Store(true)

	stop := svc.Watch(context.Background(), bus)
	defer stop()

	_, err = client.Content().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, backend.currentUsers.Load())

	_, err = client.Content().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, backend.currentUsers.Load(), "each response triggers one refresh")
}

func TestWatchRefreshesUser(t *testing.T) {
	backend, client, svc, bus := newService(t, nil)
	_, err := svc.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	stop := svc.Watch(context.Background(), bus)
	defer stop()

	backend.userName.Store("Renamed")
	_, err = client.Content().GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, svc.Tracker.User())
	assert.Equal(t, "Renamed", svc.Tracker.User().Name)
}

func TestTrackerRemainingSeconds(t *testing.T) {
	tr := NewTracker()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	tr.now = func() time.Time { return now }

	assert.Zero(t, tr.RemainingSeconds())
	assert.Equal(t, StateUnknown, tr.State())

	tr.SetRemainingSeconds(60)
	assert.Equal(t, StateAuthenticated, tr.State())
	now = base.Add(15 * time.Second)
	assert.InDelta(t, 45, tr.RemainingSeconds(), 0.001)
	now = base.Add(2 * time.Minute)
	assert.Zero(t, tr.RemainingSeconds())

	tr.SetRemainingSeconds(0)
	assert.Equal(t, StateExpired, tr.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "logged_out", StateLoggedOut.String())
	assert.Equal(t, "unknown", State(42).String())
}
