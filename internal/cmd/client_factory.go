package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/cache"
	"github.com/backoffice/backoffice-cli/internal/config"
	"github.com/backoffice/backoffice-cli/internal/events"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
	"github.com/backoffice/backoffice-cli/internal/lookup"
	"github.com/backoffice/backoffice-cli/internal/notify"
	"github.com/backoffice/backoffice-cli/internal/session"
)

const (
	namesCacheSize = 512
	namesCacheTTL  = 10 * time.Minute
)

// app is everything a command needs to talk to one backoffice.
type app struct {
	cfg     config.ClientConfig
	client  *api.Client
	notes   *notify.Center
	bus     *events.Bus
	tracker *session.Tracker
	session *session.Service
	cache   cache.Cache
	names   *lookup.Names
}

type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	return &clientFactory{
		timeout:   flags.Timeout,
		userAgent: fmt.Sprintf("backoffice-cli/%s", version),
	}
}

func (f *clientFactory) overrides() config.Overrides {
	return config.Overrides{
		Profile:        flags.Profile,
		BaseURL:        flags.BaseURL,
		BackofficePath: flags.BackofficePath,
		Culture:        flags.Culture,
		Segment:        flags.Segment,
	}
}

// build resolves the configuration and wires the client to its collaborators.
func (f *clientFactory) build(ctx context.Context) (*app, error) {
	cfg, err := config.ResolveClientConfig(f.overrides())
	if err != nil {
		return nil, err
	}
	return f.newApp(ctx, cfg), nil
}

func (f *clientFactory) newApp(ctx context.Context, cfg config.ClientConfig) *app {
	client := api.New(cfg.BaseURL, cfg.BackofficePath)
	if f.timeout > 0 {
		client.HTTP.Timeout = f.timeout
	}
	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}

	a := &app{
		cfg:     cfg,
		client:  client,
		notes:   notify.NewCenter(iocontext.GetIO(ctx).ErrOut),
		bus:     events.NewBus(),
		tracker: session.NewTracker(),
	}
	a.session = &session.Service{
		Auth:    client.Authentication(),
		Tracker: a.tracker,
		Events:  a.bus,
		Credentials: func() (session.Credentials, bool) {
			return session.Credentials{Username: cfg.Username, Password: cfg.Password}, cfg.HasCredentials()
		},
	}

	client.Security.Session = a.tracker
	client.Security.Notifier = a.notes
	client.Security.Events = a.bus
	client.Security.Authenticator = a.session

	a.restoreSession()
	a.bus.Subscribe(session.EventAuthenticated, func(any) { a.saveSession() })
	a.bus.Subscribe(session.EventLoggedOut, func(any) {
		if err := config.ClearSession(cfg.ProfileName); err != nil {
			slog.Debug("failed to clear session", "profile", cfg.ProfileName, "error", err)
		}
	})
	a.session.Watch(ctx, a.bus)

	c, err := cache.Open(cfg.BaseURL)
	if err != nil {
		slog.Debug("cache unavailable", "error", err)
		c = cache.Nop{}
	}
	a.cache = c
	a.names = lookup.NewNames(client.Entity(), namesCacheSize, namesCacheTTL)
	return a
}

// context adds the configured culture and segment to ctx.
func (a *app) context(ctx context.Context) context.Context {
	if a.cfg.Culture == "" && a.cfg.Segment == "" {
		return ctx
	}
	return api.WithCulture(ctx, a.cfg.Culture, a.cfg.Segment)
}

// sessionURL is the URL the session cookies are stored against.
func (a *app) sessionURL() *url.URL {
	u, err := url.Parse(a.client.BaseURL + a.client.BackofficePath + "/")
	if err != nil {
		return nil
	}
	return u
}

func (a *app) restoreSession() {
	u := a.sessionURL()
	if u == nil || a.cfg.ProfileName == "" {
		return
	}
	stored, err := config.LoadSession(a.cfg.ProfileName)
	if err != nil {
		slog.Debug("failed to load session", "profile", a.cfg.ProfileName, "error", err)
		return
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		path := c.Path
		if path == "" {
			path = "/"
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: path, Secure: c.Secure, HttpOnly: c.HTTPOnly})
	}
	a.client.HTTP.Jar.SetCookies(u, cookies)
}

func (a *app) saveSession() {
	u := a.sessionURL()
	if u == nil || a.cfg.ProfileName == "" {
		return
	}
	var stored []config.SessionCookie
	for _, c := range a.client.HTTP.Jar.Cookies(u) {
		stored = append(stored, config.SessionCookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	if err := config.SaveSession(a.cfg.ProfileName, stored); err != nil {
		slog.Debug("failed to save session", "profile", a.cfg.ProfileName, "error", err)
	}
}

// serverVariables returns the published server variables, cached per server,
// and registers their base URL aliases on the client.
func (a *app) serverVariables(ctx context.Context, refresh bool) (*api.ServerVariables, error) {
	if refresh {
		a.cache.Delete(ctx, serverVariablesKey)
	}
	sv, err := cache.Fetch(ctx, a.cache, serverVariablesKey, func(ctx context.Context) (*api.ServerVariables, error) {
		return a.client.LoadServerVariables(ctx)
	})
	if err != nil {
		return nil, err
	}
	a.client.ApplyServerVariables(sv)
	return sv, nil
}

const (
	serverVariablesKey = "server-variables"
	languagesKey       = "languages"
)
