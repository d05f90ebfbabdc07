package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/mod/semver"
)

// MinServerVersion is the oldest server release whose API matches this client.
const MinServerVersion = "v8.0.0"

// ErrUnsupportedServer is returned by CheckVersion for servers older than MinServerVersion.
var ErrUnsupportedServer = errors.New("unsupported server version")

// ServerVariables is the runtime configuration the server publishes for the backoffice.
type ServerVariables struct {
	UmbracoURLs     map[string]string `json:"umbracoUrls"`
	UmbracoSettings struct {
		UmbracoPath        string `json:"umbracoPath"`
		AppPluginsPath     string `json:"appPluginsPath,omitempty"`
		AllowPasswordReset bool   `json:"allowPasswordReset"`
		LoginBackgroundURL string `json:"loginBackgroundImage,omitempty"`
	} `json:"umbracoSettings"`
	Application struct {
		Version     string `json:"version"`
		CacheBuster string `json:"cacheBuster,omitempty"`
	} `json:"application"`
	IsDebuggingEnabled bool `json:"isDebuggingEnabled"`
}

// ServerVariablesURL is where the server publishes its variables.
func (c *Client) ServerVariablesURL() string {
	return c.BaseURL + c.BackofficePath + "/ServerVariables"
}

// LoadServerVariables fetches the server variables and registers every published
// base URL alias, replacing the built-in defaults.
func (c *Client) LoadServerVariables(ctx context.Context) (*ServerVariables, error) {
	req := NewRequest(http.MethodGet, c.ServerVariablesURL(), nil)
	req.SkipAuthRetry = true
	sv, err := resourcePromiseWith(ctx, c, req, Handlers[*ServerVariables]{
		ErrorMsg: "Failed to load server variables",
		Success: func(resp *Response) (*ServerVariables, error) {
			return ParseServerVariables(resp.Body)
		},
	})
	if err != nil {
		return nil, err
	}
	c.ApplyServerVariables(sv)
	return sv, nil
}

// ApplyServerVariables registers the published aliases on the client.
func (c *Client) ApplyServerVariables(sv *ServerVariables) {
	if sv == nil {
		return
	}
	for alias, base := range sv.UmbracoURLs {
		if strings.HasSuffix(alias, "BaseUrl") && base != "" {
			c.Endpoints.Register(alias, base)
		}
	}
}

// ParseServerVariables accepts either plain JSON or the script form
// `Umbraco.Sys.ServerVariables = {...};`.
func ParseServerVariables(body []byte) (*ServerVariables, error) {
	body = stripXSSI(body)
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("server variables: no JSON object in response")
	}
	var sv ServerVariables
	if err := json.Unmarshal(body[start:end+1], &sv); err != nil {
		return nil, fmt.Errorf("server variables: %w", err)
	}
	return &sv, nil
}

// CheckVersion returns ErrUnsupportedServer when the server is older than MinServerVersion.
// An unparseable version is not an error; the server may be a pre-release build.
func (sv *ServerVariables) CheckVersion() error {
	v := canonicalVersion(sv.Application.Version)
	if v == "" {
		return nil
	}
	if semver.Compare(v, MinServerVersion) < 0 {
		return fmt.Errorf("%w: %s (need %s or later)", ErrUnsupportedServer, sv.Application.Version, MinServerVersion)
	}
	return nil
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
