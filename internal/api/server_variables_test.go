package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverVariablesScript = `Umbraco.Sys.ServerVariables = {
  "umbracoUrls": {
    "contentApiBaseUrl": "/cms/backoffice/UmbracoApi/Content/",
    "redirectUrlManagementApiBaseUrl": "/cms/backoffice/UmbracoApi/RedirectUrlManagement/",
    "serverVarsJs": "/cms/ServerVariables"
  },
  "umbracoSettings": {"umbracoPath": "/cms", "allowPasswordReset": true},
  "application": {"version": "8.18.8", "cacheBuster": "abc"},
  "isDebuggingEnabled": false
};`

func TestParseServerVariables(t *testing.T) {
	sv, err := ParseServerVariables([]byte(serverVariablesScript))
	require.NoError(t, err)
	assert.Equal(t, "/cms", sv.UmbracoSettings.UmbracoPath)
	assert.True(t, sv.UmbracoSettings.AllowPasswordReset)
	assert.Equal(t, "8.18.8", sv.Application.Version)
	assert.Len(t, sv.UmbracoURLs, 3)

	plain, err := ParseServerVariables([]byte(`{"application":{"version":"9.0.1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "9.0.1", plain.Application.Version)

	_, err = ParseServerVariables([]byte(`<html>login</html>`))
	require.Error(t, err)
}

func TestLoadServerVariablesRegistersAliases(t *testing.T) {
	rec, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(serverVariablesScript))
	})

	sv, err := client.LoadServerVariables(context.Background())
	require.NoError(t, err)
	require.NoError(t, sv.CheckVersion())

	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/umbraco/ServerVariables", reqs[0].Path)

	u, err := client.URL("redirectUrlManagementApiBaseUrl", "GetEnableState")
	require.NoError(t, err)
	assert.Contains(t, u, "/cms/backoffice/UmbracoApi/RedirectUrlManagement/GetEnableState")

	u, err = client.URL(AliasContent, "GetById", P("id", 1))
	require.NoError(t, err)
	assert.Contains(t, u, "/cms/backoffice/UmbracoApi/Content/GetById?id=1")

	_, err = client.URL("serverVarsJs", "x")
	assert.True(t, errors.Is(err, ErrUnknownAlias))
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"8.0.0", false},
		{"8.18.8", false},
		{"v10.4.0", false},
		{"7.15.10", true},
		{"", false},
		{"nightly", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			sv := &ServerVariables{}
			sv.Application.Version = tt.version
			err := sv.CheckVersion()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedServer)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
