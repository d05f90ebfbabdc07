package api

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEndpoints(t *testing.T) {
	e := DefaultEndpoints("")
	base, err := e.Base(AliasContent)
	require.NoError(t, err)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Content/", base)

	custom := DefaultEndpoints("cms/")
	base, err = custom.Base(AliasMedia)
	require.NoError(t, err)
	assert.Equal(t, "/cms/backoffice/UmbracoApi/Media/", base)
}

func TestEndpointsURL(t *testing.T) {
	e := DefaultEndpoints(DefaultBackofficePath)

	tests := []struct {
		name   string
		alias  string
		action string
		params []Param
		want   string
	}{
		{
			name:   "no params",
			alias:  AliasContent,
			action: "GetEmpty",
			want:   "/umbraco/backoffice/UmbracoApi/Content/GetEmpty",
		},
		{
			name:   "params keep order",
			alias:  AliasContent,
			action: "GetChildren",
			params: []Param{P("id", 10), P("pageNumber", 1), P("filter", "")},
			want:   "/umbraco/backoffice/UmbracoApi/Content/GetChildren?id=10&pageNumber=1&filter=",
		},
		{
			name:   "values are encoded",
			alias:  AliasEntity,
			action: "Search",
			params: []Param{P("query", "a b&c=d/é")},
			want:   "/umbraco/backoffice/UmbracoApi/Entity/Search?query=a%20b%26c%3Dd%2F%C3%A9",
		},
		{
			name:   "slices repeat the key",
			alias:  AliasUsers,
			action: "PostDisableUsers",
			params: []Param{P("userIds", []int{1, 2, 3})},
			want:   "/umbraco/backoffice/UmbracoApi/Users/PostDisableUsers?userIds=1&userIds=2&userIds=3",
		},
		{
			name:   "nil values are skipped",
			alias:  AliasUsers,
			action: "GetPagedUsers",
			params: []Param{P("a", nil), P("b", true)},
			want:   "/umbraco/backoffice/UmbracoApi/Users/GetPagedUsers?b=true",
		},
		{
			name:   "named string types",
			alias:  AliasEntity,
			action: "GetById",
			params: []Param{P("id", 4), P("type", EntityDocument)},
			want:   "/umbraco/backoffice/UmbracoApi/Entity/GetById?id=4&type=Document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.URL(tt.alias, tt.action, tt.params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpointsURLIsDeterministic(t *testing.T) {
	e := DefaultEndpoints(DefaultBackofficePath)
	params := map[string]any{"z": 1, "a": "x", "m": []string{"p", "q"}}

	first, err := e.URLFromMap(AliasContent, "GetById", params)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := e.URLFromMap(AliasContent, "GetById", params)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Content/GetById?a=x&m=p&m=q&z=1", first)
}

func TestQueryStringRoundTrips(t *testing.T) {
	values := []string{"plain", "with space", "100%", "a+b", "?&=#", "ünïcødé", ""}
	for _, v := range values {
		q := QueryString([]Param{P("k", v)})
		parsed, err := url.ParseQuery(q)
		require.NoError(t, err, q)
		assert.Equal(t, v, parsed.Get("k"), q)
	}
}

func TestEndpointsUnknownAlias(t *testing.T) {
	e := DefaultEndpoints(DefaultBackofficePath)
	_, err := e.URL("nopeApiBaseUrl", "GetById")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAlias))
}

func TestEndpointsRegister(t *testing.T) {
	e := NewEndpoints(nil)
	e.Register("customApiBaseUrl", "/x/api/Custom/")
	got, err := e.URL("customApiBaseUrl", "Run", P("id", 1))
	require.NoError(t, err)
	assert.Equal(t, "/x/api/Custom/Run?id=1", got)
	assert.Equal(t, []string{"customApiBaseUrl"}, e.Aliases())
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://cms.test/umbraco/x", resolveURL("https://cms.test/", "/umbraco/x"))
	assert.Equal(t, "https://cms.test/umbraco/x", resolveURL("https://cms.test", "umbraco/x"))
	assert.Equal(t, "https://other.test/a", resolveURL("https://cms.test", "https://other.test/a"))
}
