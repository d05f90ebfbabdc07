package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenContentURLUsesCulture(t *testing.T) {
	h := newRouteHandler().
		On(http.MethodGet, apiPrefix+"/Content/GetById", jsonResponse(http.StatusOK, `{"id": 1234, "name": "Om os"}`))
	env := setupTestEnv(t, h)

	out, _, err := runCmd(t, "", "open", env.server.URL+"/umbraco#/content/content/edit/1234?mculture=da-DK", "--json")
	require.NoError(t, err)

	result := decodeJSON(t, out)
	assert.Equal(t, "Document", result["type"])
	assert.EqualValues(t, 1234, result["id"])
	assert.Equal(t, "da-DK", result["culture"])

	calls := h.calls(apiPrefix + "/Content/GetById")
	require.Len(t, calls, 1)
	assert.Equal(t, "da-DK", calls[0].Header.Get("X-UMB-CULTURE"))
}

func TestOpenRejectsOtherServer(t *testing.T) {
	h := newRouteHandler()
	setupTestEnv(t, h)

	_, _, err := runCmd(t, "", "open", "https://other.example.com/umbraco#/media/media/edit/1100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL is for https://other.example.com")
	assert.Zero(t, h.count())
}

func TestOpenRejectsRouteWithoutNode(t *testing.T) {
	h := newRouteHandler()
	env := setupTestEnv(t, h)

	_, _, err := runCmd(t, "", "open", env.server.URL+"/umbraco#/content/content/overview")
	require.Error(t, err)
	assert.Zero(t, h.count())
}
