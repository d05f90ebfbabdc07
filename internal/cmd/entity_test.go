package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backoffice-cli/internal/api"
)

func TestParseEntityType(t *testing.T) {
	for input, want := range map[string]api.EntityType{
		"document":        api.EntityDocument,
		"Content":         api.EntityDocument,
		"media":           api.EntityMedia,
		"data-type":       api.EntityDataType,
		"dictionary_item": api.EntityDictionaryItem,
		"DocumentType":    api.EntityDocumentType,
	} {
		got, err := parseEntityType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := parseEntityType("stylesheet")
	assert.Error(t, err)
}

func TestRankResults(t *testing.T) {
	results := []api.SearchResult{
		{ID: 1, Name: "Contact"},
		{ID: 2, Name: "Blog"},
		{ID: 3, Name: "Blog archive"},
		{ID: 4, Name: "Xyz"},
	}

	ranked := rankResults("blog", results, 0)
	require.Len(t, ranked, 4)
	assert.Equal(t, 2, ranked[0].ID)
	assert.Equal(t, 3, ranked[1].ID)
	assert.ElementsMatch(t, []int{1, 4}, []int{ranked[2].ID, ranked[3].ID})

	assert.Len(t, rankResults("blog", results, 1), 1)
	assert.Empty(t, rankResults("blog", nil, 10))
}

func TestEntitySearch(t *testing.T) {
	h := newRouteHandler().
		On(http.MethodGet, apiPrefix+"/Entity/Search", jsonResponse(http.StatusOK, `[
			{"id": 1101, "name": "Header image", "path": "-1,1100,1101"},
			{"id": 1102, "name": "Hero", "path": "-1,1100,1102"}
		]`))
	setupTestEnv(t, h)

	out, _, err := runCmd(t, "", "entity", "search", "hero", "-t", "media", "--from", "1100")
	require.NoError(t, err)
	assert.Contains(t, out, "Hero")
	assert.Contains(t, out, "Header image")

	calls := h.calls(apiPrefix + "/Entity/Search")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "type=Media")
	assert.Contains(t, calls[0].Query, "searchFrom=1100")
}

func TestEntityGetAmbiguousName(t *testing.T) {
	h := newRouteHandler().
		On(http.MethodGet, apiPrefix+"/Entity/Search", jsonResponse(http.StatusOK, `[
			{"id": 10, "name": "News", "path": "-1,5,10"},
			{"id": 11, "name": "News", "path": "-1,6,11"}
		]`))
	setupTestEnv(t, h)

	_, stderr, err := runCmd(t, "", "entity", "get", "News")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "ambiguous")
}

func TestEntityChildrenRejectsURLOfOtherType(t *testing.T) {
	h := newRouteHandler()
	env := setupTestEnv(t, h)

	_, _, err := runCmd(t, "", "entity", "children", env.server.URL+"/umbraco#/media/media/edit/1100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL points at a media, expected a document")
	assert.Zero(t, h.count())
}
