package cmd

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backoffice-cli/internal/api"
)

func TestTemplateAlias(t *testing.T) {
	assert.Equal(t, "blogPost", templateAlias("Blog Post"))
	assert.Equal(t, "homePage2", templateAlias("home-page 2"))
	assert.Equal(t, "", templateAlias("  "))
}

func TestTranslatedCultures(t *testing.T) {
	translations := []api.DictionaryTranslation{
		{IsoCode: "en-US", Translation: "Read more"},
		{IsoCode: "da-DK", Translation: " "},
		{IsoCode: "de-DE", Translation: "Weiterlesen"},
	}
	assert.Equal(t, "en-US,de-DE", translatedCultures(translations))
	assert.Equal(t, "-", translatedCultures(nil))
	assert.Equal(t, "en-US, da-DK, de-DE", isoCodes(translations))
}

func TestInactiveUsers(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-time.Hour)
	after := cutoff.Add(time.Hour)
	users := []api.User{
		{ID: 1, Name: "Never"},
		{ID: 2, Name: "Old", LastLoginDate: &before},
		{ID: 3, Name: "Recent", LastLoginDate: &after},
	}

	got := inactiveUsers(users, cutoff)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
	assert.NotNil(t, inactiveUsers(nil, cutoff))
}

func TestSortOrder(t *testing.T) {
	children := []api.Entity{{ID: 1}, {ID: 2}, {ID: 3}}

	order, err := sortOrder([]int{3, 1, 3}, children)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, order)

	_, err = sortOrder([]int{9}, children)
	assert.ErrorContains(t, err, "node 9 is not a child")
}

func TestDictionaryTranslate(t *testing.T) {
	h := newRouteHandler().
		On(http.MethodGet, apiPrefix+"/Dictionary/GetById", jsonResponse(http.StatusOK, `{
			"id": 7, "name": "ReadMore",
			"translations": [{"isoCode": "en-US", "translation": "Read more"}, {"isoCode": "da-DK", "translation": ""}]
		}`)).
		On(http.MethodPost, apiPrefix+"/Dictionary/PostSave", func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(http.StatusOK, `{"id": 7, "name": "ReadMore"}`)(w, r)
		})
	setupTestEnv(t, h)

	out, _, err := runCmd(t, "", "dictionary", "translate", "7", "--culture", "da-dk", "--value", "Læs mere")
	require.NoError(t, err)
	assert.Contains(t, out, "Translated dictionary item 7: ReadMore (da-dk)")

	saves := h.calls(apiPrefix + "/Dictionary/PostSave")
	require.Len(t, saves, 1)
	assert.Contains(t, saves[0].Body, `"translation":"Læs mere"`)
	assert.Contains(t, saves[0].Body, `"translation":"Read more"`)
}

func TestDictionaryTranslateUnknownCulture(t *testing.T) {
	h := newRouteHandler().
		On(http.MethodGet, apiPrefix+"/Dictionary/GetById", jsonResponse(http.StatusOK, `{
			"id": 7, "name": "ReadMore", "translations": [{"isoCode": "en-US", "translation": "Read more"}]
		}`))
	setupTestEnv(t, h)

	_, _, err := runCmd(t, "", "dictionary", "translate", "7", "--culture", "fr-FR", "--value", "Lire")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installed languages: en-US")
	assert.Empty(t, h.calls(apiPrefix+"/Dictionary/PostSave"))
}
