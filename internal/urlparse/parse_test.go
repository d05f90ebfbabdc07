package urlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backoffice-cli/internal/api"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		want     ParsedURL
		wantType api.EntityType
	}{
		{
			name:     "content editor",
			url:      "https://cms.example.com/umbraco#/content/content/edit/1234",
			want:     ParsedURL{BaseURL: "https://cms.example.com", BackofficePath: "/umbraco", Section: "content", Tree: "content", Action: "edit", ID: 1234},
			wantType: api.EntityDocument,
		},
		{
			name:     "trailing slash and culture",
			url:      "https://cms.example.com/umbraco/#/content/content/edit/1051?mculture=da-DK",
			want:     ParsedURL{BaseURL: "https://cms.example.com", BackofficePath: "/umbraco", Section: "content", Tree: "content", Action: "edit", ID: 1051, Culture: "da-DK"},
			wantType: api.EntityDocument,
		},
		{
			name:     "media with custom path and port",
			url:      "http://localhost:8080/cms#/media/media/edit/1100",
			want:     ParsedURL{BaseURL: "http://localhost:8080", BackofficePath: "/cms", Section: "media", Tree: "media", Action: "edit", ID: 1100},
			wantType: api.EntityMedia,
		},
		{
			name:     "settings tree is case insensitive",
			url:      "https://cms.example.com/umbraco#/settings/dataTypes/edit/-88",
			want:     ParsedURL{BaseURL: "https://cms.example.com", BackofficePath: "/umbraco", Section: "settings", Tree: "datatypes", Action: "edit", ID: -88},
			wantType: api.EntityDataType,
		},
		{
			name:     "no id",
			url:      "https://cms.example.com/#/translation/dictionary/list",
			want:     ParsedURL{BaseURL: "https://cms.example.com", BackofficePath: "/umbraco", Section: "translation", Tree: "dictionary", Action: "list"},
			wantType: api.EntityDictionaryItem,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
			typ, ok := got.EntityType()
			assert.True(t, ok)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.want.ID != 0, got.HasID())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		msg  string
	}{
		{"empty", "", "cannot be empty"},
		{"no scheme", "cms.example.com/umbraco#/content/content/edit/1", "scheme"},
		{"ftp", "ftp://cms.example.com/umbraco#/content/content/edit/1", "scheme"},
		{"no fragment", "https://cms.example.com/umbraco", "not a backoffice editor URL"},
		{"bad route", "https://cms.example.com/umbraco#/content", "unsupported backoffice route"},
		{"non numeric id", "https://cms.example.com/umbraco#/content/content/edit/abc", "unsupported backoffice route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.url)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestUnknownTree(t *testing.T) {
	p, err := Parse("https://cms.example.com/umbraco#/forms/form/edit/3")
	require.NoError(t, err)
	_, ok := p.EntityType()
	assert.False(t, ok)
}
