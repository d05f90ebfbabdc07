package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/resolve"
)

var pages = []resolve.Candidate{
	{ID: 1051, Name: "Home", Path: "-1,1051"},
	{ID: 1067, Name: "About Us", Path: "-1,1051,1067"},
	{ID: 1070, Name: "Contact", Path: "-1,1051,1070"},
}

func TestBest_Exact(t *testing.T) {
	c, err := resolve.Best("about us", pages)
	require.NoError(t, err)
	assert.Equal(t, 1067, c.ID)
}

func TestBest_Fuzzy(t *testing.T) {
	c, err := resolve.Best("cntct", pages)
	require.NoError(t, err)
	assert.Equal(t, 1070, c.ID)
}

func TestBest_NoMatch(t *testing.T) {
	_, err := resolve.Best("zzz", pages)
	assert.ErrorIs(t, err, resolve.ErrNoMatch)
}

func TestBest_Empty(t *testing.T) {
	_, err := resolve.Best("  ", pages)
	assert.ErrorIs(t, err, resolve.ErrEmptyQuery)
}

func TestBest_DuplicateExactNames(t *testing.T) {
	dup := []resolve.Candidate{{ID: 1, Name: "News", Path: "-1,1"}, {ID: 2, Name: "news", Path: "-1,5,2"}}
	_, err := resolve.Best("News", dup)
	var amb *resolve.AmbiguousError
	require.True(t, errors.As(err, &amb))
	assert.Len(t, amb.Matches, 2)
	assert.Contains(t, err.Error(), "1: News (-1,1)")
}

func TestBest_Tie(t *testing.T) {
	tie := []resolve.Candidate{{ID: 1, Name: "Blog A"}, {ID: 2, Name: "Blog B"}}
	_, err := resolve.Best("blog", tie)
	var amb *resolve.AmbiguousError
	assert.True(t, errors.As(err, &amb))
}

func TestRank(t *testing.T) {
	got := resolve.Rank("o", pages, 2)
	assert.Len(t, got, 2)
	assert.Nil(t, resolve.Rank("", pages, 2))
	assert.Nil(t, resolve.Rank("o", pages, 0))
}

type fakeSearch struct {
	results []api.SearchResult
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ api.EntityType, _ string) ([]api.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func TestNodeID(t *testing.T) {
	s := &fakeSearch{results: []api.SearchResult{{ID: 1051, Name: "Home"}, {ID: 1067, Name: "About Us"}}}
	ctx := context.Background()

	id, err := resolve.NodeID(ctx, s, api.EntityDocument, "1234")
	require.NoError(t, err)
	assert.Equal(t, 1234, id)
	assert.Empty(t, s.queries)

	id, err = resolve.NodeID(ctx, s, api.EntityDocument, "-1")
	require.NoError(t, err)
	assert.Equal(t, -1, id)

	id, err = resolve.NodeID(ctx, s, api.EntityDocument, "about")
	require.NoError(t, err)
	assert.Equal(t, 1067, id)
	assert.Equal(t, []string{"about"}, s.queries)
}

func TestNodeIDSearchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := resolve.NodeID(context.Background(), &fakeSearch{err: boom}, api.EntityMedia, "logo")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `search media "logo"`)
}

func TestNodeIDs(t *testing.T) {
	s := &fakeSearch{results: []api.SearchResult{{ID: 7, Name: "Seven"}}}
	ids, err := resolve.NodeIDs(context.Background(), s, api.EntityDocument, []string{"1", "seven"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7}, ids)

	_, err = resolve.NodeIDs(context.Background(), s, api.EntityDocument, []string{"1", ""})
	assert.ErrorIs(t, err, resolve.ErrEmptyQuery)
}
