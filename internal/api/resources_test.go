package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentMoveRequiresParentID(t *testing.T) {
	rec, client := newRecordingServer(t, nil)

	_, err := client.Content().Move(context.Background(), MoveArgs{ID: Int(10)})
	require.Error(t, err)
	assert.EqualError(t, err, "args.parentId cannot be null")
	assert.True(t, IsArgumentError(err))

	_, err = client.Content().Move(context.Background(), MoveArgs{ParentID: Int(5)})
	assert.EqualError(t, err, "args.id cannot be null")

	assert.Empty(t, rec.all())
}

func TestContentMove(t *testing.T) {
	rec, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("/-1/5/10"))
	})

	path, err := client.Content().Move(context.Background(), MoveArgs{ParentID: Int(5), ID: Int(10)})
	require.NoError(t, err)
	assert.Equal(t, "/-1/5/10", path)

	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Content/PostMove", reqs[0].Path)
	assert.JSONEq(t, `{"parentId":5,"id":10}`, reqs[0].Body)
}

func TestMoveToRootIsAllowed(t *testing.T) {
	rec, client := newRecordingServer(t, nil)

	_, err := client.Media().Move(context.Background(), MoveArgs{ParentID: Int(-1), ID: Int(3)})
	require.NoError(t, err)
	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Media/PostMove", reqs[0].Path)
	assert.JSONEq(t, `{"parentId":-1,"id":3}`, reqs[0].Body)
}

func TestRequiredArgumentsSendNothing(t *testing.T) {
	rec, client := newRecordingServer(t, nil)
	ctx := context.Background()

	calls := map[string]struct {
		arg string
		fn  func() error
	}{
		"content get":        {"id", func() error { _, err := client.Content().GetByID(ctx, 0); return err }},
		"content ids":        {"ids", func() error { _, err := client.Content().GetByIDs(ctx, nil); return err }},
		"content empty":      {"contentTypeAlias", func() error { _, err := client.Content().GetEmpty(ctx, " ", -1); return err }},
		"content children":   {"parentId", func() error { _, err := client.Content().GetChildren(ctx, 0, ChildrenOptions{}); return err }},
		"content copy":       {"parentId", func() error { _, err := client.Content().Copy(ctx, CopyArgs{ID: Int(1)}); return err }},
		"content sort":       {"sortedIds", func() error { return client.Content().Sort(ctx, SortArgs{ParentID: Int(1)}) }},
		"content delete":     {"id", func() error { return client.Content().DeleteByID(ctx, 0) }},
		"content publish":    {"id", func() error { _, err := client.Content().Publish(ctx, 0); return err }},
		"content save":       {"content", func() error { _, err := client.Content().Save(ctx, nil, ""); return err }},
		"media folder":       {"name", func() error { _, err := client.Media().AddFolder(ctx, AddFolderArgs{ParentID: Int(-1)}); return err }},
		"entity type":        {"type", func() error { _, err := client.Entity().GetByID(ctx, 1, ""); return err }},
		"entity search":      {"type", func() error { _, err := client.Entity().Search(ctx, "x", "", ""); return err }},
		"users disable":      {"userIds", func() error { return client.Users().Disable(ctx, nil) }},
		"dictionary move":    {"parentId", func() error { _, err := client.Dictionary().Move(ctx, MoveArgs{ID: Int(2)}); return err }},
		"template alias":     {"alias", func() error { _, err := client.Templates().GetByAlias(ctx, ""); return err }},
		"datatype name":      {"name", func() error { _, err := client.DataTypes().GetByName(ctx, ""); return err }},
		"login":              {"password", func() error { _, err := client.Authentication().Login(ctx, LoginArgs{Username: "u"}); return err }},
		"password reset":     {"email", func() error { return client.Authentication().RequestPasswordReset(ctx, "") }},
	}

	for name, tc := range calls {
		t.Run(name, func(t *testing.T) {
			err := tc.fn()
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, tc.arg, argErr.Arg)
		})
	}
	assert.Empty(t, rec.all())
}

func TestContentGetChildrenQuery(t *testing.T) {
	rec, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pageNumber":1,"pageSize":2,"totalItems":3,"totalPages":2,"items":[{"id":11,"name":"A"},{"id":12,"name":"B"}]}`))
	})

	page, err := client.Content().GetChildren(context.Background(), 10, ChildrenOptions{PageSize: 2, Filter: "a b"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, "B", page.Items[1].Name)

	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Content/GetChildren", reqs[0].Path)
	assert.Equal(t, "id=10&pageNumber=1&pageSize=2&orderBy=SortOrder&orderDirection=Ascending&filter=a%20b", reqs[0].Query)
}

func TestDeleteIsPost(t *testing.T) {
	rec, client := newRecordingServer(t, nil)

	require.NoError(t, client.Content().DeleteByID(context.Background(), 42))
	require.NoError(t, client.Templates().DeleteByID(context.Background(), 7))

	reqs := rec.all()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Content/DeleteById", reqs[0].Path)
	assert.Equal(t, "id=42", reqs[0].Query)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Template/DeleteById", reqs[1].Path)
}

func TestContentSaveStripsClientState(t *testing.T) {
	rec, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":5,"name":"Saved"}`))
	})

	item := &ContentItem{ID: 5, Name: "Home", Extra: map[string]any{"$dirty": true, "keep": 1}}
	out, err := client.Content().Save(context.Background(), item, SaveActionPublish)
	require.NoError(t, err)
	assert.Equal(t, "Saved", out.Name)

	reqs := rec.all()
	require.Len(t, reqs, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Body), &sent))
	assert.Equal(t, "publish", sent["action"])
	assert.Equal(t, map[string]any{"keep": float64(1)}, sent["extra"])
	assert.Contains(t, item.Extra, "$dirty")
}

func TestUsersChangeState(t *testing.T) {
	rec, client := newRecordingServer(t, nil)

	require.NoError(t, client.Users().Disable(context.Background(), []int{1, 2}))
	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/umbraco/backoffice/UmbracoApi/Users/PostDisableUsers", reqs[0].Path)
	assert.Equal(t, "userIds=1&userIds=2", reqs[0].Query)
}

func TestDictionaryCreate(t *testing.T) {
	rec, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`1234`))
	})

	id, err := client.Dictionary().Create(context.Background(), -1, "Greeting")
	require.NoError(t, err)
	assert.Equal(t, 1234, id)
	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "parentId=-1&key=Greeting", reqs[0].Query)
}

func TestRemainingTimeoutSeconds(t *testing.T) {
	_, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`)]}',` + "\n" + `"1200.25"`))
	})

	secs, err := client.Authentication().GetRemainingTimeoutSeconds(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1200.25, secs, 0.001)
}

func TestLoginFailureIsQuiet(t *testing.T) {
	_, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	notifier := &fakeNotifier{}
	client.Security.Notifier = notifier

	_, err := client.Authentication().Login(context.Background(), LoginArgs{Username: "admin", Password: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Login failed for user admin")
	assert.Empty(t, notifier.all())
}

func TestEntityGetByIDs(t *testing.T) {
	rec, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"A"},{"id":2,"name":"B"}]`))
	})

	out, err := client.Entity().GetByIDs(context.Background(), []int{1, 2}, EntityDocument)
	require.NoError(t, err)
	require.Len(t, out, 2)

	reqs := rec.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "type=Document", reqs[0].Query)
	assert.JSONEq(t, `{"ids":[1,2]}`, reqs[0].Body)
}

func TestSearcherSupersedes(t *testing.T) {
	started := make(chan struct{}, 1)
	_, client := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "slow" {
			started <- struct{}{}
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"fast"}]`))
	})
	searcher := NewSearcher(client.Entity())

	errCh := make(chan error, 1)
	go func() {
		_, err := searcher.Search(context.Background(), "slow", EntityDocument)
		errCh <- err
	}()
	<-started

	results, err := searcher.Search(context.Background(), "fast", EntityDocument)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fast", results[0].Name)

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("superseded search did not return")
	}
}
