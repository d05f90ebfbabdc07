package api

import (
	"context"
	"net/http"
)

// MoveArgs moves node ID under ParentID. Both are required.
type MoveArgs struct {
	ParentID *int `json:"parentId" validate:"required"`
	ID       *int `json:"id" validate:"required"`
}

// getResource issues a GET for alias/action and decodes the result.
func getResource[T any](ctx context.Context, r Requester, alias, action, errorMsg string, params ...Param) (T, error) {
	var zero T
	u, err := r.apiURL(alias, action, params...)
	if err != nil {
		return zero, err
	}
	return resourcePromise[T](ctx, r, NewRequest(http.MethodGet, u, nil), errorMsg)
}

// postResource issues a POST for alias/action with an optional JSON body.
func postResource[T any](ctx context.Context, r Requester, alias, action string, body any, errorMsg string, params ...Param) (T, error) {
	var zero T
	u, err := r.apiURL(alias, action, params...)
	if err != nil {
		return zero, err
	}
	return resourcePromise[T](ctx, r, NewRequest(http.MethodPost, u, body), errorMsg)
}

// moveNode posts a validated MoveArgs to PostMove and resolves to the server's raw text.
func moveNode(ctx context.Context, r Requester, alias string, args MoveArgs, errorMsg string) (string, error) {
	if err := validateArgs(args); err != nil {
		return "", err
	}
	return postResource[string](ctx, r, alias, "PostMove", args, errorMsg)
}

// deleteByID posts to DeleteById. Deletes are POSTs on this API.
func deleteByID(ctx context.Context, r Requester, alias string, id int, errorMsg string) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	_, err := postResource[string](ctx, r, alias, "DeleteById", nil, errorMsg, P("id", id))
	return err
}
