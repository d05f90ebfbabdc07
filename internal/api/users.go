package api

import (
	"context"
	"fmt"
)

// UserListOptions pages and filters the user list.
type UserListOptions struct {
	PageNumber     int
	PageSize       int
	OrderBy        string
	OrderDirection string
	Filter         string
	UserStates     []string
	UserGroups     []string
}

// GetByID retrieves a user.
func (s UsersService) GetByID(ctx context.Context, id int) (*User, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[*User](ctx, s, AliasUsers, "GetById",
		fmt.Sprintf("Failed to retrieve data for user %d", id), P("id", id))
}

// GetPaged lists users.
func (s UsersService) GetPaged(ctx context.Context, opts UserListOptions) (*PagedResult[User], error) {
	if opts.PageNumber <= 0 {
		opts.PageNumber = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 25
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "Username"
	}
	if opts.OrderDirection == "" {
		opts.OrderDirection = "Ascending"
	}
	params := []Param{
		P("pageNumber", opts.PageNumber),
		P("pageSize", opts.PageSize),
		P("orderBy", opts.OrderBy),
		P("orderDirection", opts.OrderDirection),
		P("userGroups", opts.UserGroups),
		P("userStates", opts.UserStates),
	}
	if opts.Filter != "" {
		params = append(params, P("filter", opts.Filter))
	}
	return getResource[*PagedResult[User]](ctx, s, AliasUsers, "GetPagedUsers", "Failed to retrieve users", params...)
}

// Disable disables the given users.
func (s UsersService) Disable(ctx context.Context, ids []int) error {
	return changeUserState(ctx, s, "PostDisableUsers", ids, "Failed to disable the users")
}

// Enable enables the given users.
func (s UsersService) Enable(ctx context.Context, ids []int) error {
	return changeUserState(ctx, s, "PostEnableUsers", ids, "Failed to enable the users")
}

// Unlock unlocks the given users.
func (s UsersService) Unlock(ctx context.Context, ids []int) error {
	return changeUserState(ctx, s, "PostUnlockUsers", ids, "Failed to unlock the users")
}

func changeUserState(ctx context.Context, r Requester, action string, ids []int, errorMsg string) error {
	if err := requireIDs("userIds", ids); err != nil {
		return err
	}
	_, err := postResource[string](ctx, r, AliasUsers, action, nil, errorMsg, P("userIds", ids))
	return err
}

// Save saves a user and returns the stored version.
func (s UsersService) Save(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, &ArgumentError{Arg: "user"}
	}
	return postResource[*User](ctx, s, AliasUsers, "PostSaveUser", user, "Failed to save user")
}
