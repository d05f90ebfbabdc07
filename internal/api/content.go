package api

import (
	"context"
	"fmt"
)

// ChildrenOptions pages and orders a children listing.
type ChildrenOptions struct {
	PageNumber     int
	PageSize       int
	OrderBy        string
	OrderDirection string
	Filter         string
	Culture        string
}

func (o ChildrenOptions) params(id int) []Param {
	if o.PageNumber <= 0 {
		o.PageNumber = 1
	}
	if o.OrderBy == "" {
		o.OrderBy = "SortOrder"
	}
	if o.OrderDirection == "" {
		o.OrderDirection = "Ascending"
	}
	params := []Param{
		P("id", id),
		P("pageNumber", o.PageNumber),
		P("pageSize", o.PageSize),
		P("orderBy", o.OrderBy),
		P("orderDirection", o.OrderDirection),
	}
	if o.Filter != "" {
		params = append(params, P("filter", o.Filter))
	}
	if o.Culture != "" {
		params = append(params, P("cultureName", o.Culture))
	}
	return params
}

// CopyArgs copies node ID under ParentID.
type CopyArgs struct {
	ParentID         *int `json:"parentId" validate:"required"`
	ID               *int `json:"id" validate:"required"`
	RelateToOriginal bool `json:"relateToOriginal"`
	Recursive        bool `json:"recursive"`
}

// SortArgs sets the order of ParentID's children.
type SortArgs struct {
	ParentID  *int  `json:"parentId" validate:"required"`
	SortedIDs []int `json:"sortedIds" validate:"required"`
}

// Content save actions.
const (
	SaveActionSave    = "save"
	SaveActionPublish = "publish"
)

type contentSave struct {
	*ContentItem
	Action string `json:"action"`
}

// GetByID retrieves a content item.
func (s ContentService) GetByID(ctx context.Context, id int) (*ContentItem, error) {
	return getContent(ctx, s, id)
}

func getContent(ctx context.Context, r Requester, id int) (*ContentItem, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[*ContentItem](ctx, r, AliasContent, "GetById",
		fmt.Sprintf("Failed to retrieve data for content id %d", id), P("id", id))
}

// GetByIDs retrieves several content items at once.
func (s ContentService) GetByIDs(ctx context.Context, ids []int) ([]ContentItem, error) {
	if err := requireIDs("ids", ids); err != nil {
		return nil, err
	}
	return getResource[[]ContentItem](ctx, s, AliasContent, "GetByIds",
		"Failed to retrieve data for content ids", P("ids", ids))
}

// GetEmpty returns a blank content item scaffolded from a content type.
func (s ContentService) GetEmpty(ctx context.Context, contentTypeAlias string, parentID int) (*ContentItem, error) {
	if err := requireString("contentTypeAlias", contentTypeAlias); err != nil {
		return nil, err
	}
	return getResource[*ContentItem](ctx, s, AliasContent, "GetEmpty",
		"Failed to retrieve data for empty content item type "+contentTypeAlias,
		P("contentTypeAlias", contentTypeAlias), P("parentId", parentID))
}

// GetChildren lists the children of a content node.
func (s ContentService) GetChildren(ctx context.Context, parentID int, opts ChildrenOptions) (*PagedResult[ContentItem], error) {
	if err := requireID("parentId", parentID); err != nil {
		return nil, err
	}
	return getResource[*PagedResult[ContentItem]](ctx, s, AliasContent, "GetChildren",
		fmt.Sprintf("Failed to retrieve children for content item %d", parentID), opts.params(parentID)...)
}

// Move moves a content node and returns the server's text response (the new path).
func (s ContentService) Move(ctx context.Context, args MoveArgs) (string, error) {
	return moveNode(ctx, s, AliasContent, args, "Failed to move content")
}

// Copy copies a content node and returns the server's text response.
func (s ContentService) Copy(ctx context.Context, args CopyArgs) (string, error) {
	if err := validateArgs(args); err != nil {
		return "", err
	}
	return postResource[string](ctx, s, AliasContent, "PostCopy", args, "Failed to copy content")
}

// Sort reorders the children of a node.
func (s ContentService) Sort(ctx context.Context, args SortArgs) error {
	if err := validateArgs(args); err != nil {
		return err
	}
	_, err := postResource[string](ctx, s, AliasContent, "PostSort", args, "Failed to sort content")
	return err
}

// DeleteByID deletes a content item, moving it to the recycle bin first when it is not already trashed.
func (s ContentService) DeleteByID(ctx context.Context, id int) error {
	return deleteByID(ctx, s, AliasContent, id, fmt.Sprintf("Failed to delete item %d", id))
}

// Publish publishes a content item.
func (s ContentService) Publish(ctx context.Context, id int) (*ContentItem, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return postResource[*ContentItem](ctx, s, AliasContent, "PostPublishById", nil,
		fmt.Sprintf("Failed to publish content with id %d", id), P("id", id))
}

// Unpublish unpublishes the given cultures of a content item, or all of it when cultures is empty.
func (s ContentService) Unpublish(ctx context.Context, id int, cultures []string) (*ContentItem, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	body := map[string]any{"id": id, "cultures": cultures}
	return postResource[*ContentItem](ctx, s, AliasContent, "PostUnpublish", body,
		fmt.Sprintf("Failed to unpublish content with id %d", id))
}

// EmptyRecycleBin permanently deletes everything in the content recycle bin.
func (s ContentService) EmptyRecycleBin(ctx context.Context) error {
	_, err := postResource[string](ctx, s, AliasContent, "EmptyRecycleBin", nil, "Failed to empty the recycle bin")
	return err
}

// GetNiceURL returns the public URL of a content item.
func (s ContentService) GetNiceURL(ctx context.Context, id int) (string, error) {
	if err := requireID("id", id); err != nil {
		return "", err
	}
	return getResource[string](ctx, s, AliasContent, "GetNiceUrl",
		fmt.Sprintf("Failed to retrieve url for id: %d", id), P("id", id))
}

// Save saves (action "save") or saves and publishes (action "publish") a content item.
func (s ContentService) Save(ctx context.Context, item *ContentItem, action string) (*ContentItem, error) {
	if item == nil {
		return nil, &ArgumentError{Arg: "content"}
	}
	if action == "" {
		action = SaveActionSave
	}
	return postResource[*ContentItem](ctx, s, AliasContent, "PostSave", contentSave{ContentItem: item, Action: action},
		"Failed to save content")
}
