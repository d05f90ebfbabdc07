package api

import (
	"context"
	"fmt"
)

// AddFolderArgs creates a media folder.
type AddFolderArgs struct {
	Name     string `json:"name" validate:"required"`
	ParentID *int   `json:"parentId" validate:"required"`
}

// GetByID retrieves a media item.
func (s MediaService) GetByID(ctx context.Context, id int) (*MediaItem, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[*MediaItem](ctx, s, AliasMedia, "GetById",
		fmt.Sprintf("Failed to retrieve data for media id %d", id), P("id", id))
}

// GetChildren lists the children of a media node.
func (s MediaService) GetChildren(ctx context.Context, parentID int, opts ChildrenOptions) (*PagedResult[MediaItem], error) {
	if err := requireID("parentId", parentID); err != nil {
		return nil, err
	}
	return getResource[*PagedResult[MediaItem]](ctx, s, AliasMedia, "GetChildren",
		fmt.Sprintf("Failed to retrieve children for media item %d", parentID), opts.params(parentID)...)
}

// GetChildFolders lists the folders directly under a media node.
func (s MediaService) GetChildFolders(ctx context.Context, parentID int) ([]Entity, error) {
	if parentID == 0 {
		parentID = -1
	}
	return getResource[[]Entity](ctx, s, AliasMedia, "GetChildFolders",
		"Failed to retrieve child folders for media item "+fmt.Sprint(parentID), P("id", parentID))
}

// AddFolder creates a folder and returns it.
func (s MediaService) AddFolder(ctx context.Context, args AddFolderArgs) (*MediaItem, error) {
	if err := validateArgs(args); err != nil {
		return nil, err
	}
	return postResource[*MediaItem](ctx, s, AliasMedia, "PostAddFolder", args, "Failed to add folder")
}

// Move moves a media node and returns the server's text response.
func (s MediaService) Move(ctx context.Context, args MoveArgs) (string, error) {
	return moveNode(ctx, s, AliasMedia, args, "Failed to move media")
}

// DeleteByID deletes a media item.
func (s MediaService) DeleteByID(ctx context.Context, id int) error {
	return deleteByID(ctx, s, AliasMedia, id, fmt.Sprintf("Failed to delete item %d", id))
}

// EmptyRecycleBin permanently deletes everything in the media recycle bin.
func (s MediaService) EmptyRecycleBin(ctx context.Context) error {
	_, err := postResource[string](ctx, s, AliasMedia, "EmptyRecycleBin", nil, "Failed to empty the recycle bin")
	return err
}
