package api

import (
	"context"
	"fmt"
)

// GetByID retrieves a dictionary item with its translations.
func (s DictionaryService) GetByID(ctx context.Context, id int) (*DictionaryItem, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[*DictionaryItem](ctx, s, AliasDictionary, "GetById",
		fmt.Sprintf("Failed to get item %d", id), P("id", id))
}

// GetList returns the flattened dictionary overview.
func (s DictionaryService) GetList(ctx context.Context) ([]DictionaryOverviewItem, error) {
	return getResource[[]DictionaryOverviewItem](ctx, s, AliasDictionary, "GetList", "Unable to retrieve list")
}

// Create creates a dictionary key under parentID (-1 for the root) and returns its id.
func (s DictionaryService) Create(ctx context.Context, parentID int, key string) (int, error) {
	if err := requireString("key", key); err != nil {
		return 0, err
	}
	return postResource[int](ctx, s, AliasDictionary, "Create", nil,
		"Create item "+key, P("parentId", parentID), P("key", key))
}

// Move moves a dictionary item and returns the server's text response.
func (s DictionaryService) Move(ctx context.Context, args MoveArgs) (string, error) {
	return moveNode(ctx, s, AliasDictionary, args, "Failed to move dictionary")
}

// DeleteByID deletes a dictionary item and its descendants.
func (s DictionaryService) DeleteByID(ctx context.Context, id int) error {
	return deleteByID(ctx, s, AliasDictionary, id, fmt.Sprintf("Delete item %d", id))
}

// Save saves a dictionary item.
func (s DictionaryService) Save(ctx context.Context, item *DictionaryItem) (*DictionaryItem, error) {
	if item == nil {
		return nil, &ArgumentError{Arg: "dictionary"}
	}
	return postResource[*DictionaryItem](ctx, s, AliasDictionary, "PostSave", item, "Save item "+item.Name)
}
