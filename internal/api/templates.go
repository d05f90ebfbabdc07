package api

import (
	"context"
	"fmt"
)

// GetByID retrieves a template.
func (s TemplatesService) GetByID(ctx context.Context, id int) (*Template, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[*Template](ctx, s, AliasTemplate, "GetById",
		fmt.Sprintf("Failed to retrieve data for template id %d", id), P("id", id))
}

// GetByAlias retrieves a template by alias.
func (s TemplatesService) GetByAlias(ctx context.Context, alias string) (*Template, error) {
	if err := requireString("alias", alias); err != nil {
		return nil, err
	}
	return getResource[*Template](ctx, s, AliasTemplate, "GetByAlias",
		"Failed to retrieve data for template "+alias, P("alias", alias))
}

// GetAll lists every template.
func (s TemplatesService) GetAll(ctx context.Context) ([]Template, error) {
	return getResource[[]Template](ctx, s, AliasTemplate, "GetAll", "Failed to retrieve data")
}

// GetScaffold returns an unsaved template inheriting from parentID (-1 for none).
func (s TemplatesService) GetScaffold(ctx context.Context, parentID int) (*Template, error) {
	return getResource[*Template](ctx, s, AliasTemplate, "GetScaffold",
		"Failed to retrieve data for empty template", P("id", parentID))
}

// Save saves a template.
func (s TemplatesService) Save(ctx context.Context, tmpl *Template) (*Template, error) {
	if tmpl == nil {
		return nil, &ArgumentError{Arg: "template"}
	}
	return postResource[*Template](ctx, s, AliasTemplate, "PostSave", tmpl, "Failed to save template")
}

// DeleteByID deletes a template.
func (s TemplatesService) DeleteByID(ctx context.Context, id int) error {
	return deleteByID(ctx, s, AliasTemplate, id, fmt.Sprintf("Failed to delete item %d", id))
}
