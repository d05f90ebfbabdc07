package api

import (
	"context"
	"fmt"
)

// GetByID retrieves a data type.
func (s DataTypesService) GetByID(ctx context.Context, id int) (*DataType, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return getResource[*DataType](ctx, s, AliasDataType, "GetById",
		fmt.Sprintf("Failed to retrieve data for data type id %d", id), P("id", id))
}

// GetByName retrieves a data type by name.
func (s DataTypesService) GetByName(ctx context.Context, name string) (*DataType, error) {
	if err := requireString("name", name); err != nil {
		return nil, err
	}
	return getResource[*DataType](ctx, s, AliasDataType, "GetByName",
		"Failed to retrieve data for data type with name "+name, P("name", name))
}

// GetAll lists every data type.
func (s DataTypesService) GetAll(ctx context.Context) ([]DataType, error) {
	return getResource[[]DataType](ctx, s, AliasDataType, "GetAll", "Failed to retrieve data")
}

// Move moves a data type into a folder and returns the server's text response.
func (s DataTypesService) Move(ctx context.Context, args MoveArgs) (string, error) {
	return moveNode(ctx, s, AliasDataType, args, "Failed to move data type")
}

// DeleteByID deletes a data type.
func (s DataTypesService) DeleteByID(ctx context.Context, id int) error {
	return deleteByID(ctx, s, AliasDataType, id, fmt.Sprintf("Failed to delete item %d", id))
}

// Save saves a data type.
func (s DataTypesService) Save(ctx context.Context, dt *DataType) (*DataType, error) {
	if dt == nil {
		return nil, &ArgumentError{Arg: "dataType"}
	}
	return postResource[*DataType](ctx, s, AliasDataType, "PostSave", dt, "Failed to save data for data type id "+fmt.Sprint(dt.ID))
}
