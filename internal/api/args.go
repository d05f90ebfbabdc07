package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var argValidator = newArgValidator()

func newArgValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire name so errors read "args.parentId".
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateArgs checks `validate` tags on an argument struct and reports the
// first missing field as *ArgumentError.
func validateArgs(args any) error {
	if args == nil {
		return &ArgumentError{}
	}
	rv := reflect.ValueOf(args)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return &ArgumentError{}
	}
	err := argValidator.Struct(args)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ArgumentError{Arg: fieldErrs[0].Field()}
	}
	return err
}

// requireID rejects the zero id, which the server never assigns.
func requireID(name string, id int) error {
	if id == 0 {
		return &ArgumentError{Arg: name}
	}
	return nil
}

func requireString(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ArgumentError{Arg: name}
	}
	return nil
}

func requireIDs(name string, ids []int) error {
	if len(ids) == 0 {
		return &ArgumentError{Arg: name}
	}
	return nil
}

// Int returns a pointer to n, for optional and required argument fields.
func Int(n int) *int {
	return &n
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
