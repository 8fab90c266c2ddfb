package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their yaml names, so errors read like
// the file the user wrote.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// structError turns the first tag violation into a readable error.
func structError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	_, path, _ := strings.Cut(fe.Namespace(), ".")

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "datetime":
		return fmt.Errorf("%s must be YYYY-MM-DD", path)
	case "oneof":
		return fmt.Errorf("%s must be one of %s", path, strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Errorf("%s failed %s validation", path, fe.Tag())
}
