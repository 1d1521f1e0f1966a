package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/webhookx-io/configvault/pkg/errs"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the `validate` tags of v. Failures are reported by
// their json field path.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	validateErr := errs.NewValidateError("invalid configuration")
	for _, e := range validationErrors {
		// drop the root struct name
		_, path, _ := strings.Cut(e.Namespace(), ".")
		validateErr.Fields[path] = formatError(e)
	}
	return validateErr
}

func formatError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field missing"
	case "oneof":
		return fmt.Sprintf("invalid value: %v", fe.Value())
	case "url":
		return fmt.Sprintf("invalid url: %v", fe.Value())
	case "gt":
		return fmt.Sprintf("value must be > %s", fe.Param())
	case "gte":
		return fmt.Sprintf("value must be >= %s", fe.Param())
	case "lt":
		return fmt.Sprintf("value must be < %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be <= %s", fe.Param())
	case "min":
		return fmt.Sprintf("length must be at least %s", fe.Param())
	}
	return fe.Error()
}
