package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so the errors map matches the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Name
		}
		return name
	})

	// filled rejects a field that is present but blank
	_ = v.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	})

	return v
}

// CrossFieldValidator is implemented by request types with rules that span
// several fields, such as password confirmation.
type CrossFieldValidator interface {
	Validate() map[string]string
}

// ValidateStruct evaluates the struct tags of data plus its cross-field
// rules and returns one message per failing field, or nil.
func ValidateStruct(data any) map[string]string {
	errors := make(map[string]string)

	if err := validate.Struct(data); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				if _, exists := errors[fe.Field()]; !exists {
					errors[fe.Field()] = getErrorMessage(fe)
				}
			}
		} else {
			errors["body"] = "The request body is invalid."
		}
	}

	if cv, ok := data.(CrossFieldValidator); ok {
		for field, msg := range cv.Validate() {
			if _, exists := errors[field]; !exists {
				errors[field] = msg
			}
		}
	}

	if len(errors) == 0 {
		return nil
	}
	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	field := strings.ReplaceAll(err.Field(), "_", " ")

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "filled":
		return fmt.Sprintf("The %s field must have a value.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, err.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, err.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("The selected %s is invalid. Must be one of: %s.", field, options)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
