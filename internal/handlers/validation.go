package handlers

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single request binding error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts binding errors to a user-friendly format.
// Malformed JSON yields a single body-level entry.
func ParseValidationErrors(err error) []ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ValidationError{{Field: "body", Message: "Invalid request body"}}
	}

	result := make([]ValidationError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		result = append(result, ValidationError{
			Field:   fieldError.Field(),
			Message: getErrorMessage(fieldError),
		})
	}
	return result
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + unitFor(fe.Kind())
	case "max":
		return fe.Field() + " must not exceed " + fe.Param() + unitFor(fe.Kind())
	default:
		return fe.Field() + " is invalid"
	}
}

// unitFor names what min and max count for a field kind
func unitFor(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " entries"
	default:
		return ""
	}
}
