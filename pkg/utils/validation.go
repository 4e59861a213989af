package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks data against its validate tags and returns a
// field-to-message map, or nil when everything passes.
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}

	for _, fieldErr := range validationErrors {
		out[fieldErr.Field()] = messageForTag(fieldErr)
	}
	return out
}

func messageForTag(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(err.Param(), " ", ", ")
	case "uuid":
		return "Must be a valid UUID"
	}
	return fmt.Sprintf("Invalid %s field", err.Field())
}

// FormatValidationErrors flattens a validation error map into one
// log-friendly string.
func FormatValidationErrors(errs map[string]string) string {
	parts := make([]string, 0, len(errs))
	for field, msg := range errs {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}
