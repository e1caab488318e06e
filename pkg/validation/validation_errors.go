package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey holds errors that are not tied to a single field.
const NonFieldKey = "non_field_errors"

// FieldLabels maps JSON field names to user-friendly labels
var FieldLabels = map[string]string{
	"name":         "Name",
	"email":        "Email",
	"phone_number": "Phone number",
	"message":      "Message",
	"username":     "Username",
	"password":     "Password",
}

// lengthMessages overrides the generic min/max wording for contact fields.
var lengthMessages = map[string]string{
	"name":         "Name must be between 2 and 255 characters.",
	"email":        "Email must not exceed 254 characters.",
	"phone_number": "Phone number must not exceed 30 characters.",
	"message":      "Message must be between 10 and 5000 characters.",
}

// FormatValidationErrors converts validator.ValidationErrors to a
// field -> message map, one message per field.
func FormatValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{NonFieldKey: err.Error()}
	}

	messages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := messages[field]; seen {
			continue
		}
		messages[field] = formatSingleError(e)
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	label := getFieldLabel(field)

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)

	case "min", "max":
		if msg, ok := lengthMessages[field]; ok {
			return msg
		}
		if e.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s characters.", label, e.Param())
		}
		return fmt.Sprintf("%s must not exceed %s characters.", label, e.Param())

	case "email":
		return "A valid email is required."

	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
